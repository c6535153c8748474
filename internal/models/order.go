package models

import "time"

// OrderRequest represents an incoming order submission.
type OrderRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Notes         string `json:"notes,omitempty"`
	CouponCode    string `json:"coupon_code,omitempty"`
}

// Order is a persisted order with its denormalized items.
type Order struct {
	ID            string      `json:"id" bson:"_id"`
	CustomerName  string      `json:"customer_name" bson:"customer_name"`
	CustomerEmail string      `json:"customer_email" bson:"customer_email"`
	Shipping      float64     `json:"shipping" bson:"shipping"`
	TotalAmount   float64     `json:"total_amount" bson:"total_amount"`
	Notes         string      `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	Items         []OrderItem `json:"items" bson:"-"`
}

// OrderItem is a snapshot of a cart line at order time. Product name and
// unit price are denormalized so later catalog edits do not rewrite history.
type OrderItem struct {
	ID          string  `json:"id" bson:"_id"`
	OrderID     string  `json:"order_id" bson:"order_id"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price"`
	TotalPrice  float64 `json:"total_price" bson:"total_price"`
}
