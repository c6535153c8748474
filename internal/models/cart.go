package models

import "time"

// CartItem is a single row in the cart_items collection.
type CartItem struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// CartLine is a cart item joined with its product, the shape the
// storefront works with (pricing, checkout, rendering).
type CartLine struct {
	ID       string  `json:"id" bson:"_id"`
	UserID   string  `json:"user_id" bson:"user_id"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Product  Product `json:"product" bson:"product"`
}

// LineTotal returns unit price times quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
