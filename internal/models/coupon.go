package models

// CouponType discriminates how a coupon's value is applied.
type CouponType string

const (
	// CouponPercentage discounts a fraction of the cart subtotal
	// (Value 0.10 means 10% off).
	CouponPercentage CouponType = "percentage"
	// CouponShipping offsets the shipping fee by a flat amount,
	// capped at the computed shipping.
	CouponShipping CouponType = "shipping"
)

// Coupon is a discount code. Codes live in the coupons collection and are
// matched case-insensitively; at most one coupon applies to a cart.
type Coupon struct {
	Code   string     `json:"code" bson:"_id"`
	Value  float64    `json:"value" bson:"value"`
	Type   CouponType `json:"type" bson:"type"`
	Active bool       `json:"active" bson:"active"`
}
