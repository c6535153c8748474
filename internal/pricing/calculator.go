package pricing

import "github.com/stg-catalog/catalog-api/internal/models"

// Shipping rules for the storefront. Orders strictly above the threshold
// ship for free; everything else pays the flat fee.
const (
	FreeShippingThreshold = 500.00
	FlatShippingFee       = 29.99
)

// Quote is the derived price breakdown for a cart snapshot.
type Quote struct {
	Subtotal         float64 `json:"subtotal"`
	Shipping         float64 `json:"shipping"`
	CouponDiscount   float64 `json:"coupon_discount"`
	ShippingDiscount float64 `json:"shipping_discount"`
	Total            float64 `json:"total"`
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []models.CartLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.LineTotal()
	}
	return sum
}

// ShippingFor returns the shipping fee for a given subtotal.
func ShippingFor(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Calculate produces a Quote for the given cart snapshot and optional
// coupon. It is a pure function of its inputs: a percentage coupon
// discounts the subtotal, a shipping coupon offsets the shipping fee
// capped at the fee itself, so the total never goes negative.
func Calculate(lines []models.CartLine, coupon *models.Coupon) Quote {
	subtotal := Subtotal(lines)
	shipping := ShippingFor(subtotal)

	var couponDiscount, shippingDiscount float64
	if coupon != nil {
		switch coupon.Type {
		case models.CouponPercentage:
			couponDiscount = subtotal * coupon.Value
		case models.CouponShipping:
			shippingDiscount = min(shipping, coupon.Value)
		}
	}

	return Quote{
		Subtotal:         subtotal,
		Shipping:         shipping,
		CouponDiscount:   couponDiscount,
		ShippingDiscount: shippingDiscount,
		Total:            subtotal + shipping - couponDiscount - shippingDiscount,
	}
}
