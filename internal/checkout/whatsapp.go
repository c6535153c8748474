package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// Summary is a checkout handoff: the itemized message, the wa.me link
// that opens it in WhatsApp, and the price breakdown it was built from.
// Nothing is persisted; the conversation itself is the "order".
type Summary struct {
	Message string        `json:"message"`
	Link    string        `json:"link"`
	Quote   pricing.Quote `json:"quote"`
}

// Builder formats checkout messages for a fixed destination phone number.
type Builder struct {
	phone     string
	storeName string
}

// NewBuilder creates a checkout builder. The phone number is digits only,
// with country code, as wa.me expects.
func NewBuilder(phone, storeName string) *Builder {
	return &Builder{phone: phone, storeName: storeName}
}

// Build produces the checkout summary for a cart snapshot and optional
// coupon. An empty cart is rejected.
func (b *Builder) Build(lines []models.CartLine, coupon *models.Coupon) (*Summary, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	quote := pricing.Calculate(lines, coupon)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 NEW ORDER - %s\n", strings.ToUpper(b.storeName))
	sb.WriteString("📦 PRODUCTS:\n")
	for _, line := range lines {
		fmt.Fprintf(&sb, "- %s - Qty: %d - R$ %.2f\n", line.Product.Name, line.Quantity, line.LineTotal())
	}

	if coupon != nil {
		switch coupon.Type {
		case models.CouponPercentage:
			fmt.Fprintf(&sb, "\n🎫 Coupon applied: %s (-%.0f%%)\n", strings.ToUpper(coupon.Code), coupon.Value*100)
		case models.CouponShipping:
			fmt.Fprintf(&sb, "\n🎫 Coupon applied: %s (shipping -R$ %.2f)\n", strings.ToUpper(coupon.Code), quote.ShippingDiscount)
		}
	}

	if net := quote.Shipping - quote.ShippingDiscount; net > 0 {
		fmt.Fprintf(&sb, "🚚 Shipping: R$ %.2f\n", net)
	} else {
		sb.WriteString("🚚 Shipping: Free\n")
	}

	fmt.Fprintf(&sb, "\n💰 TOTAL: R$ %.2f\n", quote.Total)
	fmt.Fprintf(&sb, "---\nOrder via %s", b.storeName)

	message := sb.String()
	return &Summary{
		Message: message,
		Link:    b.link(message),
		Quote:   quote,
	}, nil
}

// QR renders the wa.me link as a PNG for in-store displays.
func (b *Builder) QR(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}

func (b *Builder) link(message string) string {
	// encodeURIComponent-style escaping: spaces as %20, not +.
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", b.phone, encoded)
}
