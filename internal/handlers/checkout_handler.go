package handlers

import (
	"log/slog"
	"net/http"

	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/checkout"
	"github.com/stg-catalog/catalog-api/internal/middleware"
)

// CheckoutHandler builds WhatsApp checkout handoffs from the session's
// cart. No order is persisted here; the conversation is the handoff.
type CheckoutHandler struct {
	builder  *checkout.Builder
	carts    *cart.Manager
	resolver couponResolver
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(builder *checkout.Builder, carts *cart.Manager, resolver couponResolver, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		builder:  builder,
		carts:    carts,
		resolver: resolver,
		logger:   logger,
	}
}

// WhatsApp handles GET /api/checkout/whatsapp?coupon=CODE
func (h *CheckoutHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.build(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, summary, h.logger)
}

// WhatsAppQR handles GET /api/checkout/whatsapp/qr?coupon=CODE, serving
// the checkout link as a PNG.
func (h *CheckoutHandler) WhatsAppQR(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.build(w, r)
	if !ok {
		return
	}

	png, err := h.builder.QR(summary.Link, 256)
	if err != nil {
		h.logger.Error("failed to render checkout QR code", "error", err)
		WriteError(w, http.StatusInternalServerError, "Could not generate QR code", h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write QR response", "error", err)
	}
}

func (h *CheckoutHandler) build(w http.ResponseWriter, r *http.Request) (*checkout.Summary, bool) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return nil, false
	}

	store := h.carts.Get(session.UserID)
	if !store.Ready() {
		if err := store.Refresh(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not load cart", h.logger)
			return nil, false
		}
	}

	coupon := h.resolver.Resolve(r.Context(), r.URL.Query().Get("coupon"))

	summary, err := h.builder.Build(store.Items(), coupon)
	if err != nil {
		if err == checkout.ErrEmptyCart {
			WriteError(w, http.StatusBadRequest, "Your cart is empty", h.logger)
			return nil, false
		}
		h.logger.Error("failed to build checkout summary", "user_id", session.UserID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return nil, false
	}

	return summary, true
}
