package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stg-catalog/catalog-api/internal/models"
)

// couponResolver is the interface for coupon lookup
type couponResolver interface {
	Resolve(ctx context.Context, code string) *models.Coupon
	Stats() map[string]interface{}
}

// CouponHandler handles HTTP requests for coupon resolution
type CouponHandler struct {
	resolver couponResolver
	logger   *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(resolver couponResolver, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// ValidateCoupon handles GET /api/coupon/{couponCode}
// Unknown codes answer 404 with valid=false; the storefront shows the
// coupon field untouched in that case.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	couponCode := chi.URLParam(r, "couponCode")

	coupon := h.resolver.Resolve(r.Context(), couponCode)
	if coupon == nil {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid":   false,
			"coupon":  couponCode,
			"message": "Coupon not found or invalid",
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  true,
		"coupon": coupon,
	}, h.logger)
}

// GetStats handles GET /api/coupon/stats (for debugging/monitoring)
func (h *CouponHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.resolver.Stats(), h.logger)
}
