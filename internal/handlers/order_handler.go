package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/middleware"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
	"github.com/stg-catalog/catalog-api/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orders   *service.OrderService
	carts    *cart.Manager
	resolver couponResolver
	log      *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, carts *cart.Manager, resolver couponResolver, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		carts:    carts,
		resolver: resolver,
		log:      log,
	}
}

// CreateOrder handles POST /api/order. The order is built from the
// session's current cart snapshot, priced with an optional coupon.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.log)
		return
	}

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	// Default the customer to the signed-in account.
	if req.CustomerName == "" {
		req.CustomerName = session.Name
	}
	if req.CustomerEmail == "" {
		req.CustomerEmail = session.Email
	}

	store := h.carts.Get(session.UserID)
	if !store.Ready() {
		if err := store.Refresh(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not load cart", h.log)
			return
		}
	}

	lines := store.Items()
	coupon := h.resolver.Resolve(r.Context(), req.CouponCode)
	quote := pricing.Calculate(lines, coupon)

	order, err := h.orders.CreateOrder(r.Context(), req, lines, quote)
	if err != nil {
		h.log.Error("failed to create order", "error", err)

		switch err {
		case service.ErrEmptyOrder:
			WriteError(w, http.StatusBadRequest, "Order must contain at least one item", h.log)
		case service.ErrMissingCustomer:
			WriteError(w, http.StatusBadRequest, "Customer name and email are required", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, order, h.log)
}

// ListOrders handles GET /api/order?email=. The email defaults to the
// signed-in account's.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.log)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		email = session.Email
	}

	orders, err := h.orders.ListOrders(r.Context(), email)
	if err != nil {
		h.log.Error("failed to list orders", "email", email, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}
