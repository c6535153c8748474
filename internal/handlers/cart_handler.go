package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stg-catalog/catalog-api/internal/cart"
	"github.com/stg-catalog/catalog-api/internal/middleware"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/internal/service"
)

// CartHandler handles cart-related HTTP requests. All routes sit behind
// the auth middleware, so a session is always present.
type CartHandler struct {
	carts    *cart.Manager
	products *service.ProductService
	resolver couponResolver
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager, products *service.ProductService, resolver couponResolver, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		resolver: resolver,
		logger:   logger,
	}
}

// cartView is the cart snapshot shape returned by every cart endpoint.
type cartView struct {
	Items    []models.CartLine `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Count    int               `json:"count"`
}

// addItemRequest is the POST /api/cart body.
type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// updateItemRequest is the PUT /api/cart/{itemId} body.
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if !store.Ready() {
		if err := store.Refresh(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not load cart", h.logger)
			return
		}
	}

	WriteJSON(w, http.StatusOK, h.view(store), h.logger)
}

// AddItem handles POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "product_id is required", h.logger)
		return
	}

	// Only catalog products can be added.
	if _, err := h.products.GetProduct(r.Context(), req.ProductID); err != nil {
		if err == repository.ErrProductNotFound {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	if err := store.Add(r.Context(), req.ProductID, req.Quantity); err != nil {
		WriteError(w, http.StatusInternalServerError, "Could not add product to cart", h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, h.view(store), h.logger)
}

// UpdateItem handles PUT /api/cart/{itemId}. Quantities below one are a
// no-op: the current snapshot is returned unchanged.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if err := store.SetQuantity(r.Context(), itemID, req.Quantity); err != nil {
		WriteError(w, http.StatusInternalServerError, "Could not update quantity", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.view(store), h.logger)
}

// RemoveItem handles DELETE /api/cart/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if err := store.Remove(r.Context(), itemID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Could not remove item", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.view(store), h.logger)
}

// ClearCart handles DELETE /api/cart. It empties only the session
// snapshot; the remote rows are kept.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	store.Clear()
	WriteJSON(w, http.StatusOK, h.view(store), h.logger)
}

// Quote handles GET /api/cart/quote?coupon=CODE. An unknown coupon code
// is silently ignored and the quote is computed without it.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if !store.Ready() {
		if err := store.Refresh(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not load cart", h.logger)
			return
		}
	}

	coupon := h.resolver.Resolve(r.Context(), r.URL.Query().Get("coupon"))
	quote := pricing.Calculate(store.Items(), coupon)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"quote":  quote,
		"coupon": coupon,
	}, h.logger)
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return nil, false
	}
	return h.carts.Get(session.UserID), true
}

func (h *CartHandler) view(store *cart.Store) cartView {
	return cartView{
		Items:    store.Items(),
		Subtotal: store.Total(),
		Count:    store.Count(),
	}
}
