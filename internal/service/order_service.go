package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
	"github.com/stg-catalog/catalog-api/internal/repository"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrMissingCustomer = errors.New("customer name and email are required")
)

// OrderService persists orders built from a cart snapshot and lists a
// customer's order history. It is independent of the WhatsApp checkout
// flow, which never creates an order.
type OrderService struct {
	repo repository.OrderRepository
	log  *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, log *slog.Logger) *OrderService {
	return &OrderService{
		repo: repo,
		log:  log,
	}
}

// CreateOrder persists an order header plus one item per cart line, with
// product name and unit price denormalized. A failed item insert is
// logged and skipped; the order itself stands.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest, lines []models.CartLine, quote pricing.Quote) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, ErrMissingCustomer
	}

	order := models.Order{
		ID:            uuid.New().String(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Shipping:      quote.Shipping - quote.ShippingDiscount,
		TotalAmount:   quote.Total,
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		s.log.Error("failed to save order", "customer_email", req.CustomerEmail, "error", err)
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.Price,
			TotalPrice:  line.LineTotal(),
		}
		if err := s.repo.InsertItem(ctx, item); err != nil {
			s.log.Error("failed to save order item", "order_id", order.ID, "product", line.Product.Name, "error", err)
			continue
		}
		items = append(items, item)
	}
	order.Items = items

	s.log.Info("order created", "order_id", order.ID, "items_count", len(items), "total", order.TotalAmount)
	return &order, nil
}

// ListOrders returns a customer's orders with their items, newest first.
func (s *OrderService) ListOrders(ctx context.Context, email string) ([]models.Order, error) {
	return s.repo.ListByEmail(ctx, email)
}
