package service

import (
	"context"
	"testing"

	"github.com/stg-catalog/catalog-api/internal/models"
	"github.com/stg-catalog/catalog-api/internal/pricing"
	"github.com/stg-catalog/catalog-api/internal/repository"
	"github.com/stg-catalog/catalog-api/pkg/logger"
)

func orderLines() []models.CartLine {
	return []models.CartLine{
		{ID: "i1", Quantity: 2, Product: models.Product{ID: "1", Name: "Wireless Headphones", Price: 299.90}},
		{ID: "i2", Quantity: 1, Product: models.Product{ID: "9", Name: "Desk Mat", Price: 59.90}},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     models.OrderRequest
		lines   []models.CartLine
		wantErr error
	}{
		{
			name:    "empty cart",
			req:     models.OrderRequest{CustomerName: "Ana", CustomerEmail: "ana@example.com"},
			lines:   nil,
			wantErr: ErrEmptyOrder,
		},
		{
			name:    "missing customer name",
			req:     models.OrderRequest{CustomerEmail: "ana@example.com"},
			lines:   orderLines(),
			wantErr: ErrMissingCustomer,
		},
		{
			name:    "missing customer email",
			req:     models.OrderRequest{CustomerName: "Ana"},
			lines:   orderLines(),
			wantErr: ErrMissingCustomer,
		},
		{
			name:  "valid order",
			req:   models.OrderRequest{CustomerName: "Ana", CustomerEmail: "ana@example.com", Notes: "leave at door"},
			lines: orderLines(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewInMemoryOrderRepository()
			svc := NewOrderService(repo, logger.New("error"))
			quote := pricing.Calculate(tt.lines, nil)

			order, err := svc.CreateOrder(context.Background(), tt.req, tt.lines, quote)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("CreateOrder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateOrder() error = %v", err)
			}

			if order.ID == "" {
				t.Error("order ID is empty")
			}
			if len(order.Items) != len(tt.lines) {
				t.Errorf("items count = %d, want %d", len(order.Items), len(tt.lines))
			}
			if order.TotalAmount != quote.Total {
				t.Errorf("TotalAmount = %v, want %v", order.TotalAmount, quote.Total)
			}

			// Denormalized snapshot per item.
			if order.Items[0].ProductName == "" || order.Items[0].UnitPrice == 0 {
				t.Errorf("item not denormalized: %+v", order.Items[0])
			}
			if order.Items[0].TotalPrice != order.Items[0].UnitPrice*float64(order.Items[0].Quantity) {
				t.Errorf("item total %v != unit*qty", order.Items[0].TotalPrice)
			}
		})
	}
}

func TestOrderService_ListOrdersNewestFirst(t *testing.T) {
	repo := repository.NewInMemoryOrderRepository()
	svc := NewOrderService(repo, logger.New("error"))
	ctx := context.Background()

	req := models.OrderRequest{CustomerName: "Ana", CustomerEmail: "ana@example.com"}
	first, err := svc.CreateOrder(ctx, req, orderLines(), pricing.Calculate(orderLines(), nil))
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	second, err := svc.CreateOrder(ctx, req, orderLines(), pricing.Calculate(orderLines(), nil))
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	orders, err := svc.ListOrders(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("len(orders) = %d, want 2", len(orders))
	}
	if orders[0].CreatedAt.Before(orders[1].CreatedAt) {
		t.Error("orders not sorted newest first")
	}
	seen := map[string]bool{orders[0].ID: true, orders[1].ID: true}
	if !seen[first.ID] || !seen[second.ID] {
		t.Errorf("unexpected order ids: %s, %s", orders[0].ID, orders[1].ID)
	}
	if len(orders[0].Items) != 2 {
		t.Errorf("items not embedded: %d", len(orders[0].Items))
	}

	// A different customer sees nothing.
	other, err := svc.ListOrders(ctx, "other@example.com")
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("len(other) = %d, want 0", len(other))
	}
}
