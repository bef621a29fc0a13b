package service

import (
	"context"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderService reads the order ledger.
type OrderService interface {
	ListOrders(ctx context.Context, p auth.Principal) ([]model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// ListOrders returns the principal's orders with their line items.
func (s *orderService) ListOrders(ctx context.Context, p auth.Principal) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
