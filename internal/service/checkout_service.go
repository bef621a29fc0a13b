package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CheckoutService converts a cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, p auth.Principal) (*model.Order, error)
}

type checkoutService struct {
	store         repository.Store
	allowOversell bool
	logger        zerolog.Logger
}

// NewCheckoutService creates a new checkout service. With allowOversell false
// a checkout that would drive any stock below zero is rejected.
func NewCheckoutService(store repository.Store, allowOversell bool, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		store:         store,
		allowOversell: allowOversell,
		logger:        logger,
	}
}

// Checkout places an order for everything in the principal's cart, decrements
// stock and clears the cart in one transaction.
func (s *checkoutService) Checkout(ctx context.Context, p auth.Principal) (*model.Order, error) {
	var order *model.Order

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		entries, err := tx.Carts().ListByUserForUpdate(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if len(entries) == 0 {
			return errors.ErrEmptyCart
		}

		ids := make([]uint, 0, len(entries))
		seen := make(map[uint]struct{}, len(entries))
		for _, e := range entries {
			if _, ok := seen[e.ProductID]; !ok {
				seen[e.ProductID] = struct{}{}
				ids = append(ids, e.ProductID)
			}
		}

		products, err := tx.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return fmt.Errorf("lock products: %w", err)
		}
		byID := make(map[uint]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(entries))
		for _, e := range entries {
			product, ok := byID[e.ProductID]
			if !ok {
				return fmt.Errorf("cart entry %d: product %d: %w", e.ID, e.ProductID, errors.ErrNotFound)
			}
			if !s.allowOversell && product.Stock-e.Quantity < 0 {
				return fmt.Errorf("product %d: %w", product.ID, errors.ErrInsufficientStock)
			}
			product.Stock -= e.Quantity

			items = append(items, model.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    e.Quantity,
				Price:       product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}

		order = &model.Order{UserID: p.UserID, TotalPrice: total, Items: items}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, e := range entries {
			if err := tx.Products().DecrementStock(ctx, e.ProductID, e.Quantity); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		if err := tx.Carts().DeleteByUser(ctx, p.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("order_id", order.ID).
		Uint("user_id", p.UserID).
		Str("total", order.TotalPrice.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order placed")
	return order, nil
}
