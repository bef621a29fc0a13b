package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartLine is one row of a cart summary, priced at the product's current price.
type CartLine struct {
	EntryID   uint
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// CartSummary is the priced view of a user's cart.
type CartSummary struct {
	Lines []CartLine
	Total decimal.Decimal
}

// CartService manages the per-user product/quantity mapping.
type CartService interface {
	AddItem(ctx context.Context, p auth.Principal, productID uint, quantity int) (*model.CartEntry, error)
	RemoveItem(ctx context.Context, p auth.Principal, entryID uint) error
	ListItems(ctx context.Context, p auth.Principal) ([]model.CartEntry, error)
	Summary(ctx context.Context, p auth.Principal) (*CartSummary, error)
}

type cartService struct {
	store repository.Store
}

// NewCartService creates a new cart service.
func NewCartService(store repository.Store) CartService {
	return &cartService{store: store}
}

// AddItem increments the user's entry for productID or creates one.
func (s *cartService) AddItem(ctx context.Context, p auth.Principal, productID uint, quantity int) (*model.CartEntry, error) {
	if quantity < 1 {
		return nil, errors.Validation("quantity must be at least 1")
	}

	var result *model.CartEntry
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Products().FindByID(ctx, productID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrNotFound
			}
			return fmt.Errorf("load product: %w", err)
		}

		entry, err := tx.Carts().FindByUserAndProductForUpdate(ctx, p.UserID, productID)
		switch {
		case err == nil:
			if err := tx.Carts().IncrementQuantity(ctx, entry.ID, quantity); err != nil {
				return fmt.Errorf("increment quantity: %w", err)
			}
			entry.Quantity += quantity
		case err == gorm.ErrRecordNotFound:
			entry = &model.CartEntry{UserID: p.UserID, ProductID: productID, Quantity: quantity}
			if err := tx.Carts().Create(ctx, entry); err != nil {
				return fmt.Errorf("create cart entry: %w", err)
			}
		default:
			return fmt.Errorf("load cart entry: %w", err)
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes an entry owned by the principal. Entries owned by
// someone else are left alone and reported as success.
func (s *cartService) RemoveItem(ctx context.Context, p auth.Principal, entryID uint) error {
	entry, err := s.store.Carts().FindByID(ctx, entryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotFound
		}
		return fmt.Errorf("load cart entry: %w", err)
	}

	if entry.UserID != p.UserID {
		return nil
	}

	if err := s.store.Carts().Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete cart entry: %w", err)
	}
	return nil
}

// ListItems returns the user's entries in insertion order.
func (s *cartService) ListItems(ctx context.Context, p auth.Principal) ([]model.CartEntry, error) {
	entries, err := s.store.Carts().ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return entries, nil
}

// Summary prices the cart at current product prices.
func (s *cartService) Summary(ctx context.Context, p auth.Principal) (*CartSummary, error) {
	entries, err := s.ListItems(ctx, p)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Lines: make([]CartLine, 0, len(entries)), Total: decimal.Zero}
	for i := range entries {
		e := &entries[i]
		subtotal := e.Subtotal()
		summary.Lines = append(summary.Lines, CartLine{
			EntryID:   e.ID,
			ProductID: e.ProductID,
			Name:      e.Product.Name,
			Price:     e.Product.Price,
			Quantity:  e.Quantity,
			Subtotal:  subtotal,
		})
		summary.Total = summary.Total.Add(subtotal)
	}
	return summary, nil
}
