package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/errors"
	"storefront/internal/model"
)

func TestCartService_AddItemMergesQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.00", 5)

	service := NewCartService(f.store)

	first, err := service.AddItem(ctx, bob, widget.ID, 2)
	require.NoError(t, err)
	second, err := service.AddItem(ctx, bob, widget.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	entries, err := service.ListItems(ctx, bob)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.Equal(t, "Widget", entries[0].Product.Name)
}

func TestCartService_AddItemIgnoresStock(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.00", 1)

	entry, err := NewCartService(f.store).AddItem(context.Background(), bob, widget.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, entry.Quantity)
}

func TestCartService_AddItemErrors(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.00", 5)

	tests := []struct {
		name      string
		productID uint
		quantity  int
		wantErr   error
	}{
		{"zero quantity", widget.ID, 0, errors.ErrValidation},
		{"negative quantity", widget.ID, -2, errors.ErrValidation},
		{"unknown product", 999, 1, errors.ErrNotFound},
	}

	service := NewCartService(f.store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddItem(context.Background(), bob, tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.count(t, &model.CartEntry{}))
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	eve := f.user(t, "eve", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.00", 5)

	service := NewCartService(f.store)
	entry, err := service.AddItem(ctx, bob, widget.ID, 1)
	require.NoError(t, err)

	// A foreign entry is left in place without an error.
	require.NoError(t, service.RemoveItem(ctx, eve, entry.ID))
	entries, err := service.ListItems(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, service.RemoveItem(ctx, bob, entry.ID))
	entries, err = service.ListItems(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, service.RemoveItem(ctx, bob, entry.ID), errors.ErrNotFound)
}

func TestCartService_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.99", 5)
	gadget := f.product(t, seller.UserID, "Gadget", "19.99", 5)

	service := NewCartService(f.store)
	_, err := service.AddItem(ctx, bob, widget.ID, 2)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, bob, gadget.ID, 1)
	require.NoError(t, err)

	summary, err := service.Summary(ctx, bob)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "Widget", summary.Lines[0].Name)
	assert.Equal(t, "21.98", summary.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "41.97", summary.Total.StringFixed(2))
}
