package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
)

func TestCheckoutService_Checkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "10.99", 5)
	gadget := f.product(t, seller.UserID, "Gadget", "19.99", 3)

	cart := NewCartService(f.store)
	_, err := cart.AddItem(ctx, bob, widget.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, bob, gadget.ID, 1)
	require.NoError(t, err)

	order, err := NewCheckoutService(f.store, true, zerolog.Nop()).Checkout(ctx, bob)
	require.NoError(t, err)

	assert.Equal(t, "41.97", order.TotalPrice.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.True(t, order.ItemsTotal().Equal(order.TotalPrice))
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, "10.99", order.Items[0].Price.StringFixed(2))

	assert.Equal(t, int64(1), f.count(t, &model.Order{}))
	entries, err := cart.ListItems(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 3, f.stock(t, widget.ID))
	assert.Equal(t, 2, f.stock(t, gadget.ID))

	orders, err := NewOrderService(f.store.Orders()).ListOrders(ctx, bob)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 2)
}

func TestCheckoutService_StockMayGoNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "1.00", 2)

	_, err := NewCartService(f.store).AddItem(ctx, bob, widget.ID, 5)
	require.NoError(t, err)

	_, err = NewCheckoutService(f.store, true, zerolog.Nop()).Checkout(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, -3, f.stock(t, widget.ID))
}

func TestCheckoutService_OversellDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "1.00", 10)
	gadget := f.product(t, seller.UserID, "Gadget", "1.00", 2)

	cart := NewCartService(f.store)
	_, err := cart.AddItem(ctx, bob, widget.ID, 1)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, bob, gadget.ID, 5)
	require.NoError(t, err)

	_, err = NewCheckoutService(f.store, false, zerolog.Nop()).Checkout(ctx, bob)
	assert.ErrorIs(t, err, errors.ErrInsufficientStock)

	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.OrderItem{}))
	assert.Equal(t, 10, f.stock(t, widget.ID))
	assert.Equal(t, 2, f.stock(t, gadget.ID))
	assert.Equal(t, int64(2), f.count(t, &model.CartEntry{}))
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "1.00", 2)

	order, err := NewCheckoutService(f.store, true, zerolog.Nop()).Checkout(context.Background(), bob)
	assert.ErrorIs(t, err, errors.ErrEmptyCart)
	assert.Nil(t, order)

	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.OrderItem{}))
	assert.Equal(t, 2, f.stock(t, widget.ID))
}

func TestCheckoutService_ConcurrentCheckouts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	widget := f.product(t, seller.UserID, "Widget", "2.50", 100)

	cart := NewCartService(f.store)
	customers := make([]auth.Principal, 8)
	want := 0
	for i := range customers {
		customers[i] = f.user(t, fmt.Sprintf("customer%d", i), model.RoleCustomer)
		_, err := cart.AddItem(ctx, customers[i], widget.ID, i+1)
		require.NoError(t, err)
		want += i + 1
	}

	checkout := NewCheckoutService(f.store, true, zerolog.Nop())
	var wg sync.WaitGroup
	errs := make(chan error, len(customers))
	for _, c := range customers {
		wg.Add(1)
		go func(p auth.Principal) {
			defer wg.Done()
			_, err := checkout.Checkout(ctx, p)
			errs <- err
		}(c)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 100-want, f.stock(t, widget.ID))
	assert.Equal(t, int64(len(customers)), f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.CartEntry{}))
}

func TestCheckoutService_OrderKeepsPriceAtPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	widget := f.product(t, seller.UserID, "Widget", "4.00", 10)

	_, err := NewCartService(f.store).AddItem(ctx, bob, widget.ID, 2)
	require.NoError(t, err)
	_, err = NewCheckoutService(f.store, true, zerolog.Nop()).Checkout(ctx, bob)
	require.NoError(t, err)

	widget.Price = widget.Price.Mul(widget.Price)
	require.NoError(t, f.store.Products().Update(ctx, widget))

	orders, err := NewOrderService(f.store.Orders()).ListOrders(ctx, bob)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "4.00", orders[0].Items[0].Price.StringFixed(2))
	assert.Equal(t, "8.00", orders[0].TotalPrice.StringFixed(2))
}
