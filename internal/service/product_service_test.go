package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/storage"
)

func newTestProductService(t *testing.T, f *fixture, mode string) (ProductService, *recordingPublisher) {
	t.Helper()
	images, err := storage.NewLocalImageStore(t.TempDir(), "http://shop.test")
	require.NoError(t, err)
	pub := &recordingPublisher{}
	return NewProductService(f.store, images, pub, mode, zerolog.Nop()), pub
}

func widgetInput() ProductInput {
	return ProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       4,
	}
}

func TestProductService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", model.RoleSeller)
	service, pub := newTestProductService(t, f, config.DeleteModeCascade)

	in := widgetInput()
	in.Image = &ImageUpload{Filename: "photo.PNG", Content: strings.NewReader("png")}

	product, err := service.Create(ctx, seller, in)
	require.NoError(t, err)
	assert.Equal(t, seller.UserID, product.SellerID)
	assert.True(t, strings.HasSuffix(product.ImageURL, ".png"))

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.ProductCreated, events[0].Kind)
	assert.Equal(t, product.ID, events[0].Data.ID)
	assert.Equal(t, 9.99, events[0].Data.Price)
	require.NotNil(t, events[0].Data.ImageURL)
	assert.Equal(t, "http://shop.test/static/images/"+product.ImageURL, *events[0].Data.ImageURL)
}

func TestProductService_CreateRejections(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	service, pub := newTestProductService(t, f, config.DeleteModeCascade)

	withImage := widgetInput()
	withImage.Image = &ImageUpload{Filename: "script.exe", Content: strings.NewReader("x")}
	negativePrice := widgetInput()
	negativePrice.Price = decimal.RequireFromString("-1")
	negativeStock := widgetInput()
	negativeStock.Stock = -1
	noName := widgetInput()
	noName.Name = "  "

	tests := []struct {
		name    string
		as      model.Role
		in      ProductInput
		wantErr error
	}{
		{"customer", model.RoleCustomer, widgetInput(), errors.ErrUnauthorized},
		{"bad image", model.RoleSeller, withImage, errors.ErrValidation},
		{"negative price", model.RoleSeller, negativePrice, errors.ErrValidation},
		{"negative stock", model.RoleSeller, negativeStock, errors.ErrValidation},
		{"missing name", model.RoleSeller, noName, errors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seller
			if tt.as == model.RoleCustomer {
				p = bob
			}
			_, err := service.Create(context.Background(), p, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.count(t, &model.Product{}))
	assert.Empty(t, pub.Events())
}

func TestProductService_UpdateRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", model.RoleSeller)
	other := f.user(t, "other", model.RoleSeller)
	admin := f.user(t, "admin", model.RoleAdmin)
	service, _ := newTestProductService(t, f, config.DeleteModeCascade)

	product, err := service.Create(ctx, owner, widgetInput())
	require.NoError(t, err)

	in := widgetInput()
	in.Name = "Renamed"
	in.Stock = 0

	_, err = service.Update(ctx, other, product.ID, in)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	updated, err := service.Update(ctx, admin, product.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 0, f.stock(t, product.ID))
	assert.Equal(t, owner.UserID, updated.SellerID)

	_, err = service.Update(ctx, owner, 999, in)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestProductService_ListBySeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", model.RoleSeller)
	other := f.user(t, "other", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	f.product(t, owner.UserID, "Mine", "1.00", 1)
	f.product(t, other.UserID, "Theirs", "1.00", 1)
	service, _ := newTestProductService(t, f, config.DeleteModeCascade)

	products, err := service.ListBySeller(ctx, owner)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mine", products[0].Name)

	_, err = service.ListBySeller(ctx, bob)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func placeOrder(t *testing.T, f *fixture, p auth.Principal, productID uint, quantity int) {
	t.Helper()
	ctx := context.Background()
	_, err := NewCartService(f.store).AddItem(ctx, p, productID, quantity)
	require.NoError(t, err)
	_, err = NewCheckoutService(f.store, true, zerolog.Nop()).Checkout(ctx, p)
	require.NoError(t, err)
}

func TestProductService_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", model.RoleSeller)
	other := f.user(t, "other", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	service, pub := newTestProductService(t, f, config.DeleteModeCascade)

	widget := f.product(t, owner.UserID, "Widget", "3.00", 10)
	placeOrder(t, f, bob, widget.ID, 2)
	_, err := NewCartService(f.store).AddItem(ctx, bob, widget.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(ctx, other, widget.ID), errors.ErrUnauthorized)

	require.NoError(t, service.Delete(ctx, owner, widget.ID))

	assert.Zero(t, f.count(t, &model.Product{}))
	assert.Zero(t, f.count(t, &model.CartEntry{}))
	assert.Zero(t, f.count(t, &model.OrderItem{}))
	assert.Equal(t, int64(1), f.count(t, &model.Order{}))

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.ProductDeleted, events[0].Kind)
	assert.Equal(t, widget.ID, events[0].Data.ID)
	assert.Nil(t, events[0].Data.ImageURL)

	assert.ErrorIs(t, service.Delete(ctx, owner, widget.ID), errors.ErrNotFound)
}

func TestProductService_DeleteSoft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", model.RoleSeller)
	bob := f.user(t, "bob", model.RoleCustomer)
	service, _ := newTestProductService(t, f, config.DeleteModeSoft)

	widget := f.product(t, owner.UserID, "Widget", "3.00", 10)
	placeOrder(t, f, bob, widget.ID, 2)
	_, err := NewCartService(f.store).AddItem(ctx, bob, widget.ID, 1)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, owner, widget.ID))

	_, err = service.Get(ctx, widget.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Zero(t, f.count(t, &model.CartEntry{}))
	assert.Equal(t, int64(1), f.count(t, &model.OrderItem{}))

	orders, err := NewOrderService(f.store.Orders()).ListOrders(ctx, bob)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Widget", orders[0].Items[0].ProductName)
	assert.Equal(t, widget.ID, orders[0].Items[0].Product.ID)
}

func TestExportService_WriteXLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", model.RoleSeller)
	admin := f.user(t, "admin", model.RoleAdmin)
	f.product(t, owner.UserID, "Widget", "3.50", 10)
	f.product(t, owner.UserID, "Gadget", "7.25", 2)

	service := NewExportService(f.store.Products())

	var buf bytes.Buffer
	assert.ErrorIs(t, service.WriteXLSX(ctx, owner, &buf), errors.ErrUnauthorized)
	assert.Zero(t, buf.Len())

	require.NoError(t, service.WriteXLSX(ctx, admin, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet[ExportSheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Widget", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "7.25", sheet.Rows[2].Cells[3].Value)
}
