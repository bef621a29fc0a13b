package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/db/dbtest"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/repository"
)

type fixture struct {
	db    *gorm.DB
	store repository.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB := dbtest.Open(t)
	return &fixture{db: gormDB, store: repository.NewStore(gormDB)}
}

func (f *fixture) user(t *testing.T, username string, role model.Role) auth.Principal {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@x.com", PasswordHash: "hash", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return auth.PrincipalFor(user)
}

func (f *fixture) product(t *testing.T, sellerID uint, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		SellerID:    sellerID,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), product))
	return product
}

func (f *fixture) count(t *testing.T, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Unscoped().Model(value).Count(&n).Error)
	return n
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	product, err := f.store.Products().FindByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, event notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}
