package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so a service
// can run several of them inside a single transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	// WithTransaction executes fn within a database transaction. Every
	// repository reached through tx uses that transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository       { return NewUserRepository(s.db) }
func (s *store) Products() ProductRepository { return NewProductRepository(s.db) }
func (s *store) Carts() CartRepository       { return NewCartRepository(s.db) }
func (s *store) Orders() OrderRepository     { return NewOrderRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}
