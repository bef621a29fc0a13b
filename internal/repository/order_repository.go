package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// OrderRepository defines order ledger persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	DeleteItemsByProduct(ctx context.Context, productID uint) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order together with its line items.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("User").Create(order).Error
}

// FindByID finds an order with its line items.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.withItems(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser lists a user's orders, oldest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withItems(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteItemsByProduct removes every line item referencing a product.
func (r *orderRepository) DeleteItemsByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.OrderItem{}).Error
}

// withItems preloads line items and their products, tombstoned ones included.
func (r *orderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}
