package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// CartRepository defines cart entry persistence operations.
type CartRepository interface {
	Create(ctx context.Context, entry *model.CartEntry) error
	FindByID(ctx context.Context, id uint) (*model.CartEntry, error)
	FindByUserAndProductForUpdate(ctx context.Context, userID, productID uint) (*model.CartEntry, error)
	IncrementQuantity(ctx context.Context, id uint, quantity int) error
	ListByUser(ctx context.Context, userID uint) ([]model.CartEntry, error)
	ListByUserForUpdate(ctx context.Context, userID uint) ([]model.CartEntry, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteByProduct(ctx context.Context, productID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Create inserts a new cart entry.
func (r *cartRepository) Create(ctx context.Context, entry *model.CartEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

// FindByID finds a cart entry by ID.
func (r *cartRepository) FindByID(ctx context.Context, id uint) (*model.CartEntry, error) {
	var entry model.CartEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByUserAndProductForUpdate finds the user's entry for a product with a row lock.
func (r *cartRepository) FindByUserAndProductForUpdate(ctx context.Context, userID, productID uint) (*model.CartEntry, error) {
	var entry model.CartEntry
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// IncrementQuantity adds quantity to an existing entry.
func (r *cartRepository) IncrementQuantity(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.CartEntry{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

// ListByUser lists the user's entries in insertion order with their products.
func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]model.CartEntry, error) {
	var entries []model.CartEntry
	if err := r.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserForUpdate lists and locks the user's entries in insertion order.
// Products are not preloaded; lock them separately.
func (r *cartRepository) ListByUserForUpdate(ctx context.Context, userID uint) ([]model.CartEntry, error) {
	var entries []model.CartEntry
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a single entry.
func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.CartEntry{}, id).Error
}

// DeleteByUser clears a user's cart.
func (r *cartRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartEntry{}).Error
}

// DeleteByProduct removes every entry referencing a product.
func (r *cartRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartEntry{}).Error
}
