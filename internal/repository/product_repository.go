package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByIDsForUpdate(ctx context.Context, ids []uint) ([]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update saves the editable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("name", "description", "price", "stock", "image_url").
		Updates(product).Error
}

// FindByID finds a product by ID. Tombstoned products are not returned.
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDsForUpdate locks the given products in ascending id order.
func (r *productRepository) FindByIDsForUpdate(ctx context.Context, ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List lists all products.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListBySeller lists the products owned by a seller.
func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock subtracts quantity from stock in a single statement. There is
// no floor; callers that care check the result.
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
}

// SoftDelete tombstones a product, keeping the row for order history.
func (r *productRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// HardDelete removes the product row.
func (r *productRepository) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Product{}, id).Error
}
