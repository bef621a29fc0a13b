package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/storage"
)

// ImageUpload is an uploaded image file.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductInput carries the editable fields of a product. Image is optional.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Image       *ImageUpload
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Validation("name is required")
	}
	if len(in.Name) > 100 {
		return errors.Validation("name must be at most 100 characters")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.Validation("description is required")
	}
	if in.Price.IsNegative() {
		return errors.Validation("price must not be negative")
	}
	if in.Stock < 0 {
		return errors.Validation("stock must not be negative")
	}
	return nil
}

// ProductService manages the catalog.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	ListBySeller(ctx context.Context, p auth.Principal) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, p auth.Principal, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, p auth.Principal, id uint, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, p auth.Principal, id uint) error
}

type productService struct {
	store      repository.Store
	images     storage.ImageStore
	publisher  notify.Publisher
	deleteMode string
	logger     zerolog.Logger
}

// NewProductService creates a new product service. deleteMode is
// config.DeleteModeCascade or config.DeleteModeSoft.
func NewProductService(
	store repository.Store,
	images storage.ImageStore,
	publisher notify.Publisher,
	deleteMode string,
	logger zerolog.Logger,
) ProductService {
	if deleteMode != config.DeleteModeSoft {
		deleteMode = config.DeleteModeCascade
	}
	return &productService{
		store:      store,
		images:     images,
		publisher:  publisher,
		deleteMode: deleteMode,
		logger:     logger,
	}
}

// List returns the whole catalog.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListBySeller returns the products the principal owns.
func (s *productService) ListBySeller(ctx context.Context, p auth.Principal) ([]model.Product, error) {
	if err := auth.RequireRole(&p, model.RoleSeller); err != nil {
		return nil, err
	}
	products, err := s.store.Products().ListBySeller(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return products, nil
}

// Get retrieves a product by ID.
func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

// Create adds a product owned by the principal and announces it.
func (s *productService) Create(ctx context.Context, p auth.Principal, in ProductInput) (*model.Product, error) {
	if err := auth.RequireRole(&p, model.RoleAdmin, model.RoleSeller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SellerID:    p.UserID,
	}
	if in.Image != nil {
		filename, err := s.images.Save(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageURL = filename
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Uint("product_id", product.ID).Uint("seller_id", p.UserID).Msg("product created")
	s.publish(ctx, notify.ProductCreated, product)
	return product, nil
}

// Update overwrites the editable fields of a product the principal manages.
// The current image is kept unless a new one is uploaded.
func (s *productService) Update(ctx context.Context, p auth.Principal, id uint, in ProductInput) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanManage(product) {
		return nil, errors.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	if in.Image != nil {
		filename, err := s.images.Save(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageURL = filename
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.Info().Uint("product_id", product.ID).Uint("user_id", p.UserID).Msg("product updated")
	return product, nil
}

// Delete removes a product the principal manages. In cascade mode its cart
// entries and order line items go with it; in soft mode the row is
// tombstoned and line items are kept.
func (s *productService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanManage(product) {
		return errors.ErrUnauthorized
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Carts().DeleteByProduct(ctx, product.ID); err != nil {
			return fmt.Errorf("delete cart entries: %w", err)
		}

		if s.deleteMode == config.DeleteModeSoft {
			if err := tx.Products().SoftDelete(ctx, product.ID); err != nil {
				return fmt.Errorf("soft delete product: %w", err)
			}
			return nil
		}

		if err := tx.Orders().DeleteItemsByProduct(ctx, product.ID); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Products().HardDelete(ctx, product.ID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Uint("product_id", product.ID).
		Uint("user_id", p.UserID).
		Str("mode", s.deleteMode).
		Msg("product deleted")
	s.publish(ctx, notify.ProductDeleted, product)
	return nil
}

func (s *productService) publish(ctx context.Context, kind notify.EventKind, product *model.Product) {
	if s.publisher == nil {
		return
	}
	var imageURL notify.ImageURLFunc
	if s.images != nil {
		imageURL = s.images.URL
	}
	s.publisher.Publish(ctx, notify.Event{Kind: kind, Data: notify.NewProductPayload(product, imageURL)})
}
