package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/repository"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entityProduct = "Product"

// ProductInput carries the writable product fields
type ProductInput struct {
	Name          string          `json:"name" validate:"notblank,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	SKU           string          `json:"sku" validate:"max=50"`
	Price         decimal.Decimal `json:"price" validate:"gt=0"`
	StockQuantity int             `json:"stock_quantity" validate:"gt=0"`
	CategoryID    *uint           `json:"category_id"`
	ImageURL      *string         `json:"image_url"`
}

// UpdateProductInput replaces every mutable product field
type UpdateProductInput struct {
	ProductInput
	Active bool `json:"active"`
}

// StockInput sets a product's stock level
type StockInput struct {
	StockQuantity int `json:"stock_quantity" validate:"gt=0"`
}

// ProductService manages the product catalogue
type ProductService struct {
	base
}

// NewProductService creates a product service backed by db
func NewProductService(db *gorm.DB, opts ...Option) *ProductService {
	return &ProductService{base: newBase(db, opts)}
}

// Create adds an active product with a unique SKU
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
		ImageURL:      in.ImageURL,
		Active:        true,
		CreatedDate:   s.stamp(),
	}

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewProductRepository(tx)
		if err := s.checkSKU(ctx, repo, in.SKU, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("sku", product.SKU),
		zap.String("price", product.Price.StringFixed(2)))
	return product, nil
}

func (s *ProductService) checkSKU(ctx context.Context, repo *repository.ProductRepository, sku string, excludeID uint) error {
	taken, err := repo.SKUTaken(ctx, sku, excludeID)
	if err != nil {
		return fmt.Errorf("check product sku: %w", err)
	}
	if taken {
		logger.FromContext(ctx).Warn("Product with this SKU already exists", zap.String("sku", sku))
		return &ConflictError{Entity: entityProduct, Field: "sku", Value: sku}
	}
	return nil
}

// Update replaces every mutable field of product id
func (s *ProductService) Update(ctx context.Context, id uint, in UpdateProductInput) (*model.Product, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewProductRepository(tx)
		var err error
		product, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityProduct, id, err)
		}
		if err := s.checkSKU(ctx, repo, in.SKU, id); err != nil {
			return err
		}

		now := s.stamp()
		product.Name = in.Name
		product.Description = in.Description
		product.SKU = in.SKU
		product.Price = in.Price
		product.StockQuantity = in.StockQuantity
		product.CategoryID = in.CategoryID
		product.ImageURL = in.ImageURL
		product.Active = in.Active
		product.UpdatedDate = &now
		if err := repo.Save(ctx, product); err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Product updated",
		zap.Uint("product_id", id),
		zap.String("sku", product.SKU))
	return product, nil
}

// UpdateStock sets the stock level of product id
func (s *ProductService) UpdateStock(ctx context.Context, id uint, in StockInput) (*model.Product, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewProductRepository(tx)
		var err error
		product, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityProduct, id, err)
		}

		now := s.stamp()
		product.StockQuantity = in.StockQuantity
		product.UpdatedDate = &now
		if err := repo.Save(ctx, product); err != nil {
			return fmt.Errorf("update stock of product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Product stock updated",
		zap.Uint("product_id", id),
		zap.Int("stock_quantity", product.StockQuantity))
	return product, nil
}

// Delete removes product id
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewProductRepository(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityProduct, id, err)
		}
		if err := repo.Delete(ctx, product); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// Get loads product id
func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := repository.NewProductRepository(s.conn(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(entityProduct, id, err)
	}
	return product, nil
}

// List returns one slice of products
func (s *ProductService) List(ctx context.Context, p model.Pageable) (model.Slice[model.Product], error) {
	page, err := repository.NewProductRepository(s.conn(ctx)).FindAll(ctx, p)
	if err != nil {
		return page, pageError("products", err)
	}
	return page, nil
}

// Search matches term against name, description and SKU; a blank term lists
func (s *ProductService) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[model.Product], error) {
	page, err := repository.NewProductRepository(s.conn(ctx)).Search(ctx, term, p)
	if err != nil {
		return page, pageError("products", err)
	}
	return page, nil
}

// ByCategory lists products referencing categoryID
func (s *ProductService) ByCategory(ctx context.Context, categoryID uint) ([]model.Product, error) {
	return repository.NewProductRepository(s.conn(ctx)).FindByCategoryID(ctx, categoryID)
}

// ActiveProducts lists every active product
func (s *ProductService) ActiveProducts(ctx context.Context) ([]model.Product, error) {
	return repository.NewProductRepository(s.conn(ctx)).FindByActive(ctx, true)
}

// LowStock lists products with stock at or below threshold
func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return repository.NewProductRepository(s.conn(ctx)).FindLowStock(ctx, threshold)
}
