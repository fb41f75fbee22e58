package repository

import (
	"context"

	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
)

// ProductRepository persists products
type ProductRepository struct {
	crud[model.Product]
}

// NewProductRepository binds a repository to db, which may be a transaction
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{crud[model.Product]{
		db: db,
		sortable: sortColumns{
			"id":             "id",
			"name":           "name",
			"sku":            "sku",
			"price":          "price",
			"stock_quantity": "stock_quantity",
			"active":         "is_active",
			"created_date":   "created_date",
			"updated_date":   "updated_date",
		},
		searchFields: []string{"name", "description", "sku"},
	}}
}

// FindBySKU loads the product with exactly sku
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return r.findBy(ctx, "sku", sku)
}

// SKUTaken reports whether another product already uses sku
func (r *ProductRepository) SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error) {
	return r.taken(ctx, "sku", sku, excludeID)
}

// FindByCategoryID lists products referencing categoryID
func (r *ProductRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]model.Product, error) {
	return r.list(ctx, "category_id = ?", categoryID)
}

// FindByActive lists products with the given active flag
func (r *ProductRepository) FindByActive(ctx context.Context, active bool) ([]model.Product, error) {
	return r.list(ctx, "is_active = ?", active)
}

// FindLowStock lists products whose stock is at or below threshold
func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return r.list(ctx, "stock_quantity <= ?", threshold)
}
