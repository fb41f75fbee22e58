package repository

import (
	"context"

	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
)

// CategoryRepository persists categories
type CategoryRepository struct {
	crud[model.Category]
}

// NewCategoryRepository binds a repository to db, which may be a transaction
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{crud[model.Category]{
		db: db,
		sortable: sortColumns{
			"id":           "id",
			"name":         "name",
			"active":       "is_active",
			"created_date": "created_date",
			"updated_date": "updated_date",
		},
		searchFields: []string{"name", "description"},
	}}
}

// FindByName loads the category with exactly name
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	return r.findBy(ctx, "name", name)
}

// NameTaken reports whether another category already uses name
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, "name", name, excludeID)
}

// FindByParentID lists the direct children of parentID
func (r *CategoryRepository) FindByParentID(ctx context.Context, parentID uint) ([]model.Category, error) {
	return r.list(ctx, "parent_category_id = ?", parentID)
}

// FindByActive lists categories with the given active flag
func (r *CategoryRepository) FindByActive(ctx context.Context, active bool) ([]model.Category, error) {
	return r.list(ctx, "is_active = ?", active)
}
