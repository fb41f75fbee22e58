package service

import (
	"context"
	"fmt"

	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/repository"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entityCategory = "Category"

// CategoryInput carries the writable category fields
type CategoryInput struct {
	Name             string `json:"name" validate:"notblank,max=100"`
	Description      string `json:"description" validate:"max=500"`
	ParentCategoryID *uint  `json:"parent_category_id"`
}

// UpdateCategoryInput replaces every mutable category field
type UpdateCategoryInput struct {
	CategoryInput
	Active bool `json:"active"`
}

// CategoryService manages the category hierarchy. Parent references are not
// checked for existence or cycles.
type CategoryService struct {
	base
}

// NewCategoryService creates a category service backed by db
func NewCategoryService(db *gorm.DB, opts ...Option) *CategoryService {
	return &CategoryService{base: newBase(db, opts)}
}

// Create adds an active category with a unique name
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:             in.Name,
		Description:      in.Description,
		ParentCategoryID: in.ParentCategoryID,
		Active:           true,
		CreatedDate:      s.stamp(),
	}

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCategoryRepository(tx)
		taken, err := repo.NameTaken(ctx, in.Name, 0)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if taken {
			return &ConflictError{Entity: entityCategory, Field: "name", Value: in.Name}
		}
		if err := repo.Create(ctx, category); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return category, nil
}

// Update replaces every mutable field of category id
func (s *CategoryService) Update(ctx context.Context, id uint, in UpdateCategoryInput) (*model.Category, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var category *model.Category
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCategoryRepository(tx)
		var err error
		category, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityCategory, id, err)
		}

		taken, err := repo.NameTaken(ctx, in.Name, id)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if taken {
			return &ConflictError{Entity: entityCategory, Field: "name", Value: in.Name}
		}

		now := s.stamp()
		category.Name = in.Name
		category.Description = in.Description
		category.ParentCategoryID = in.ParentCategoryID
		category.Active = in.Active
		category.UpdatedDate = &now
		if err := repo.Save(ctx, category); err != nil {
			return fmt.Errorf("update category %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Category updated",
		zap.Uint("category_id", id),
		zap.String("name", category.Name))
	return category, nil
}

// Delete removes category id. Products and subcategories keep their now
// dangling references.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCategoryRepository(tx)
		category, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityCategory, id, err)
		}
		if err := repo.Delete(ctx, category); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Category deleted", zap.Uint("category_id", id))
	return nil
}

// Get loads category id
func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := repository.NewCategoryRepository(s.conn(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(entityCategory, id, err)
	}
	return category, nil
}

// List returns one slice of categories
func (s *CategoryService) List(ctx context.Context, p model.Pageable) (model.Slice[model.Category], error) {
	page, err := repository.NewCategoryRepository(s.conn(ctx)).FindAll(ctx, p)
	if err != nil {
		return page, pageError("categories", err)
	}
	return page, nil
}

// Search matches term against name and description; a blank term lists
func (s *CategoryService) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[model.Category], error) {
	page, err := repository.NewCategoryRepository(s.conn(ctx)).Search(ctx, term, p)
	if err != nil {
		return page, pageError("categories", err)
	}
	return page, nil
}

// Subcategories lists the direct children of parentID
func (s *CategoryService) Subcategories(ctx context.Context, parentID uint) ([]model.Category, error) {
	return repository.NewCategoryRepository(s.conn(ctx)).FindByParentID(ctx, parentID)
}

// ActiveCategories lists every active category
func (s *CategoryService) ActiveCategories(ctx context.Context) ([]model.Category, error) {
	return repository.NewCategoryRepository(s.conn(ctx)).FindByActive(ctx, true)
}
