package repository

import (
	"context"

	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
)

// CustomerRepository persists customers
type CustomerRepository struct {
	crud[model.Customer]
}

// NewCustomerRepository binds a repository to db, which may be a transaction
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{crud[model.Customer]{
		db: db,
		sortable: sortColumns{
			"id":           "id",
			"first_name":   "first_name",
			"last_name":    "last_name",
			"email":        "email",
			"city":         "city",
			"country":      "country",
			"active":       "is_active",
			"created_date": "created_date",
			"updated_date": "updated_date",
		},
		searchFields: []string{"first_name", "last_name", "email", "phone"},
	}}
}

// FindByEmail loads the customer with exactly email
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findBy(ctx, "email", email)
}

// EmailTaken reports whether another customer already uses email
func (r *CustomerRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

// FindByActive lists customers with the given active flag
func (r *CustomerRepository) FindByActive(ctx context.Context, active bool) ([]model.Customer, error) {
	return r.list(ctx, "is_active = ?", active)
}
