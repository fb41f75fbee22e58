package repository

import (
	"context"

	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
)

// UserRepository persists back-office users
type UserRepository struct {
	crud[model.User]
}

// NewUserRepository binds a repository to db, which may be a transaction
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{crud[model.User]{
		db: db,
		sortable: sortColumns{
			"id":              "id",
			"username":        "username",
			"email":           "email",
			"first_name":      "first_name",
			"last_name":       "last_name",
			"enabled":         "enabled",
			"created_date":    "created_date",
			"last_login_date": "last_login_date",
		},
		searchFields: []string{"username", "email", "first_name", "last_name"},
	}}
}

// FindByUsername loads the user with exactly username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

// UsernameTaken reports whether another user already uses username
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

// EmailTaken reports whether another user already uses email
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}
