package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/repository"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entityUser = "User"

// UserInput carries the fields of a new operator account
type UserInput struct {
	Username  string `json:"username" validate:"notblank,max=50"`
	Email     string `json:"email" validate:"notblank,email,max=100"`
	FirstName string `json:"first_name" validate:"notblank,max=50"`
	LastName  string `json:"last_name" validate:"notblank,max=50"`
}

// UpdateUserInput replaces the mutable account fields. Usernames are
// permanent.
type UpdateUserInput struct {
	Email     string `json:"email" validate:"notblank,email,max=100"`
	FirstName string `json:"first_name" validate:"notblank,max=50"`
	LastName  string `json:"last_name" validate:"notblank,max=50"`
	Enabled   bool   `json:"enabled"`
}

// UserService manages back-office operator accounts
type UserService struct {
	base
}

// NewUserService creates a user service backed by db
func NewUserService(db *gorm.DB, opts ...Option) *UserService {
	return &UserService{base: newBase(db, opts)}
}

func (s *UserService) checkEmail(ctx context.Context, repo *repository.UserRepository, email string, excludeID uint) error {
	taken, err := repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check user email: %w", err)
	}
	if taken {
		return &ConflictError{Entity: entityUser, Field: "email", Value: email}
	}
	return nil
}

// Create adds an enabled account. The username is checked before the email.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    in.Username,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Enabled:     true,
		CreatedDate: s.stamp(),
	}

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		taken, err := repo.UsernameTaken(ctx, in.Username, 0)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return &ConflictError{Entity: entityUser, Field: "username", Value: in.Username}
		}
		if err := s.checkEmail(ctx, repo, in.Email, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// Update replaces the email, names and enabled flag of user id
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		var err error
		user, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityUser, id, err)
		}
		if err := s.checkEmail(ctx, repo, in.Email, id); err != nil {
			return err
		}

		user.Email = in.Email
		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.Enabled = in.Enabled
		if err := repo.Save(ctx, user); err != nil {
			return fmt.Errorf("update user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User updated",
		zap.Uint("user_id", id),
		zap.Bool("enabled", user.Enabled))
	return user, nil
}

// Delete removes user id
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityUser, id, err)
		}
		if err := repo.Delete(ctx, user); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("User deleted", zap.Uint("user_id", id))
	return nil
}

// Get loads user id
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := repository.NewUserRepository(s.conn(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(entityUser, id, err)
	}
	return user, nil
}

// GetByUsername loads the account named username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := repository.NewUserRepository(s.conn(ctx)).FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(entityUser, username, err)
	}
	return user, nil
}

// List returns one slice of users
func (s *UserService) List(ctx context.Context, p model.Pageable) (model.Slice[model.User], error) {
	page, err := repository.NewUserRepository(s.conn(ctx)).FindAll(ctx, p)
	if err != nil {
		return page, pageError("users", err)
	}
	return page, nil
}

// Search matches term against username, email and names; a blank term lists
func (s *UserService) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[model.User], error) {
	page, err := repository.NewUserRepository(s.conn(ctx)).Search(ctx, term, p)
	if err != nil {
		return page, pageError("users", err)
	}
	return page, nil
}

// UpdateLastLoginDate stamps the last login of username. An unknown username
// is ignored.
func (s *UserService) UpdateLastLoginDate(ctx context.Context, username string) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		user, err := repo.FindByUsername(ctx, username)
		if errors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Debug("Last login skipped for unknown user", zap.String("username", username))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load user %s: %w", username, err)
		}

		now := s.stamp()
		user.LastLoginDate = &now
		if err := repo.Save(ctx, user); err != nil {
			return fmt.Errorf("update last login of %s: %w", username, err)
		}
		return nil
	})
}
