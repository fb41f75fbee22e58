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

const entityCustomer = "Customer"

// CustomerInput carries the writable customer fields
type CustomerInput struct {
	FirstName  string `json:"first_name" validate:"notblank,max=50"`
	LastName   string `json:"last_name" validate:"notblank,max=50"`
	Email      string `json:"email" validate:"notblank,email,max=100"`
	Phone      string `json:"phone" validate:"max=20"`
	Address    string `json:"address" validate:"max=500"`
	City       string `json:"city" validate:"max=255"`
	State      string `json:"state" validate:"max=255"`
	PostalCode string `json:"postal_code" validate:"max=255"`
	Country    string `json:"country" validate:"max=255"`
}

// UpdateCustomerInput replaces every mutable customer field
type UpdateCustomerInput struct {
	CustomerInput
	Active bool `json:"active"`
}

// CustomerService manages purchasers
type CustomerService struct {
	base
}

// NewCustomerService creates a customer service backed by db
func NewCustomerService(db *gorm.DB, opts ...Option) *CustomerService {
	return &CustomerService{base: newBase(db, opts)}
}

func (s *CustomerService) checkEmail(ctx context.Context, repo *repository.CustomerRepository, email string, excludeID uint) error {
	taken, err := repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check customer email: %w", err)
	}
	if taken {
		return &ConflictError{Entity: entityCustomer, Field: "email", Value: email}
	}
	return nil
}

// Create adds an active customer with a unique email
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	customer := &model.Customer{CreatedDate: s.stamp(), Active: true}
	applyCustomer(customer, in)

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCustomerRepository(tx)
		if err := s.checkEmail(ctx, repo, in.Email, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, customer); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.String("email", customer.Email))
	return customer, nil
}

// Update replaces every mutable field of customer id
func (s *CustomerService) Update(ctx context.Context, id uint, in UpdateCustomerInput) (*model.Customer, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var customer *model.Customer
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCustomerRepository(tx)
		var err error
		customer, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityCustomer, id, err)
		}
		if err := s.checkEmail(ctx, repo, in.Email, id); err != nil {
			return err
		}

		now := s.stamp()
		applyCustomer(customer, in.CustomerInput)
		customer.Active = in.Active
		customer.UpdatedDate = &now
		if err := repo.Save(ctx, customer); err != nil {
			return fmt.Errorf("update customer %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Customer updated", zap.Uint("customer_id", id))
	return customer, nil
}

func applyCustomer(c *model.Customer, in CustomerInput) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.PostalCode = in.PostalCode
	c.Country = in.Country
}

// Delete removes customer id. Their orders keep the dangling customer id.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewCustomerRepository(tx)
		customer, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityCustomer, id, err)
		}
		if err := repo.Delete(ctx, customer); err != nil {
			return fmt.Errorf("delete customer %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Customer deleted", zap.Uint("customer_id", id))
	return nil
}

// Get loads customer id
func (s *CustomerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := repository.NewCustomerRepository(s.conn(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(entityCustomer, id, err)
	}
	return customer, nil
}

// GetByEmail loads the customer registered under email
func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	customer, err := repository.NewCustomerRepository(s.conn(ctx)).FindByEmail(ctx, email)
	if err != nil {
		return nil, notFound(entityCustomer, email, err)
	}
	return customer, nil
}

// List returns one slice of customers
func (s *CustomerService) List(ctx context.Context, p model.Pageable) (model.Slice[model.Customer], error) {
	page, err := repository.NewCustomerRepository(s.conn(ctx)).FindAll(ctx, p)
	if err != nil {
		return page, pageError("customers", err)
	}
	return page, nil
}

// Search matches term against names, email and phone; a blank term lists
func (s *CustomerService) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[model.Customer], error) {
	page, err := repository.NewCustomerRepository(s.conn(ctx)).Search(ctx, term, p)
	if err != nil {
		return page, pageError("customers", err)
	}
	return page, nil
}

// ActiveCustomers lists every active customer
func (s *CustomerService) ActiveCustomers(ctx context.Context) ([]model.Customer, error) {
	return repository.NewCustomerRepository(s.conn(ctx)).FindByActive(ctx, true)
}
