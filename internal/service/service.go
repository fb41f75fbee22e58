// Package service implements the back-office operations. Each write validates
// its input, checks existence and uniqueness, and persists inside a single
// transaction.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Option configures a service
type Option func(*base)

// WithClock replaces the time source used for every timestamp
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithValidator shares one validator between services
func WithValidator(v *Validator) Option {
	return func(b *base) { b.validator = v }
}

// WithOrderNumbers replaces the order number generator
func WithOrderNumbers(next func() string) Option {
	return func(b *base) { b.orderNumber = next }
}

type base struct {
	db          *gorm.DB
	now         func() time.Time
	validator   *Validator
	orderNumber func() string
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
		orderNumber: GenerateOrderNumber,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.validator == nil {
		b.validator = NewValidator()
	}
	return b
}

// inTx runs fn in a read-write transaction; any error rolls it back
func (b base) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.db.WithContext(ctx).Transaction(fn)
}

func (b base) conn(ctx context.Context) *gorm.DB {
	return b.db.WithContext(ctx)
}

func (b base) stamp() time.Time {
	return b.now().UTC()
}

// GenerateOrderNumber returns "ORD-" followed by eight uppercase hex digits
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// Services groups the five back-office services over one database
type Services struct {
	Categories *CategoryService
	Products   *ProductService
	Customers  *CustomerService
	Orders     *OrderService
	Users      *UserService
}

// NewServices builds every service with a shared validator
func NewServices(db *gorm.DB, opts ...Option) *Services {
	opts = append([]Option{WithValidator(NewValidator())}, opts...)
	return &Services{
		Categories: NewCategoryService(db, opts...),
		Products:   NewProductService(db, opts...),
		Customers:  NewCustomerService(db, opts...),
		Orders:     NewOrderService(db, opts...),
		Users:      NewUserService(db, opts...),
	}
}
