package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/repository"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entityOrder = "Order"

// OrderInput carries the fields of a new order. An empty OrderNumber is
// replaced with a generated one.
type OrderInput struct {
	OrderNumber     string          `json:"order_number" validate:"max=50"`
	CustomerID      uint            `json:"customer_id" validate:"required"`
	TotalAmount     decimal.Decimal `json:"total_amount" validate:"gt=0"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Notes           string          `json:"notes"`
}

// UpdateOrderInput replaces the mutable order fields. The order number,
// customer and amount are fixed once placed.
type UpdateOrderInput struct {
	Status          string `json:"status" validate:"notblank,max=50"`
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
	Notes           string `json:"notes"`
}

// StatusInput sets an order's status
type StatusInput struct {
	Status string `json:"status" validate:"notblank,max=50"`
}

// OrderService manages purchase records. Status is free text; any value is
// accepted.
type OrderService struct {
	base
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB, opts ...Option) *OrderService {
	return &OrderService{base: newBase(db, opts)}
}

// Create places a PENDING order under a unique order number. The customer id
// is stored as given.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if in.OrderNumber == "" {
		in.OrderNumber = s.orderNumber()
	}

	order := &model.Order{
		OrderNumber:     in.OrderNumber,
		CustomerID:      in.CustomerID,
		TotalAmount:     in.TotalAmount,
		Status:          model.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
		OrderDate:       s.stamp(),
	}

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewOrderRepository(tx)
		taken, err := repo.OrderNumberTaken(ctx, in.OrderNumber, 0)
		if err != nil {
			return fmt.Errorf("check order number: %w", err)
		}
		if taken {
			return &ConflictError{Entity: entityOrder, Field: "order_number", Value: in.OrderNumber}
		}
		if err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// Update replaces the mutable fields of order id. A status of SHIPPED or
// DELIVERED also stamps the matching date.
func (s *OrderService) Update(ctx context.Context, id uint, in UpdateOrderInput) (*model.Order, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	return s.modify(ctx, id, "update order", func(o *model.Order, now time.Time) {
		o.ShippingAddress = in.ShippingAddress
		o.BillingAddress = in.BillingAddress
		o.Notes = in.Notes
		setStatus(o, in.Status, now)
	})
}

// UpdateStatus sets the status of order id with the same date side effects
// as Update
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, in StatusInput) (*model.Order, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	return s.modify(ctx, id, "update order status", func(o *model.Order, now time.Time) {
		setStatus(o, in.Status, now)
	})
}

func (s *OrderService) modify(ctx context.Context, id uint, op string, apply func(*model.Order, time.Time)) (*model.Order, error) {
	var order *model.Order
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewOrderRepository(tx)
		var err error
		order, err = repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityOrder, id, err)
		}

		apply(order, s.stamp())
		if err := repo.Save(ctx, order); err != nil {
			return fmt.Errorf("%s %d: %w", op, id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order updated",
		zap.Uint("order_id", id),
		zap.String("status", order.Status))
	return order, nil
}

// setStatus writes status verbatim; only the exact SHIPPED and DELIVERED
// literals touch a date
func setStatus(o *model.Order, status string, now time.Time) {
	o.Status = status
	switch status {
	case model.OrderStatusShipped:
		o.ShippedDate = &now
	case model.OrderStatusDelivered:
		o.DeliveredDate = &now
	}
}

// Delete removes order id
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		repo := repository.NewOrderRepository(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(entityOrder, id, err)
		}
		if err := repo.Delete(ctx, order); err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Order deleted", zap.Uint("order_id", id))
	return nil
}

// Get loads order id
func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := repository.NewOrderRepository(s.conn(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(entityOrder, id, err)
	}
	return order, nil
}

// List returns one slice of orders
func (s *OrderService) List(ctx context.Context, p model.Pageable) (model.Slice[model.Order], error) {
	page, err := repository.NewOrderRepository(s.conn(ctx)).FindAll(ctx, p)
	if err != nil {
		return page, pageError("orders", err)
	}
	return page, nil
}

// Search matches term against order number and status; a blank term lists
func (s *OrderService) Search(ctx context.Context, term string, p model.Pageable) (model.Slice[model.Order], error) {
	page, err := repository.NewOrderRepository(s.conn(ctx)).Search(ctx, term, p)
	if err != nil {
		return page, pageError("orders", err)
	}
	return page, nil
}

// ByCustomer lists the orders of customerID
func (s *OrderService) ByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	return repository.NewOrderRepository(s.conn(ctx)).FindByCustomerID(ctx, customerID)
}

// ByStatus lists orders whose status equals status exactly
func (s *OrderService) ByStatus(ctx context.Context, status string) ([]model.Order, error) {
	return repository.NewOrderRepository(s.conn(ctx)).FindByStatus(ctx, status)
}

// ByDateRange lists orders placed within [from, to]. A reversed range matches nothing.
func (s *OrderService) ByDateRange(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if to.Before(from) {
		return []model.Order{}, nil
	}
	return repository.NewOrderRepository(s.conn(ctx)).FindByOrderDateBetween(ctx, from.UTC(), to.UTC())
}

// CountByStatus counts orders whose status equals status exactly
func (s *OrderService) CountByStatus(ctx context.Context, status string) (int64, error) {
	return repository.NewOrderRepository(s.conn(ctx)).CountByStatus(ctx, status)
}

// TotalRevenue sums the amounts of DELIVERED orders, zero when there are none
func (s *OrderService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := repository.NewOrderRepository(s.conn(ctx)).SumTotalByStatus(ctx, model.OrderStatusDelivered)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum delivered orders: %w", err)
	}
	return total, nil
}
