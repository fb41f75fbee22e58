package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/backoffice/internal/model"
	"gorm.io/gorm"
)

// OrderRepository persists orders
type OrderRepository struct {
	crud[model.Order]
}

// NewOrderRepository binds a repository to db, which may be a transaction
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{crud[model.Order]{
		db: db,
		sortable: sortColumns{
			"id":             "id",
			"order_number":   "order_number",
			"customer_id":    "customer_id",
			"total_amount":   "total_amount",
			"status":         "status",
			"order_date":     "order_date",
			"shipped_date":   "shipped_date",
			"delivered_date": "delivered_date",
		},
		searchFields: []string{"order_number", "status"},
	}}
}

// FindByOrderNumber loads the order with exactly orderNumber
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return r.findBy(ctx, "order_number", orderNumber)
}

// OrderNumberTaken reports whether another order already uses orderNumber
func (r *OrderRepository) OrderNumberTaken(ctx context.Context, orderNumber string, excludeID uint) (bool, error) {
	return r.taken(ctx, "order_number", orderNumber, excludeID)
}

// FindByCustomerID lists the orders placed by customerID
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]model.Order, error) {
	return r.list(ctx, "customer_id = ?", customerID)
}

// FindByStatus lists orders whose status equals status exactly
func (r *OrderRepository) FindByStatus(ctx context.Context, status string) ([]model.Order, error) {
	return r.list(ctx, "status = ?", status)
}

// FindByOrderDateBetween lists orders placed in [from, to]
func (r *OrderRepository) FindByOrderDateBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	return r.list(ctx, "order_date BETWEEN ? AND ?", from, to)
}

// CountByStatus counts orders whose status equals status exactly
func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&model.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// SumTotalByStatus adds up total_amount over orders with status; zero when none match
func (r *OrderRepository) SumTotalByStatus(ctx context.Context, status string) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.conn(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", status).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}
