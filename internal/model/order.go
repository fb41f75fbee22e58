package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conventional order statuses. Status is free text; only Shipped and Delivered
// have side effects.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is a purchase record referencing a customer by id only
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID      uint            `json:"customer_id" gorm:"not null;index"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status          string          `json:"status" gorm:"type:varchar(50);not null;index"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Notes           string          `json:"notes"`
	OrderDate       time.Time       `json:"order_date" gorm:"not null;index"`
	ShippedDate     *time.Time      `json:"shipped_date"`
	DeliveredDate   *time.Time      `json:"delivered_date"`
}

func (Order) TableName() string { return "orders" }
