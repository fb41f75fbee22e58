package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item. CategoryID may point at a deleted category.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"type:varchar(200);not null"`
	Description   string          `json:"description" gorm:"type:varchar(1000)"`
	SKU           string          `json:"sku" gorm:"column:sku;type:varchar(50);uniqueIndex"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null"`
	CategoryID    *uint           `json:"category_id" gorm:"index"`
	ImageURL      *string         `json:"image_url" gorm:"column:image_url"`
	Active        bool            `json:"active" gorm:"column:is_active;not null"`
	CreatedDate   time.Time       `json:"created_date" gorm:"not null"`
	UpdatedDate   *time.Time      `json:"updated_date"`
}

func (Product) TableName() string { return "products" }
