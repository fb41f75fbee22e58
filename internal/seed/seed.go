// Package seed loads the sample catalogue into an empty database.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/repository"
	"github.com/suteetoe/backoffice/internal/service"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type category struct {
	name, description, parent string
}

type product struct {
	name, description, sku, price string
	stock                         int
	category                      string
}

var categories = []category{
	{"Electronics", "Electronic devices and gadgets", ""},
	{"Clothing", "Apparel and fashion items", ""},
	{"Books", "Books and publications", ""},
	{"Smartphones", "Mobile phones and accessories", "Electronics"},
	{"Laptops", "Portable computers", "Electronics"},
	{"Men's Clothing", "Clothing for men", "Clothing"},
	{"Women's Clothing", "Clothing for women", "Clothing"},
}

var products = []product{
	{"iPhone 15", "Latest iPhone model", "IPHONE-15", "999.99", 50, "Electronics"},
	{"MacBook Pro", "Professional laptop", "MACBOOK-PRO", "1999.99", 25, "Electronics"},
	{"Samsung Galaxy", "Android smartphone", "SAMSUNG-GALAXY", "799.99", 30, "Electronics"},
	{"Men's T-Shirt", "Cotton t-shirt for men", "TSHIRT-MEN", "29.99", 100, "Men's Clothing"},
	{"Women's Dress", "Elegant dress for women", "DRESS-WOMEN", "89.99", 75, "Women's Clothing"},
	{"Programming Book", "Learn Java programming", "BOOK-JAVA", "49.99", 200, "Books"},
}

// Run inserts the sample data in one transaction when no category exists
// yet. It reports whether anything was written.
func Run(ctx context.Context, db *gorm.DB, now func() time.Time) (bool, error) {
	log := logger.FromContext(ctx)
	stamp := now().UTC()
	seeded := false

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryRepo := repository.NewCategoryRepository(tx)
		n, err := categoryRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if n > 0 {
			return nil
		}

		ids := make(map[string]uint, len(categories))
		for _, c := range categories {
			row := &model.Category{Name: c.name, Description: c.description, Active: true, CreatedDate: stamp}
			if c.parent != "" {
				parentID := ids[c.parent]
				row.ParentCategoryID = &parentID
			}
			if err := categoryRepo.Create(ctx, row); err != nil {
				return fmt.Errorf("seed category %s: %w", c.name, err)
			}
			ids[c.name] = row.ID
		}

		productRepo := repository.NewProductRepository(tx)
		for _, p := range products {
			categoryID := ids[p.category]
			row := &model.Product{
				Name:          p.name,
				Description:   p.description,
				SKU:           p.sku,
				Price:         decimal.RequireFromString(p.price),
				StockQuantity: p.stock,
				CategoryID:    &categoryID,
				Active:        true,
				CreatedDate:   stamp,
			}
			if err := productRepo.Create(ctx, row); err != nil {
				return fmt.Errorf("seed product %s: %w", p.sku, err)
			}
		}

		customerRepo := repository.NewCustomerRepository(tx)
		john := &model.Customer{
			FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1234567890",
			Address: "123 Main St", City: "New York", State: "NY", PostalCode: "10001", Country: "USA",
			Active: true, CreatedDate: stamp,
		}
		jane := &model.Customer{
			FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Phone: "+0987654321",
			Address: "456 Oak Ave", City: "Los Angeles", State: "CA", PostalCode: "90210", Country: "USA",
			Active: true, CreatedDate: stamp,
		}
		for _, c := range []*model.Customer{john, jane} {
			if err := customerRepo.Create(ctx, c); err != nil {
				return fmt.Errorf("seed customer %s: %w", c.Email, err)
			}
		}

		orderRepo := repository.NewOrderRepository(tx)
		orders := []*model.Order{
			newOrder(john.ID, "1029.98", "123 Main St, New York, NY 10001", "First order", stamp),
			newOrder(jane.ID, "119.98", "456 Oak Ave, Los Angeles, CA 90210", "Second order", stamp),
		}
		for _, o := range orders {
			if err := orderRepo.Create(ctx, o); err != nil {
				return fmt.Errorf("seed order %s: %w", o.OrderNumber, err)
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		log.Info("Sample data loaded",
			zap.Int("categories", len(categories)),
			zap.Int("products", len(products)))
	} else {
		log.Debug("Sample data skipped, categories already present")
	}
	return seeded, nil
}

func newOrder(customerID uint, amount, address, notes string, stamp time.Time) *model.Order {
	return &model.Order{
		OrderNumber:     service.GenerateOrderNumber(),
		CustomerID:      customerID,
		TotalAmount:     decimal.RequireFromString(amount),
		Status:          model.OrderStatusPending,
		ShippingAddress: address,
		BillingAddress:  address,
		Notes:           notes,
		OrderDate:       stamp,
	}
}
