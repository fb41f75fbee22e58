package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	clock      *testutil.Clock
	categories *CategoryService
	products   *ProductService
	customers  *CustomerService
	orders     *OrderService
	users      *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	clock := testutil.NewClock()
	opts := []Option{WithClock(clock.Now), WithValidator(NewValidator())}
	return &fixture{
		db:         db,
		clock:      clock,
		categories: NewCategoryService(db, opts...),
		products:   NewProductService(db, opts...),
		customers:  NewCustomerService(db, opts...),
		orders:     NewOrderService(db, opts...),
		users:      NewUserService(db, opts...),
	}
}

func productInput(name, sku string) ProductInput {
	return ProductInput{
		Name:          name,
		SKU:           sku,
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: 5,
	}
}

func assertConflict(t *testing.T, err error, field, value string) {
	t.Helper()
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, field, conflict.Field)
	assert.Equal(t, value, conflict.Value)
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCategoryNameIsUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.categories.Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, f.clock.Now(), created.CreatedDate)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Electronics", Description: "different"})
	assertConflict(t, err, "name", "Electronics")

	// exact match only
	_, err = f.categories.Create(ctx, CategoryInput{Name: "electronics"})
	assert.NoError(t, err)
}

func TestCategoryUpdateKeepsOwnName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	books, err := f.categories.Create(ctx, CategoryInput{Name: "Books"})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, CategoryInput{Name: "Music"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	updated, err := f.categories.Update(ctx, books.ID, UpdateCategoryInput{
		CategoryInput: CategoryInput{Name: "Books", Description: "Paper and ebooks"},
		Active:        false,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	require.NotNil(t, updated.UpdatedDate)
	assert.Equal(t, f.clock.Now(), *updated.UpdatedDate)

	_, err = f.categories.Update(ctx, books.ID, UpdateCategoryInput{CategoryInput: CategoryInput{Name: "Music"}})
	assertConflict(t, err, "name", "Music")

	got, err := f.categories.Get(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)
	assert.Equal(t, "Paper and ebooks", got.Description)
}

func TestMissingIDsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.categories.Get(ctx, 99)
	assertNotFound(t, err)
	_, err = f.categories.Update(ctx, 99, UpdateCategoryInput{CategoryInput: CategoryInput{Name: "X"}})
	assertNotFound(t, err)
	assertNotFound(t, f.categories.Delete(ctx, 99))

	_, err = f.products.UpdateStock(ctx, 99, StockInput{StockQuantity: 3})
	assertNotFound(t, err)
	assertNotFound(t, f.products.Delete(ctx, 99))

	_, err = f.customers.GetByEmail(ctx, "nobody@example.com")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody@example.com", nf.Key)
	assert.EqualError(t, err, "Customer not found: nobody@example.com")

	_, err = f.orders.UpdateStatus(ctx, 99, StatusInput{Status: model.OrderStatusShipped})
	assertNotFound(t, err)
	_, err = f.users.Update(ctx, 99, UpdateUserInput{Email: "a@b.co", FirstName: "A", LastName: "B"})
	assertNotFound(t, err)
	assertNotFound(t, f.users.Delete(ctx, 99))
}

func TestDeleteLeavesReferencesDangling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	category, err := f.categories.Create(ctx, CategoryInput{Name: "Audio"})
	require.NoError(t, err)
	in := productInput("Headphones", "HP-1")
	in.CategoryID = &category.ID
	product, err := f.products.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.categories.Delete(ctx, category.ID))

	got, err := f.products.Get(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category.ID, *got.CategoryID)
}

func TestProductValidationRunsBeforeLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.products.Create(ctx, productInput("Existing", "DUP"))
	require.NoError(t, err)

	bad := productInput("  ", "DUP")
	bad.Price = decimal.Zero
	bad.StockQuantity = 0
	_, err = f.products.Create(ctx, bad)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, v := range verr.Fields {
		fields[v.Field] = v.Rule
	}
	assert.Equal(t, map[string]string{"name": "notblank", "price": "gt", "stock_quantity": "gt"}, fields)

	_, err = f.products.UpdateStock(ctx, 1, StockInput{StockQuantity: -1})
	assert.ErrorAs(t, err, &verr)
}

func TestProductSKUConflictAndStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.products.Create(ctx, productInput("Mouse", "M-1"))
	require.NoError(t, err)
	second, err := f.products.Create(ctx, productInput("Keyboard", "K-1"))
	require.NoError(t, err)

	_, err = f.products.Create(ctx, productInput("Other mouse", "M-1"))
	assertConflict(t, err, "sku", "M-1")

	_, err = f.products.Update(ctx, second.ID, UpdateProductInput{ProductInput: productInput("Keyboard", "M-1"), Active: true})
	assertConflict(t, err, "sku", "M-1")

	_, err = f.products.Update(ctx, first.ID, UpdateProductInput{ProductInput: productInput("Mouse v2", "M-1"), Active: true})
	require.NoError(t, err)

	stocked, err := f.products.UpdateStock(ctx, first.ID, StockInput{StockQuantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, stocked.StockQuantity)

	low, err := f.products.LowStock(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	low, err = f.products.LowStock(ctx, 9)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Keyboard", low[0].Name)
}

func TestBlankSearchMatchesList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, in := range []CustomerInput{
		{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com"},
		{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com"},
		{FirstName: "Ann", LastName: "Johnson", Email: "ann@example.com"},
	} {
		_, err := f.customers.Create(ctx, in)
		require.NoError(t, err)
	}

	p := model.Pageable{Size: 2}
	list, err := f.customers.List(ctx, p)
	require.NoError(t, err)
	assert.True(t, list.HasNext)

	for _, term := range []string{"", "   "} {
		got, err := f.customers.Search(ctx, term, p)
		require.NoError(t, err)
		assert.Equal(t, list, got)
	}

	got, err := f.customers.Search(ctx, "JOHN", model.Pageable{Size: 10})
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	_, err = f.customers.List(ctx, model.Pageable{Sort: &model.Sort{Field: "password"}})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCustomerEmailConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	john, err := f.customers.Create(ctx, CustomerInput{FirstName: "John", LastName: "Doe", Email: "john@example.com"})
	require.NoError(t, err)
	jane, err := f.customers.Create(ctx, CustomerInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = f.customers.Create(ctx, CustomerInput{FirstName: "Johnny", LastName: "D", Email: "john@example.com"})
	assertConflict(t, err, "email", "john@example.com")

	_, err = f.customers.Update(ctx, jane.ID, UpdateCustomerInput{
		CustomerInput: CustomerInput{FirstName: "Jane", LastName: "Doe", Email: "john@example.com"},
	})
	assertConflict(t, err, "email", "john@example.com")

	updated, err := f.customers.Update(ctx, john.ID, UpdateCustomerInput{
		CustomerInput: CustomerInput{FirstName: "John", LastName: "Doe", Email: "john@example.com", City: "Bangkok"},
		Active:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bangkok", updated.City)

	byEmail, err := f.customers.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, byEmail.ID)

	_, err = f.customers.Create(ctx, CustomerInput{FirstName: "Bad", LastName: "Mail", Email: "not-an-email"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderCreateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := NewOrderService(f.db, WithClock(f.clock.Now), WithOrderNumbers(func() string { return "ORD-FIXED001" }))

	generated, err := orders.Create(ctx, OrderInput{CustomerID: 7, TotalAmount: decimal.RequireFromString("42.50")})
	require.NoError(t, err)
	assert.Equal(t, "ORD-FIXED001", generated.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, generated.Status)
	assert.Equal(t, f.clock.Now(), generated.OrderDate)
	assert.Nil(t, generated.ShippedDate)

	_, err = orders.Create(ctx, OrderInput{CustomerID: 8, TotalAmount: decimal.RequireFromString("1")})
	assertConflict(t, err, "order_number", "ORD-FIXED001")

	random, err := f.orders.Create(ctx, OrderInput{CustomerID: 7, TotalAmount: decimal.RequireFromString("1")})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, random.OrderNumber)

	_, err = f.orders.Create(ctx, OrderInput{CustomerID: 7, TotalAmount: decimal.RequireFromString("-3")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderStatusSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, OrderInput{CustomerID: 1, TotalAmount: decimal.RequireFromString("15.00")})
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	shippedAt := f.clock.Now()
	shipped, err := f.orders.UpdateStatus(ctx, order.ID, StatusInput{Status: model.OrderStatusShipped})
	require.NoError(t, err)
	require.NotNil(t, shipped.ShippedDate)
	assert.Equal(t, shippedAt, *shipped.ShippedDate)
	assert.Nil(t, shipped.DeliveredDate)

	f.clock.Advance(48 * time.Hour)
	delivered, err := f.orders.Update(ctx, order.ID, UpdateOrderInput{Status: model.OrderStatusDelivered, Notes: "left at door"})
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredDate)
	assert.Equal(t, f.clock.Now(), *delivered.DeliveredDate)
	assert.Equal(t, "left at door", delivered.Notes)

	reloaded, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ShippedDate)
	assert.WithinDuration(t, shippedAt, *reloaded.ShippedDate, time.Second)

	other, err := f.orders.Create(ctx, OrderInput{CustomerID: 1, TotalAmount: decimal.RequireFromString("5.00")})
	require.NoError(t, err)
	bogus, err := f.orders.UpdateStatus(ctx, other.ID, StatusInput{Status: "BOGUS"})
	require.NoError(t, err)
	assert.Equal(t, "BOGUS", bogus.Status)
	assert.Nil(t, bogus.ShippedDate)
	assert.Nil(t, bogus.DeliveredDate)

	// lowercase is just another free-text status
	lower, err := f.orders.UpdateStatus(ctx, other.ID, StatusInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Nil(t, lower.ShippedDate)
}

func TestTotalRevenueCountsDeliveredOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	revenue, err := f.orders.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())

	for _, amount := range []string{"10.00", "20.00", "999.00"} {
		order, err := f.orders.Create(ctx, OrderInput{CustomerID: 1, TotalAmount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
		if amount != "999.00" {
			_, err = f.orders.UpdateStatus(ctx, order.ID, StatusInput{Status: model.OrderStatusDelivered})
			require.NoError(t, err)
		}
	}

	revenue, err = f.orders.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("30.00")), "got %s", revenue)

	delivered, err := f.orders.CountByStatus(ctx, model.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(2), delivered)

	pending, err := f.orders.ByStatus(ctx, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestOrderDateRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start := f.clock.Now()
	for i := 0; i < 3; i++ {
		_, err := f.orders.Create(ctx, OrderInput{CustomerID: uint(i + 1), TotalAmount: decimal.RequireFromString("1")})
		require.NoError(t, err)
		f.clock.Advance(24 * time.Hour)
	}

	got, err := f.orders.ByDateRange(ctx, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	reversed, err := f.orders.ByDateRange(ctx, start.Add(24*time.Hour), start)
	require.NoError(t, err)
	assert.NotNil(t, reversed)
	assert.Empty(t, reversed)

	mine, err := f.orders.ByCustomer(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUserUniquenessAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, err := f.users.Create(ctx, UserInput{Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Min"})
	require.NoError(t, err)
	assert.True(t, admin.Enabled)
	_, err = f.users.Create(ctx, UserInput{Username: "ops", Email: "ops@example.com", FirstName: "Op", LastName: "S"})
	require.NoError(t, err)

	_, err = f.users.Create(ctx, UserInput{Username: "admin", Email: "admin@example.com", FirstName: "X", LastName: "Y"})
	assertConflict(t, err, "username", "admin")

	_, err = f.users.Create(ctx, UserInput{Username: "admin2", Email: "ops@example.com", FirstName: "X", LastName: "Y"})
	assertConflict(t, err, "email", "ops@example.com")

	_, err = f.users.Update(ctx, admin.ID, UpdateUserInput{Email: "ops@example.com", FirstName: "Ada", LastName: "Min", Enabled: true})
	assertConflict(t, err, "email", "ops@example.com")

	updated, err := f.users.Update(ctx, admin.ID, UpdateUserInput{Email: "admin@example.com", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, "admin", updated.Username)
}

func TestUpdateLastLoginDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.Create(ctx, UserInput{Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Min"})
	require.NoError(t, err)

	assert.NoError(t, f.users.UpdateLastLoginDate(ctx, "nobody"))

	f.clock.Advance(time.Minute)
	require.NoError(t, f.users.UpdateLastLoginDate(ctx, "admin"))

	user, err := f.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginDate)
	assert.WithinDuration(t, f.clock.Now(), *user.LastLoginDate, time.Second)
}
