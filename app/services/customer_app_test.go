package services_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/database/factories"
)

func openApp(t *testing.T, opts ...services.Option) (*services.CustomerApp, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]services.Option{services.WithBulkDelay(0)}, opts...)
	app, err := services.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "app.db"), &out, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.SetupDatabase(context.Background()))
	return app, &out
}

func TestOpen_Narrates(t *testing.T) {
	_, out := openApp(t)
	assert.Contains(t, out.String(), "✓ Connected to database\n")
	assert.Contains(t, out.String(), "✓ Database schema created\n")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	var out bytes.Buffer
	app, err := services.Open(context.Background(), "oracle", "x", &out)
	assert.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, out.String(), "✗ Database connection failed")
}

func TestAddCustomerThenFetch(t *testing.T) {
	app, out := openApp(t)
	ctx := context.Background()

	in := factories.DemoCustomers()[0].Customer
	id := app.AddCustomer(ctx, in)
	require.NotZero(t, id)
	assert.Contains(t, out.String(), "✓ Added customer: John Doe (ID: 1)")

	s := app.CustomerData(ctx, id)
	require.NotNil(t, s)
	assert.Equal(t, in.Name, s.Name)
	assert.Equal(t, in.Email, s.Email)
	assert.Equal(t, in.SSN, s.SSN)
	assert.Equal(t, in.CreditCard, s.CreditCard)
	assert.Equal(t, in.Address, s.Address)
	assert.Equal(t, int64(0), s.TotalOrders)
	assert.Equal(t, 0.0, s.TotalSpent)
}

func TestCustomerData_MissingIsNil(t *testing.T) {
	app, out := openApp(t)
	assert.Nil(t, app.CustomerData(context.Background(), 404))
	assert.Contains(t, out.String(), "✗ Customer 404 not found")
}

func TestCreateOrder_Sentinels(t *testing.T) {
	app, out := openApp(t)
	ctx := context.Background()

	assert.Zero(t, app.CreateOrder(ctx, models.NewOrder{CustomerID: 77, TotalAmount: 1}))
	assert.Contains(t, out.String(), "✗ Failed to create order")

	id := app.AddCustomer(ctx, factories.BulkCustomer(0))
	fx := factories.DemoCustomers()[0].Order
	fx.CustomerID = id
	orderID := app.CreateOrder(ctx, fx)
	assert.NotZero(t, orderID)
	assert.Contains(t, out.String(), "✓ Created order: $1029.98 (ID: ")

	s := app.CustomerData(ctx, id)
	require.NotNil(t, s)
	assert.Equal(t, int64(1), s.TotalOrders)
	assert.InDelta(t, 1029.98, s.TotalSpent, 0.001)

	history := app.OrderHistory(ctx, id)
	require.Len(t, history, 1)
	assert.Equal(t, fx.Details, history[0].Details)
}

func TestSearchAndHistory_EmptyNotNil(t *testing.T) {
	app, out := openApp(t)
	ctx := context.Background()

	matches := app.SearchCustomersByEmail(ctx, "example.com")
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Contains(t, out.String(), "✓ Found 0 customers matching 'example.com'")

	orders := app.OrderHistory(ctx, 1)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestFailuresAfterClose(t *testing.T) {
	app, out := openApp(t)
	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
	assert.Contains(t, out.String(), "✓ Database connection closed")

	ctx := context.Background()
	assert.Zero(t, app.AddCustomer(ctx, factories.BulkCustomer(0)))
	assert.Empty(t, app.SearchCustomersByEmail(ctx, "x"))
	assert.Empty(t, app.OrderHistory(ctx, 1))
	assert.Nil(t, app.CustomerData(ctx, 1))
	assert.Contains(t, out.String(), "✗ Customer search failed")
}

func TestProcessBulkTransactions(t *testing.T) {
	app, out := openApp(t)
	ctx := context.Background()

	assert.Equal(t, 3, app.ProcessBulkTransactions(ctx, 3))
	assert.Contains(t, out.String(), "\n--- Processing 3 bulk transactions ---\n")
	assert.Contains(t, out.String(), "✓ Added customer: Bulk Customer 3 (ID: 3)")

	got := app.SearchCustomersByEmail(ctx, "bulk")
	assert.Len(t, got, 3)

	s := app.CustomerData(ctx, got[2].ID)
	require.NotNil(t, s)
	assert.InDelta(t, 109.97, s.TotalSpent, 0.001)
}

func TestProcessBulkTransactions_StopsOnCancel(t *testing.T) {
	app, _ := openApp(t, services.WithBulkDelay(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	assert.Equal(t, 1, app.ProcessBulkTransactions(ctx, 5))
}
