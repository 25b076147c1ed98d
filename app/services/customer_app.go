package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/database/factories"
	"github.com/shashiranjanraj/appaccess/pkg/database"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
)

// CustomerApp is the narrating front of CustomerRepository. Every method
// reports its outcome on the writer and swallows failures, returning a zero
// id, a nil summary or an empty slice instead.
type CustomerApp struct {
	repo      *repositories.CustomerRepository
	out       io.Writer
	log       *slog.Logger
	bulkDelay time.Duration
	repoOpts  []repositories.Option
	closed    bool
}

// Option configures a CustomerApp.
type Option func(*CustomerApp)

// WithBulkDelay sets the pause between bulk iterations.
func WithBulkDelay(d time.Duration) Option {
	return func(a *CustomerApp) { a.bulkDelay = d }
}

// WithLogger replaces the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *CustomerApp) { a.log = l }
}

// WithRepositoryOptions is applied when Open builds the repository.
func WithRepositoryOptions(opts ...repositories.Option) Option {
	return func(a *CustomerApp) { a.repoOpts = append(a.repoOpts, opts...) }
}

// Open creates the database if needed, connects and wraps the connection.
// Unlike the other methods it returns the failure, since nothing can run
// without a connection.
func Open(ctx context.Context, driver, dsn string, out io.Writer, opts ...Option) (*CustomerApp, error) {
	a := newApp(out, opts)

	if err := database.EnsureDatabase(ctx, driver, dsn); err != nil {
		a.fail("Database connection failed", err)
		return nil, err
	}
	db, err := database.Open(driver, dsn)
	if err != nil {
		a.fail("Database connection failed", err)
		return nil, err
	}

	a.repo = repositories.NewCustomerRepository(db, a.repoOpts...)
	a.printf("✓ Connected to database")
	a.log.Info("connected", "driver", driver)
	return a, nil
}

// New wraps an existing repository.
func New(repo *repositories.CustomerRepository, out io.Writer, opts ...Option) *CustomerApp {
	a := newApp(out, opts)
	a.repo = repo
	return a
}

func newApp(out io.Writer, opts []Option) *CustomerApp {
	if out == nil {
		out = io.Discard
	}
	a := &CustomerApp{
		out:       out,
		log:       logger.L.With("component", "customer_app"),
		bulkDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Repository exposes the typed layer for callers that need real errors.
func (a *CustomerApp) Repository() *repositories.CustomerRepository { return a.repo }

// SetupDatabase creates the customers and orders tables. The error is
// returned so the caller can abort the run.
func (a *CustomerApp) SetupDatabase(ctx context.Context) error {
	if err := a.repo.EnsureSchema(ctx); err != nil {
		a.fail("Database setup failed", err)
		return err
	}
	a.printf("✓ Database schema created")
	return nil
}

// AddCustomer returns the new id, or 0 on failure.
func (a *CustomerApp) AddCustomer(ctx context.Context, in models.NewCustomer) uint {
	id, err := a.repo.AddCustomer(ctx, in)
	if err != nil {
		a.fail("Failed to add customer", err)
		return 0
	}
	a.printf("✓ Added customer: %s (ID: %d)", in.Name, id)
	return id
}

// CreateOrder returns the new order id, or 0 on failure.
func (a *CustomerApp) CreateOrder(ctx context.Context, in models.NewOrder) uint {
	id, err := a.repo.CreateOrder(ctx, in)
	if err != nil {
		a.fail("Failed to create order", err)
		return 0
	}
	a.printf("✓ Created order: $%.2f (ID: %d)", models.RoundCents(in.TotalAmount), id)
	return id
}

// CustomerData returns the customer with order aggregates, or nil when the
// id is unknown or the query fails.
func (a *CustomerApp) CustomerData(ctx context.Context, id uint) *models.CustomerSummary {
	s, err := a.repo.FindWithTotals(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrCustomerNotFound):
		a.printf("✗ Customer %d not found", id)
		a.log.Warn("customer not found", "customer_id", id)
		return nil
	case err != nil:
		a.fail("Failed to retrieve customer", err)
		return nil
	}
	a.printf("✓ Retrieved customer data: %s", s.Name)
	return &s
}

// SearchCustomersByEmail returns customers whose email contains pattern.
// Failures yield an empty slice.
func (a *CustomerApp) SearchCustomersByEmail(ctx context.Context, pattern string) []models.CustomerMatch {
	matches, err := a.repo.SearchByEmail(ctx, pattern)
	if err != nil {
		a.fail("Customer search failed", err)
		return []models.CustomerMatch{}
	}
	a.printf("✓ Found %d customers matching '%s'", len(matches), pattern)
	return matches
}

// OrderHistory returns the customer's orders newest first. Failures yield an
// empty slice.
func (a *CustomerApp) OrderHistory(ctx context.Context, customerID uint) []models.Order {
	orders, err := a.repo.OrderHistory(ctx, customerID)
	if err != nil {
		a.fail("Failed to retrieve orders", err)
		return []models.Order{}
	}
	a.printf("✓ Retrieved %d orders for customer %d", len(orders), customerID)
	return orders
}

// ProcessBulkTransactions inserts n generated customers with one order
// each, pausing between iterations. It returns how many orders were
// created. Cancelling ctx stops the loop early.
func (a *CustomerApp) ProcessBulkTransactions(ctx context.Context, n int) int {
	a.printf("\n--- Processing %d bulk transactions ---", n)

	created := 0
	for i := 0; i < n; i++ {
		if id := a.AddCustomer(ctx, factories.BulkCustomer(i)); id != 0 {
			if a.CreateOrder(ctx, factories.BulkOrder(i, id)) != 0 {
				created++
			}
		}

		if i == n-1 || a.bulkDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			a.log.Warn("bulk run cancelled", "completed", i+1, "requested", n)
			return created
		case <-time.After(a.bulkDelay):
		}
	}
	return created
}

// Close releases the connection. Calling it twice is a no-op.
func (a *CustomerApp) Close() error {
	if a == nil || a.closed || a.repo == nil {
		return nil
	}
	a.closed = true
	if err := a.repo.Close(); err != nil {
		a.fail("Failed to close database connection", err)
		return err
	}
	a.printf("✓ Database connection closed")
	return nil
}

func (a *CustomerApp) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *CustomerApp) fail(what string, err error) {
	a.printf("✗ %s: %v", what, err)
	a.log.Error(what, "error", err)
}
