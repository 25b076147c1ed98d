// Package demo is the scripted application run: register two customers,
// place an order for each, read the data back, then generate bulk traffic.
package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/database/factories"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
)

// Config controls one run.
type Config struct {
	Driver    string
	DSN       string
	BulkCount int
	BulkDelay time.Duration
	Out       io.Writer

	// AppOptions are passed through to services.Open.
	AppOptions []services.Option
}

// Run executes the demonstration. Any failure, including a panic, is
// reported on cfg.Out and returned; the connection is closed either way.
func Run(ctx context.Context, cfg Config) (err error) {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	say := func(format string, args ...any) { fmt.Fprintf(out, format+"\n", args...) }

	say("=== Application Access Example ===")
	say("Simulating real application accessing the database with transparent encryption")
	say("")

	var app *services.CustomerApp
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			say("✗ Application error: %v", err)
			logger.Error("demo run failed", "error", err)
		}
		if app != nil {
			_ = app.Close()
		}
	}()

	opts := append(append([]services.Option{}, cfg.AppOptions...), services.WithBulkDelay(cfg.BulkDelay))
	app, err = services.Open(ctx, cfg.Driver, cfg.DSN, out, opts...)
	if err != nil {
		return err
	}
	if err = app.SetupDatabase(ctx); err != nil {
		return err
	}

	say("\n--- Customer Registration Simulation ---")
	fixtures := factories.DemoCustomers()
	ids := make([]uint, len(fixtures))
	for i, fx := range fixtures {
		ids[i] = app.AddCustomer(ctx, fx.Customer)
	}

	say("\n--- Order Processing Simulation ---")
	for i, fx := range fixtures {
		if ids[i] == 0 {
			continue
		}
		fx.Order.CustomerID = ids[i]
		app.CreateOrder(ctx, fx.Order)
	}

	first := ids[0]

	say("\n--- Data Retrieval Simulation ---")
	if first != 0 {
		if c := app.CustomerData(ctx, first); c != nil {
			say("Customer: %s", c.Name)
			say("Email: %s", c.Email)
			say("Total Orders: %d", c.TotalOrders)
			say("Total Spent: $%.2f", c.TotalSpent)
		}
	}

	say("\n--- Search Functionality Simulation ---")
	for _, m := range app.SearchCustomersByEmail(ctx, "example.com") {
		say("Found: %s (%s)", m.Name, m.Email)
	}

	say("\n--- Order History Simulation ---")
	if first != 0 {
		for _, o := range app.OrderHistory(ctx, first) {
			say("Order #%d: $%.2f - %d items", o.ID, o.TotalAmount, o.Details.ItemCount())
		}
	}

	app.ProcessBulkTransactions(ctx, cfg.BulkCount)

	say("\n--- Application Test Complete ---")
	say("All application operations completed successfully!")
	say("Data is transparently encrypted in the filesystem.")
	return nil
}
