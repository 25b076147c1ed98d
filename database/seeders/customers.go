package seeders

import (
	"context"

	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/database/factories"
)

func init() {
	Register("demo_customers", SeedDemoCustomers)
	Register("bulk_transactions", SeedBulkTransactions)
}

// SeedDemoCustomers inserts John Doe and Jane Smith with one order each.
func SeedDemoCustomers(ctx context.Context, repo *repositories.CustomerRepository) error {
	for _, fx := range factories.DemoCustomers() {
		id, err := repo.AddCustomer(ctx, fx.Customer)
		if err != nil {
			return err
		}
		fx.Order.CustomerID = id
		if _, err := repo.CreateOrder(ctx, fx.Order); err != nil {
			return err
		}
	}
	return nil
}

// SeedBulkTransactions inserts BULK_COUNT generated customers and orders.
func SeedBulkTransactions(ctx context.Context, repo *repositories.CustomerRepository) error {
	for i := 0; i < config.BulkCount(); i++ {
		id, err := repo.AddCustomer(ctx, factories.BulkCustomer(i))
		if err != nil {
			return err
		}
		if _, err := repo.CreateOrder(ctx, factories.BulkOrder(i, id)); err != nil {
			return err
		}
	}
	return nil
}
