package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/pkg/migration"
)

func init() {
	migration.Register("0001_create_customers_table", "customers", &CreateCustomersTable{})
	migration.Register("0002_create_orders_table", "orders", &CreateOrdersTable{})
}

// createIfAbsent never alters an existing table: a schema created by an
// earlier run, or by another client, is left exactly as it is.
func createIfAbsent(db *gorm.DB, model interface{}) error {
	if db.Migrator().HasTable(model) {
		return nil
	}
	return db.Migrator().CreateTable(model)
}

// -------- 0001: customers --------

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error {
	return createIfAbsent(db, &models.Customer{})
}

// -------- 0002: orders --------

// CreateOrdersTable also declares the customer_id foreign key.
type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return createIfAbsent(db, &models.Order{})
}
