// Package factories builds the deterministic customers and orders used by
// the demo run, the bulk generator and the seeders.
package factories

import (
	"fmt"

	"github.com/shashiranjanraj/appaccess/app/models"
)

// Fixture pairs a customer with the one order placed for it. The order's
// CustomerID is filled in once the customer has been inserted.
type Fixture struct {
	Customer models.NewCustomer
	Order    models.NewOrder
}

// DemoCustomers returns John Doe and Jane Smith with their orders.
func DemoCustomers() []Fixture {
	return []Fixture{
		{
			Customer: models.NewCustomer{
				Name:       "John Doe",
				Email:      "john.doe@example.com",
				SSN:        "123-45-6789",
				CreditCard: "4532-1234-5678-9012",
				Address:    "123 Main St, Anytown, ST 12345",
			},
			Order: models.NewOrder{
				Details: models.OrderDetails{
					Items: []models.OrderItem{
						{Product: "Laptop", Quantity: 1, Price: 999.99},
						{Product: "Mouse", Quantity: 1, Price: 29.99},
					},
					Shipping: "Standard",
					Notes:    "Gift wrap requested",
				},
				TotalAmount: 1029.98,
				PaymentInfo: "Credit Card ending in 9012",
			},
		},
		{
			Customer: models.NewCustomer{
				Name:       "Jane Smith",
				Email:      "jane.smith@company.com",
				SSN:        "987-65-4321",
				CreditCard: "5555-4444-3333-2222",
				Address:    "456 Oak Ave, Another City, ST 67890",
			},
			Order: models.NewOrder{
				Details: models.OrderDetails{
					Items: []models.OrderItem{
						{Product: "Phone", Quantity: 1, Price: 799.99},
						{Product: "Case", Quantity: 1, Price: 19.99},
					},
					Shipping: "Express",
					Notes:    "Corporate purchase",
				},
				TotalAmount: 819.98,
				PaymentInfo: "Corporate Card ending in 2222",
			},
		},
	}
}

// BulkCustomer is the i-th (0-based) generated customer.
func BulkCustomer(i int) models.NewCustomer {
	return models.NewCustomer{
		Name:       fmt.Sprintf("Bulk Customer %d", i+1),
		Email:      fmt.Sprintf("bulk%d@example.com", i+1),
		SSN:        fmt.Sprintf("555-44-%04d", 3000+i),
		CreditCard: fmt.Sprintf("4532-%04d-5678-9012", 1000+i),
		Address:    fmt.Sprintf("%d Bulk Street, City, State %d", 100+i, 10000+i),
	}
}

// BulkOrder is the i-th generated order, for customerID.
func BulkOrder(i int, customerID uint) models.NewOrder {
	return models.NewOrder{
		CustomerID: customerID,
		Details: models.OrderDetails{
			Items: []models.OrderItem{
				{Product: fmt.Sprintf("Product %d", i+1), Quantity: 2, Price: 29.99},
				{Product: fmt.Sprintf("Service %d", i+1), Quantity: 1, Price: 49.99},
			},
			Shipping: "Express",
			Notes:    fmt.Sprintf("Bulk order #%d", i+1),
		},
		TotalAmount: 109.97,
		PaymentInfo: fmt.Sprintf("Credit Card ending in %04d", 9012+i),
	}
}
