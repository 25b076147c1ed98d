package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/config"
)

var (
	newCustomer models.NewCustomer

	orderItems    []string
	orderShipping string
	orderNotes    string
	orderAmount   float64
	orderPayment  string
)

// appaccess customer:add
var customerAddCmd = &cobra.Command{
	Use:   "customer:add",
	Short: "Register a customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		if app.AddCustomer(cmd.Context(), newCustomer) == 0 {
			return fmt.Errorf("customer was not added")
		}
		return nil
	},
}

// appaccess customer:show <id>
var customerShowCmd = &cobra.Command{
	Use:   "customer:show <id>",
	Short: "Show a customer with order totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		c := app.CustomerData(cmd.Context(), id)
		if c == nil {
			return fmt.Errorf("no customer data for id %d", id)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Customer: %s\n", c.Name)
		fmt.Fprintf(out, "Email: %s\n", c.Email)
		fmt.Fprintf(out, "Address: %s\n", c.Address)
		fmt.Fprintf(out, "Registered: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Total Orders: %d\n", c.TotalOrders)
		fmt.Fprintf(out, "Total Spent: $%.2f\n", c.TotalSpent)
		return nil
	},
}

// appaccess customer:search <pattern>
var customerSearchCmd = &cobra.Command{
	Use:   "customer:search <pattern>",
	Short: "Find customers whose email contains pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		for _, m := range app.SearchCustomersByEmail(cmd.Context(), args[0]) {
			fmt.Fprintf(cmd.OutOrStdout(), "Found: %s (%s)\n", m.Name, m.Email)
		}
		return nil
	},
}

// appaccess order:create <customer-id>
var orderCreateCmd = &cobra.Command{
	Use:   "order:create <customer-id>",
	Short: "Place an order for a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		details := models.OrderDetails{Shipping: orderShipping, Notes: orderNotes}
		for _, raw := range orderItems {
			item, err := parseItem(raw)
			if err != nil {
				return err
			}
			details.Items = append(details.Items, item)
		}
		amount := orderAmount
		if !cmd.Flags().Changed("amount") {
			amount = itemsTotal(details.Items)
		}

		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		if app.CreateOrder(cmd.Context(), models.NewOrder{
			CustomerID:  id,
			Details:     details,
			TotalAmount: amount,
			PaymentInfo: orderPayment,
		}) == 0 {
			return fmt.Errorf("order was not created")
		}
		return nil
	},
}

// appaccess order:history <customer-id>
var orderHistoryCmd = &cobra.Command{
	Use:   "order:history <customer-id>",
	Short: "List a customer's orders, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		for _, o := range app.OrderHistory(cmd.Context(), id) {
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%d: $%.2f - %d items\n", o.ID, o.TotalAmount, o.Details.ItemCount())
		}
		return nil
	},
}

// appaccess bulk [n]
var bulkCmd = &cobra.Command{
	Use:   "bulk [n]",
	Short: "Generate n customers with one order each",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := config.BulkCount()
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("invalid count %q", args[0])
			}
			n = v
		}
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		created := app.ProcessBulkTransactions(cmd.Context(), n)
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d transactions completed\n", created, n)
		return nil
	},
}

func init() {
	f := customerAddCmd.Flags()
	f.StringVar(&newCustomer.Name, "name", "", "full name")
	f.StringVar(&newCustomer.Email, "email", "", "email address")
	f.StringVar(&newCustomer.SSN, "ssn", "", "national identifier, e.g. 123-45-6789")
	f.StringVar(&newCustomer.CreditCard, "card", "", "card number, e.g. 4532-1234-5678-9012")
	f.StringVar(&newCustomer.Address, "address", "", "postal address")
	_ = customerAddCmd.MarkFlagRequired("name")
	_ = customerAddCmd.MarkFlagRequired("email")

	o := orderCreateCmd.Flags()
	o.StringArrayVar(&orderItems, "item", nil, `line item as "product:quantity:price" (repeatable)`)
	o.StringVar(&orderShipping, "shipping", "Standard", "shipping method")
	o.StringVar(&orderNotes, "notes", "", "order notes")
	o.Float64Var(&orderAmount, "amount", 0, "order total (defaults to the sum of the items)")
	o.StringVar(&orderPayment, "payment", "", "payment description")
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid customer id %q", raw)
	}
	return uint(id), nil
}

// parseItem reads "product:quantity:price". The product may itself contain
// colons; the last two fields are always quantity and price.
func parseItem(raw string) (models.OrderItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 {
		return models.OrderItem{}, fmt.Errorf("item %q: want product:quantity:price", raw)
	}
	n := len(parts)
	qty, err := strconv.Atoi(parts[n-2])
	if err != nil || qty < 0 {
		return models.OrderItem{}, fmt.Errorf("item %q: bad quantity", raw)
	}
	price, err := strconv.ParseFloat(parts[n-1], 64)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("item %q: bad price", raw)
	}
	return models.OrderItem{
		Product:  strings.Join(parts[:n-2], ":"),
		Quantity: qty,
		Price:    price,
	}, nil
}

func itemsTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.Price
	}
	return models.RoundCents(total)
}
