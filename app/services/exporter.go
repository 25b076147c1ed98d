package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/pkg/storage"
)

// CustomerExport is the document written by Exporter.
type CustomerExport struct {
	Customer   models.CustomerSummary `json:"customer"`
	Orders     []models.Order         `json:"orders"`
	ExportedAt time.Time              `json:"exported_at"`
}

// Exporter writes a customer's summary and order history to a storage disk.
type Exporter struct {
	repo *repositories.CustomerRepository
	disk storage.Disk
}

func NewExporter(repo *repositories.CustomerRepository, disk storage.Disk) *Exporter {
	return &Exporter{repo: repo, disk: disk}
}

// ExportPath is where a customer's export is stored on the disk.
func ExportPath(customerID uint) string {
	return fmt.Sprintf("exports/customer-%d.json", customerID)
}

// Export writes the document and returns its path. Unknown customers yield
// repositories.ErrCustomerNotFound.
func (e *Exporter) Export(ctx context.Context, customerID uint) (string, error) {
	summary, err := e.repo.FindWithTotals(ctx, customerID)
	if err != nil {
		return "", err
	}
	orders, err := e.repo.OrderHistory(ctx, customerID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(CustomerExport{
		Customer:   summary,
		Orders:     orders,
		ExportedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode customer %d: %w", customerID, err)
	}

	path := ExportPath(customerID)
	if err := e.disk.Put(ctx, path, data); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
