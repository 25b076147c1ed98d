package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Order belongs to a Customer. The foreign key is declared on the schema and
// enforced by the database engine.
type Order struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"   json:"id"`
	CustomerID  uint         `gorm:"not null;index"             json:"customer_id"`
	Details     OrderDetails `gorm:"column:order_details"       json:"details"`
	TotalAmount float64      `gorm:"type:decimal(10,2)"         json:"total_amount"`
	PaymentInfo string       `gorm:"size:255"                   json:"payment_info"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false;default:CURRENT_TIMESTAMP" json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// NewOrder carries the fields supplied when an order is placed.
type NewOrder struct {
	CustomerID  uint         `json:"customer_id"`
	Details     OrderDetails `json:"details"`
	TotalAmount float64      `json:"total_amount"`
	PaymentInfo string       `json:"payment_info"`
}

// Order builds the row to insert.
func (n NewOrder) Order() Order {
	return Order{
		CustomerID:  n.CustomerID,
		Details:     n.Details,
		TotalAmount: RoundCents(n.TotalAmount),
		PaymentInfo: n.PaymentInfo,
	}
}

// OrderItem is one line of an order. Keys other than product, quantity and
// price are kept in Extra.
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return marshalWithExtra(plain(i), i.Extra)
}

func (i *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	var p plain
	extra, err := unmarshalWithExtra(data, &p, "product", "quantity", "price")
	if err != nil {
		return err
	}
	*i = OrderItem(p)
	i.Extra = extra
	return nil
}

// OrderDetails is the semi-structured order document. It is stored as JSON
// text and is not validated by the schema. Top-level keys other than items,
// shipping and notes are kept in Extra and written back unchanged.
type OrderDetails struct {
	Items    []OrderItem `json:"items"`
	Shipping string      `json:"shipping"`
	Notes    string      `json:"notes"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (d OrderDetails) MarshalJSON() ([]byte, error) {
	type plain OrderDetails
	return marshalWithExtra(plain(d), d.Extra)
}

func (d *OrderDetails) UnmarshalJSON(data []byte) error {
	type plain OrderDetails
	var p plain
	extra, err := unmarshalWithExtra(data, &p, "items", "shipping", "notes")
	if err != nil {
		return err
	}
	*d = OrderDetails(p)
	d.Extra = extra
	return nil
}

// marshalWithExtra encodes typed and merges in extra. Typed fields win on a
// key clash.
func marshalWithExtra(typed interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	merged := make(map[string]json.RawMessage, len(extra)+4)
	for k, v := range extra {
		merged[k] = v
	}
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// unmarshalWithExtra decodes data into typed and returns every key not in
// known. The json package matches field names case-insensitively, so known
// keys are dropped the same way.
func unmarshalWithExtra(data []byte, typed interface{}, known ...string) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k := range all {
		for _, name := range known {
			if strings.EqualFold(k, name) {
				delete(all, k)
				break
			}
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// Value encodes the document for storage.
func (d OrderDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("order details: encode: %w", err)
	}
	return string(b), nil
}

// Scan decodes a stored document. Drivers hand back either text or bytes.
func (d *OrderDetails) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = OrderDetails{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("order details: unsupported column type %T", src)
	}

	var out OrderDetails
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("order details: decode: %w", err)
	}
	*d = out
	return nil
}

// GormDBDataType picks the document column type for each dialect.
func (OrderDetails) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver":
		return "NVARCHAR(MAX)"
	default:
		return "TEXT"
	}
}

// ItemCount is the number of lines on the order.
func (d OrderDetails) ItemCount() int { return len(d.Items) }

// RoundCents rounds an amount to the DECIMAL(10,2) precision of the column.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
