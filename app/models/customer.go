package models

import (
	"time"
	"unicode"
)

// Customer is a registered customer. Email is not unique; duplicates are
// accepted by the schema.
type Customer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name       string    `gorm:"size:255;not null"         json:"name"`
	Email      string    `gorm:"size:255;not null"         json:"email"`
	SSN        string    `gorm:"column:ssn;size:11;not null" json:"ssn"`
	CreditCard string    `gorm:"size:19;not null"          json:"credit_card"`
	Address    string    `gorm:"type:text"                 json:"address"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Redacted returns a copy safe to hand to sinks outside the database: the
// SSN and card number keep only their last four digits.
func (c Customer) Redacted() Customer {
	c.SSN = maskDigits(c.SSN, 4)
	c.CreditCard = maskDigits(c.CreditCard, 4)
	return c
}

// maskDigits replaces every digit but the last keep with '*'. Separators
// stay in place.
func maskDigits(s string, keep int) string {
	r := []rune(s)
	for i := len(r) - 1; i >= 0; i-- {
		if !unicode.IsDigit(r[i]) {
			continue
		}
		if keep > 0 {
			keep--
			continue
		}
		r[i] = '*'
	}
	return string(r)
}

// NewCustomer carries the fields supplied at registration.
type NewCustomer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	SSN        string `json:"ssn"`
	CreditCard string `json:"credit_card"`
	Address    string `json:"address"`
}

// Customer builds the row to insert.
func (n NewCustomer) Customer() Customer {
	return Customer{
		Name:       n.Name,
		Email:      n.Email,
		SSN:        n.SSN,
		CreditCard: n.CreditCard,
		Address:    n.Address,
	}
}

// CustomerSummary is a customer row augmented with order aggregates.
type CustomerSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SSN         string    `gorm:"column:ssn" json:"ssn"`
	CreditCard  string    `json:"credit_card"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	TotalOrders int64     `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
}

// Summary pairs the customer row with its order aggregates.
func (c Customer) Summary(totalOrders int64, totalSpent float64) CustomerSummary {
	return CustomerSummary{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		SSN:         c.SSN,
		CreditCard:  c.CreditCard,
		Address:     c.Address,
		CreatedAt:   c.CreatedAt,
		TotalOrders: totalOrders,
		TotalSpent:  totalSpent,
	}
}

// CustomerMatch is the lightweight record returned by email search.
type CustomerMatch struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
