// Package migration creates the application's tables.
//
// Table definitions register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("create_customers_table", "customers", &CreateCustomersTable{})
//	}
//
// Runner.Run applies every registered definition in name order. Each Up
// creates its table only when absent and never alters one that exists; there
// is no tracking table and no rollback, so running it against an existing
// schema is a no-op.
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/appaccess/pkg/logger"
)

// Migration is a table definition.
type Migration interface {
	// Up creates the table if it is absent.
	Up(db *gorm.DB) error
}

type registeredMigration struct {
	name  string
	table string
	m     Migration
}

var (
	mu       sync.Mutex
	registry []registeredMigration
)

// Register adds a table definition. Names sort into run order, so prefix
// them when a table depends on another.
func Register(name, table string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, registeredMigration{name: name, table: table, m: m})
}

func registered() []registeredMigration {
	mu.Lock()
	out := append([]registeredMigration(nil), registry...)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNoMigrations is returned when Run is called but nothing is registered.
var ErrNoMigrations = errors.New("migration: no table definitions registered")

// Runner applies table definitions.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by the provided gorm.DB.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// Run applies every registered definition.
func (r *Runner) Run(ctx context.Context) error {
	defs := registered()
	if len(defs) == 0 {
		return ErrNoMigrations
	}

	db := r.db.WithContext(ctx)
	for _, reg := range defs {
		logger.Debug("migration: ensuring table", "name", reg.name, "table", reg.table)
		if err := reg.m.Up(db); err != nil {
			return fmt.Errorf("migration: %s: %w", reg.name, err)
		}
	}

	logger.Info("migration: schema ready", "tables", len(defs))
	return nil
}

// TableStatus reports whether one registered table exists.
type TableStatus struct {
	Name   string
	Table  string
	Exists bool
}

// Status lists every registered definition with whether its table exists.
func (r *Runner) Status(ctx context.Context) []TableStatus {
	migrator := r.db.WithContext(ctx).Migrator()

	var out []TableStatus
	for _, reg := range registered() {
		out = append(out, TableStatus{
			Name:   reg.name,
			Table:  reg.table,
			Exists: migrator.HasTable(reg.table),
		})
	}
	return out
}
