// Package seeders provides a registry of database seed functions.
//
// A seeder registers itself from init():
//
//	func init() {
//	    seeders.Register("demo_customers", SeedDemoCustomers)
//	}
//
// Then run via CLI: appaccess seed
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/appaccess/app/repositories"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, repo *repositories.CustomerRepository) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists registered seeders in registration order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Run executes the named seeders, or all of them when names is empty, in
// registration order. Unknown names are rejected before anything runs; a
// failing seeder stops the run.
func Run(ctx context.Context, repo *repositories.CustomerRepository, out io.Writer, names ...string) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	selected := current
	if len(names) > 0 {
		byName := make(map[string]seederEntry, len(current))
		for _, e := range current {
			byName[e.name] = e
		}
		selected = selected[:0:0]
		for _, n := range names {
			e, ok := byName[n]
			if !ok {
				return fmt.Errorf("seeder %q is not registered", n)
			}
			selected = append(selected, e)
		}
	}

	if len(selected) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range selected {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, repo); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
