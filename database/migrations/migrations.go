// Package migrations holds the table definitions for customers and orders.
// Each file registers itself with pkg/migration from init(); importing this
// package (directly or through app/repositories) makes them available to
// migration.Runner.
package migrations
