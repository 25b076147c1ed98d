// Package storage is a small filesystem abstraction used for exports.
//
// Two drivers are available:
//   - "local"  local filesystem (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2)
//
//	storage.Connect(ctx)
//	disk, err := storage.Default()
//	err = disk.Put(ctx, "exports/customer-1.json", data)
package storage

import (
	"context"
	"errors"
)

// ErrDiskNotConfigured is returned by Use for an unknown disk name.
var ErrDiskNotConfigured = errors.New("storage: disk is not configured")

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// Files lists files directly inside directory.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
