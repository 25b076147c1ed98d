package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
func Connect(ctx context.Context) {
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	var s3d Disk
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk(ctx)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			s3d = d
		}
	}

	managerMu.Lock()
	defer managerMu.Unlock()
	defaultDisk = config.StorageDefault()
	disks["local"] = local
	if s3d != nil {
		disks["s3"] = s3d
	}
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDiskNotConfigured, name)
	}
	return d, nil
}

// Default returns the disk named by STORAGE_DISK.
func Default() (Disk, error) {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// RegisterDisk plugs in a Disk under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
