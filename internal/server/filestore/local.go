package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout names backup copies; it sorts lexically in time order.
const TimestampLayout = "20060102T150405.000000000"

// LocalBackup writes <dir>/<name>.<timestamp>.bak next to the store file.
type LocalBackup struct {
	dir string
}

func NewLocalBackup(dir string) *LocalBackup {
	return &LocalBackup{dir: dir}
}

func (b *LocalBackup) Backup(ctx context.Context, name string, data []byte, at time.Time) error {
	path := filepath.Join(b.dir, fmt.Sprintf("%s.%s.bak", name, at.UTC().Format(TimestampLayout)))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	return nil
}
