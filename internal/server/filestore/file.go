// Package filestore persists a whole collection as one YAML document.
//
// A File is loaded once at startup and rewritten in full after every
// mutation (write-through). It has no write-ahead log and does not write
// through a temporary file, so a crash in the middle of Save can leave a
// truncated document behind; optional Backup sinks keep a copy of the
// previous contents to recover from.
//
// File does no locking. Callers own the in-memory collection and must
// serialize Load and Save themselves.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/filex"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"gopkg.in/yaml.v3"
)

// Backup receives the previous contents of a store file before it is
// overwritten. name is the base name of the file, at the time of the save.
type Backup interface {
	Backup(ctx context.Context, name string, data []byte, at time.Time) error
}

// Options configure a File.
type Options struct {
	Backups []Backup
	Logger  logging.Logger
	// CreateMissing makes Load create an absent file empty instead of
	// failing.
	CreateMissing bool
	// Now is used for backup timestamps. Defaults to time.Now.
	Now func() time.Time
}

// File is the on-disk representation of a []T.
type File[T any] struct {
	path          string
	backups       []Backup
	logger        logging.Logger
	now           func() time.Time
	createMissing bool
}

func New[T any](path string, opts Options) *File[T] {
	f := &File[T]{
		path:          path,
		backups:       opts.Backups,
		logger:        opts.Logger,
		now:           opts.Now,
		createMissing: opts.CreateMissing,
	}
	if f.logger == nil {
		f.logger = logging.Discard()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

func (f *File[T]) Path() string {
	return f.path
}

// Load reads the whole collection. Any read or decode failure, a missing
// file included, is returned and must be treated as fatal by the caller.
// With CreateMissing an absent file is created empty instead.
func (f *File[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) && f.createMissing {
		if err := filex.EnsureParentDir(f.path); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		if err := os.WriteFile(f.path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("create %s: %w", f.path, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var items []T
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return items, nil
}

// Save replaces the file contents with items. Backups run first; their
// failures are logged and never prevent the write.
func (f *File[T]) Save(ctx context.Context, items []T) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	f.backup(ctx)

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

func (f *File[T]) backup(ctx context.Context) {
	if len(f.backups) == 0 {
		return
	}

	prev, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn(ctx, "backup skipped: cannot read current file", "path", f.path, "error", err)
		}
		return
	}

	at := f.now()
	name := filepath.Base(f.path)
	for _, b := range f.backups {
		if err := b.Backup(ctx, name, prev, at); err != nil {
			f.logger.Warn(ctx, "backup failed", "path", f.path, "error", err)
		}
	}
}
