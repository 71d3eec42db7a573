package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/dbx"
)

// SQLiteRepository keeps the pairs in the metadata table. It works on a
// plain connection or inside dbx.WithTx.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get metadata %q: %w", key, err)
	}
	return value, nil
}

// Set inserts or overwrites key.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.exec(ctx, fmt.Sprintf("set metadata %q", key), `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
}

// Delete is a no-op for a missing key.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	return r.exec(ctx, fmt.Sprintf("delete metadata %q", key), `DELETE FROM metadata WHERE key = ?`, key)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return r.exec(ctx, "clear metadata", `DELETE FROM metadata`)
}

func (r *SQLiteRepository) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
