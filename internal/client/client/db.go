package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/dmitrijs2005/recipebook/internal/client/migrations"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/recipes"
	"github.com/dmitrijs2005/recipebook/internal/dbx"
	"github.com/dmitrijs2005/recipebook/internal/filex"
)

type Repositories struct {
	Metadata metadata.Repository
	Recipes  recipes.Repository
}

func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Recipes:  recipes.NewSQLiteRepository(db),
	}
}

// RunMigrations applies the embedded migrations. goose stays silent so
// nothing lands in the interactive terminal.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it. A single
// connection serializes all writes.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return db, nil
}
