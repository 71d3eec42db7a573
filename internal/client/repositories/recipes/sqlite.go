package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, title, body, timestamp, owner, sync_status, last_sync_timestamp, sync_error_message`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Recipe) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, body, timestamp, owner, sync_status, last_sync_timestamp, sync_error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.Body, rec.Timestamp, rec.Owner, string(rec.SyncStatus),
		nullInt64(rec.LastSyncTimestamp), nullString(rec.SyncErrorMessage))
	if err != nil {
		return fmt.Errorf("failed to insert recipe %d: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select recipes: %w", err)
	}
	defer rows.Close()

	result := make([]models.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM recipes WHERE id = ?`, id)
	rec, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSyncStatus(ctx context.Context, id int64, status models.SyncStatus, lastSync *int64, errMsg *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recipes
		SET sync_status = ?, last_sync_timestamp = ?, sync_error_message = ?
		WHERE id = ?
	`, string(status), nullInt64(lastSync), nullString(errMsg), id)
	if err != nil {
		return fmt.Errorf("failed to update sync status of recipe %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update sync status of recipe %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) NextLocalID(ctx context.Context) (int64, error) {
	var last int64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(
			COALESCE((SELECT seq FROM sqlite_sequence WHERE name = 'recipes'), 0),
			COALESCE((SELECT MAX(id) FROM recipes), 0)
		)
	`).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to read max recipe id: %w", err)
	}
	return last + 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var (
		rec      models.Recipe
		status   string
		lastSync sql.NullInt64
		errMsg   sql.NullString
	)
	err := s.Scan(&rec.ID, &rec.Title, &rec.Body, &rec.Timestamp, &rec.Owner, &status, &lastSync, &errMsg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	rec.SyncStatus, err = models.ParseSyncStatus(status)
	if err != nil {
		return nil, fmt.Errorf("recipe %d: %w", rec.ID, err)
	}
	if lastSync.Valid {
		v := lastSync.Int64
		rec.LastSyncTimestamp = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		rec.SyncErrorMessage = &v
	}
	return &rec, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
