// Package files provides a PostgreSQL-backed repository for file-metadata
// documents (the file registry's backing collection).
package files

import (
	"context"
	"database/sql"
	"errors"

	"filesmanager/internal/common"
	"filesmanager/internal/dbx"
	"filesmanager/internal/server/models"
)

// fileColumns is the metadata projection shared by queries that do not need
// the inline payload. ParentID and LocalPath map NULL to the empty string.
const fileColumns = `id, user_id, name, kind, COALESCE(parent_id::text, ''), is_published, COALESCE(local_path, ''), created_at`

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new file record and fills in the generated id and
// creation timestamp. An empty ParentID is stored as NULL (root).
func (r *PostgresRepository) Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	query := `
		INSERT INTO files (user_id, name, kind, parent_id, is_published, local_path, data)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Name, rec.Kind, rec.ParentID, rec.IsPublished, rec.LocalPath, rec.Data).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return rec, nil
}

// GetByID returns a file record including its inline payload, if any.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `
		SELECT ` + fileColumns + `, data FROM files
		WHERE id = $1
	`
	rec := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Kind, &rec.ParentID,
		&rec.IsPublished, &rec.LocalPath, &rec.CreatedAt, &rec.Data,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return rec, nil
}

// List returns a page of metadata records owned by userID, in creation
// order. See Repository for the parent filter semantics. Inline payloads
// are not loaded.
func (r *PostgresRepository) List(ctx context.Context, userID string, parent *string, offset, limit int) ([]*models.FileRecord, error) {
	query := `
		SELECT ` + fileColumns + ` FROM files
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	args := []any{userID, limit, offset}

	if parent != nil {
		if *parent == "" {
			query = `
		SELECT ` + fileColumns + ` FROM files
		WHERE user_id = $1 AND parent_id IS NULL
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
		} else {
			query = `
		SELECT ` + fileColumns + ` FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
			args = []any{userID, *parent, limit, offset}
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.FileRecord{}
	for rows.Next() {
		rec := &models.FileRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Name, &rec.Kind, &rec.ParentID,
			&rec.IsPublished, &rec.LocalPath, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublished updates the publish flag of a record owned by userID and
// returns the updated row. The ownership predicate is part of the UPDATE,
// so a missing record and a foreign record are indistinguishable:
// both return common.ErrorNotFound.
func (r *PostgresRepository) SetPublished(ctx context.Context, id, userID string, published bool) (*models.FileRecord, error) {
	query := `
		UPDATE files SET is_published = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + fileColumns + `
	`
	rec := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id, userID, published).Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Kind, &rec.ParentID,
		&rec.IsPublished, &rec.LocalPath, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return rec, nil
}

// Count returns the total number of file records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}
