package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"filesmanager/internal/common"
	"filesmanager/internal/dbx"
	"filesmanager/internal/server/models"
)

// PostgresCache stores sessions in the database so they survive process
// restarts. Expiry is enforced by the lookup predicate; expired rows are
// left behind and cleaned up lazily on overwrite.
type PostgresCache struct {
	db *sql.DB
}

// NewPostgresCache constructs a cache over the given database connection.
func NewPostgresCache(db *sql.DB) *PostgresCache {
	return &PostgresCache{db: db}
}

// Set inserts or refreshes a session entry with an expiry of now+ttl.
func (c *PostgresCache) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	query := `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token)
		DO UPDATE SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at
	`
	if _, err := c.db.ExecContext(ctx, query, sess.Token, sess.UserID, sess.ExpiresAt); err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

// Get resolves a token that has not expired yet. Expired and unknown tokens
// both return common.ErrorNotFound.
func (c *PostgresCache) Get(ctx context.Context, token string) (string, error) {
	query := `
		SELECT user_id FROM sessions
		WHERE token = $1 AND expires_at > now()
	`
	var sess models.Session
	if err := c.db.QueryRowContext(ctx, query, token).Scan(&sess.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", dbx.WrapError(err)
	}
	return sess.UserID, nil
}

// Delete revokes a session. Deleting an absent token is not an error.
func (c *PostgresCache) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM sessions
		WHERE token = $1
	`
	if _, err := c.db.ExecContext(ctx, query, token); err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

// Ping reports database reachability.
func (c *PostgresCache) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
