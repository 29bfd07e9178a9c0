// Package sessions implements the token → user mapping behind authenticated
// requests. Entries are ephemeral: they expire on their own after their TTL
// and can be revoked early on logout.
package sessions

import (
	"context"
	"time"
)

// Cache is the session store consumed by the auth layer.
//
// Get resolves a live token to a user id and returns common.ErrorNotFound
// for tokens that were never issued, already expired, or deleted. Delete is
// idempotent. Ping reports backend health for the status endpoint.
type Cache interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
