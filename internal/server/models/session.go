package models

import "time"

// Session maps an opaque bearer token to a user. Entries expire on their
// own after ExpiresAt and can be revoked early by logout.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
