// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by a unique email. PasswordHash holds a
// one-way bcrypt digest and is never serialized to clients.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
