// Package common defines shared sentinel errors and small helpers used
// across the service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors.
	ErrorMissingParameter = errors.New("missing parameter")
	ErrorInvalidPayload   = errors.New("invalid payload")
	ErrorInvalidParent    = errors.New("invalid parent")

	// Auth errors.
	ErrorMalformedCredentials = errors.New("malformed credentials")
	ErrorUnauthorized         = errors.New("unauthorized")
	ErrorForbidden            = errors.New("forbidden")

	// Infrastructure errors. ErrorUnavailable is the only kind a caller may
	// safely retry.
	ErrorUnavailable = errors.New("unavailable")
	ErrorInternal    = errors.New("internal error")
)
