package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"filesmanager/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error(ctx, "encoding response", "error", err)
	}
}

// writeError maps a service error onto an HTTP status and a terse message.
// Anything outside the shared taxonomy is logged and masked as a 500.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, common.ErrorMissingParameter),
		errors.Is(err, common.ErrorInvalidPayload):
		status, msg = http.StatusBadRequest, userMessage(err)
	case errors.Is(err, common.ErrorInvalidParent):
		status, msg = http.StatusBadRequest, "Parent not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusBadRequest, "Already exist"
	case errors.Is(err, common.ErrorMalformedCredentials),
		errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorUnavailable):
		status, msg = http.StatusServiceUnavailable, "Service unavailable"
	default:
		s.log.Error(ctx, "request failed", "error", err)
		status, msg = http.StatusInternalServerError, "Internal server error"
	}

	s.writeJSON(ctx, w, status, errorResponse{Error: msg})
}

// userMessage picks a short client-facing message for validation errors
// without leaking wrapped detail.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorMissingParameter):
		if msg := firstWrapPrefix(err); msg != "" {
			return msg
		}
		return "Missing parameter"
	case errors.Is(err, common.ErrorInvalidPayload):
		return "Invalid payload"
	}
	return "Bad request"
}

// firstWrapPrefix turns wrap chains like "missing email: missing parameter"
// into "Missing email".
func firstWrapPrefix(err error) string {
	full := err.Error()
	for i := 0; i < len(full); i++ {
		if full[i] == ':' {
			head := full[:i]
			if head == "" {
				return ""
			}
			b := []byte(head)
			if b[0] >= 'a' && b[0] <= 'z' {
				b[0] -= 'a' - 'A'
			}
			return string(b)
		}
	}
	return ""
}
