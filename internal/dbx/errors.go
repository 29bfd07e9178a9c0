package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"filesmanager/internal/common"
)

// WrapError translates a driver-level failure into the shared taxonomy.
// Timeouts, dropped connections, and failed connection attempts become
// common.ErrorUnavailable so callers can tell a store outage from a query
// bug; everything else stays a generic db error.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("db error: %w: %v", common.ErrorUnavailable, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
