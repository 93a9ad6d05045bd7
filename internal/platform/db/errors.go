package db

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Unreachable reports whether err is a connection-level failure: the store
// could not be dialed, the connection dropped, or the attempt timed out.
// Query-level failures (bad SQL, constraint violations) do not count.
// Repositories map unreachable errors onto a retryable sentinel so clients
// know to try again rather than treating the failure as permanent.
func Unreachable(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
