package postgres

import (
	"errors"
	"io"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// transient reports whether a statement failure is worth a reconnect-and-retry.
// Server-side classification uses SQLSTATE classes: connection exceptions (08),
// operator intervention such as admin shutdown (57), and resource exhaustion
// (53) all clear on their own. Anything else from the server (syntax errors,
// unknown relations, type mismatches) is the statement's fault and retrying
// cannot help. Client-side network faults are always transient.
func transient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsOperatorIntervention(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code)
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}
