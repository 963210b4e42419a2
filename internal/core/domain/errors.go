package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a query could not produce data.
type FailureKind string

const (
	// FailureUnavailable means no live database connection could be obtained
	// within the retry budget.
	FailureUnavailable FailureKind = "unavailable"

	// FailureTransient means the statement kept failing with recoverable
	// driver errors until the retry budget ran out.
	FailureTransient FailureKind = "transient"

	// FailureNonRetryable means the statement itself is at fault (syntax
	// error, unknown relation, type mismatch); retrying would not help.
	FailureNonRetryable FailureKind = "non_retryable"
)

// QueryError is the typed failure surfaced alongside an empty Table.
// Individual transient faults are absorbed by the retry loop, so a QueryError
// that reaches a caller is always meant for user-facing reporting.
type QueryError struct {
	Kind FailureKind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed (%s): %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Temporary reports whether the failure is expected to clear on its own,
// as opposed to a defective statement.
func (e *QueryError) Temporary() bool { return e.Kind != FailureNonRetryable }

// FailureKindOf extracts the kind from err, or "" if err carries no QueryError.
func FailureKindOf(err error) FailureKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// ErrUnknownPeriod is returned when a caller asks for a reporting period the
// analytics catalog does not know how to bucket.
var ErrUnknownPeriod = errors.New("unknown period")
