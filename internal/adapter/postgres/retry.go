package postgres

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// RetryPolicy bounds both the reconnect loop in ConnManager and the re-query
// loop in Executor. The two layers deliberately share one policy: connection
// retry answers "is the socket alive", query retry answers "did this statement
// transiently fail", and tuning them separately has never been needed.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy matches the long-standing production values.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	return p
}

// wait blocks for the backoff interval or until ctx is done, whichever comes
// first. Returns the context error on cancellation.
func (p RetryPolicy) wait(ctx context.Context, clock clockwork.Clock) error {
	timer := clock.NewTimer(p.Backoff)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
