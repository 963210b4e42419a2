package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fakes ---

type fakeConn struct {
	pingErr    error
	closed     bool
	pingCalls  int
	queryCalls int
	execCalls  int
	queryFn    func(sql string, args []any) (pgx.Rows, error)
	execFn     func(sql string, args []any) (pgconn.CommandTag, error)
}

func (c *fakeConn) Ping(context.Context) error {
	c.pingCalls++
	return c.pingErr
}

func (c *fakeConn) IsClosed() bool { return c.closed }

func (c *fakeConn) Close(context.Context) error {
	c.closed = true
	return nil
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.queryCalls++
	if c.queryFn != nil {
		return c.queryFn(sql, args)
	}
	return &fakeRows{}, nil
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execCalls++
	if c.execFn != nil {
		return c.execFn(sql, args)
	}
	return pgconn.CommandTag{}, nil
}

// fakeRows implements pgx.Rows over a fixed slice.
type fakeRows struct {
	cols []string
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(...any) error { return nil }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx-1], nil }

func (r *fakeRows) RawValues() [][]byte { return nil }

func (r *fakeRows) Conn() *pgx.Conn { return nil }

func newTestManager(dial dialFunc, policy RetryPolicy, clock clockwork.Clock) *ConnManager {
	return &ConnManager{
		dial:   dial,
		policy: policy.normalized(),
		clock:  clock,
		logger: testLogger(),
	}
}

// instant retries: full attempt budget, no waiting.
func instantPolicy() RetryPolicy { return RetryPolicy{MaxAttempts: 3, Backoff: 0} }

// --- tests ---

func TestConnManager_DialFailureExhaustsAttempts(t *testing.T) {
	dials := 0
	m := newTestManager(func(context.Context) (dbconn, error) {
		dials++
		return nil, errors.New("connection refused")
	}, instantPolicy(), clockwork.NewRealClock())

	conn, err := m.Get(context.Background())
	assert.Nil(t, conn)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.Equal(t, 3, dials, "one dial per attempt, then give up")

	// The failure is scoped to the call: the next Get starts a fresh budget.
	_, err = m.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.Equal(t, 6, dials)
}

func TestConnManager_ReusesHealthyConnection(t *testing.T) {
	dials := 0
	held := &fakeConn{}
	m := newTestManager(func(context.Context) (dbconn, error) {
		dials++
		return held, nil
	}, instantPolicy(), clockwork.NewRealClock())

	first, err := m.Get(context.Background())
	require.NoError(t, err)
	second, err := m.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first.(*fakeConn), second.(*fakeConn))
	assert.Equal(t, 1, dials, "healthy connection must be reused, not re-dialed")
	assert.Equal(t, 2, held.pingCalls, "every borrow is preceded by a probe")
}

func TestConnManager_ProbeFailureForcesRedial(t *testing.T) {
	stale := &fakeConn{}
	fresh := &fakeConn{}
	conns := []*fakeConn{stale, fresh}
	dials := 0
	m := newTestManager(func(context.Context) (dbconn, error) {
		c := conns[dials]
		dials++
		return c, nil
	}, instantPolicy(), clockwork.NewRealClock())

	got, err := m.Get(context.Background())
	require.NoError(t, err)
	require.Same(t, stale, got.(*fakeConn))

	// The connection dies between calls; the probe must catch it.
	stale.pingErr = errors.New("terminating connection due to administrator command")

	got, err = m.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, got.(*fakeConn), "stale connection must not be handed out")
	assert.True(t, stale.closed, "failed connection is discarded, not leaked")
	assert.Equal(t, 2, dials)
}

func TestConnManager_BackoffTiming(t *testing.T) {
	clock := clockwork.NewFakeClock()
	start := clock.Now()
	dials := 0
	m := newTestManager(func(context.Context) (dbconn, error) {
		dials++
		if dials < 3 {
			return nil, errors.New("connection refused")
		}
		return &fakeConn{}, nil
	}, RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}, clock)

	type result struct {
		conn dbconn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		c, err := m.Get(context.Background())
		done <- result{c, err}
	}()

	// Two failed dials, so exactly two backoff waits.
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	res := <-done
	require.NoError(t, res.err)
	require.NotNil(t, res.conn)
	assert.Equal(t, 3, dials)
	assert.Equal(t, 4*time.Second, clock.Since(start), "2s backoff after each of the two failures")
}

func TestConnManager_ContextCanceledDuringBackoff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	m := newTestManager(func(context.Context) (dbconn, error) {
		return nil, errors.New("connection refused")
	}, RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}, clock)

	done := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx)
		done <- err
	}()

	clock.BlockUntil(1)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnManager_CloseIsIdempotent(t *testing.T) {
	held := &fakeConn{}
	m := newTestManager(func(context.Context) (dbconn, error) {
		return held, nil
	}, instantPolicy(), clockwork.NewRealClock())

	_, err := m.Get(context.Background())
	require.NoError(t, err)

	ctx := context.Background()
	m.Close(ctx)
	m.Close(ctx)
	assert.True(t, held.closed)
}
