package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
)

// ErrNoConnection is returned by Get after the dial/probe budget is exhausted.
// It marks the connection as unavailable for this call only; the next Get
// starts a fresh attempt sequence.
var ErrNoConnection = errors.New("no database connection available")

// ConnConfig carries the dial parameters. Keepalive probes keep long-idle
// dashboard sessions from silently losing their connection to the store.
type ConnConfig struct {
	URL               string
	ConnectTimeout    time.Duration
	KeepaliveIdle     time.Duration
	KeepaliveInterval time.Duration
	KeepaliveCount    int
}

// dbconn is the slice of *pgx.Conn the manager and executor need. Narrow on
// purpose: tests substitute fakes, and nothing outside this package ever sees
// the connection.
type dbconn interface {
	Ping(ctx context.Context) error
	IsClosed() bool
	Close(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type dialFunc func(ctx context.Context) (dbconn, error)

// ConnManager owns at most one physical connection, established lazily and
// replaced wholesale after any failure. Sessions run in auto-commit mode
// (pgx's default); nothing in the analytics layer opens explicit transactions.
//
// All state is mutex-guarded so the single-connection invariant holds under
// concurrent callers; callers borrow the connection only for the duration of
// one statement.
type ConnManager struct {
	dial   dialFunc
	policy RetryPolicy
	clock  clockwork.Clock
	logger *slog.Logger

	mu   sync.Mutex
	conn dbconn
}

// NewConnManager builds a manager dialing with cfg. The URL is parsed eagerly
// so misconfiguration fails at startup, not on first query.
func NewConnManager(cfg ConnConfig, policy RetryPolicy, logger *slog.Logger) (*ConnManager, error) {
	dial, err := pgDialer(cfg)
	if err != nil {
		return nil, err
	}
	return &ConnManager{
		dial:   dial,
		policy: policy.normalized(),
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}, nil
}

// pgDialer builds the dial function from config: connect timeout plus TCP
// keepalive so half-dead sockets are detected by the kernel rather than by a
// hung query.
func pgDialer(cfg ConnConfig) (dialFunc, error) {
	pgCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	pgCfg.ConnectTimeout = cfg.ConnectTimeout

	dialer := &net.Dialer{
		Timeout: cfg.ConnectTimeout,
		KeepAliveConfig: net.KeepAliveConfig{
			Enable:   true,
			Idle:     cfg.KeepaliveIdle,
			Interval: cfg.KeepaliveInterval,
			Count:    cfg.KeepaliveCount,
		},
	}
	pgCfg.DialFunc = dialer.DialContext

	return func(ctx context.Context) (dbconn, error) {
		conn, err := pgx.ConnectConfig(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, nil
}

// Get returns a verified-live connection, dialing or re-dialing as needed.
// Every borrow is preceded by a liveness probe; a stale connection is never
// handed out. Dial and probe failures are retried up to the policy ceiling
// with the policy backoff in between, and after exhaustion Get returns
// ErrNoConnection rather than failing the process. The caller must not retain
// the connection across calls.
func (m *ConnManager) Get(ctx context.Context) (dbconn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= m.policy.MaxAttempts; attempt++ {
		if m.conn == nil || m.conn.IsClosed() {
			conn, err := m.dial(ctx)
			if err != nil {
				lastErr = err
				m.logger.Warn("database connect failed",
					slog.Int("attempt", attempt),
					slog.Int("max_attempts", m.policy.MaxAttempts),
					slog.String("error", err.Error()),
				)
				if attempt < m.policy.MaxAttempts {
					if werr := m.policy.wait(ctx, m.clock); werr != nil {
						return nil, werr
					}
				}
				continue
			}
			m.conn = conn
			m.logger.Info("database connected", slog.Int("attempt", attempt))
		}

		if err := m.conn.Ping(ctx); err != nil {
			lastErr = err
			m.logger.Warn("connection probe failed, discarding connection",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			m.closeLocked(ctx)
			if attempt < m.policy.MaxAttempts {
				if werr := m.policy.wait(ctx, m.clock); werr != nil {
					return nil, werr
				}
			}
			continue
		}

		return m.conn, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrNoConnection, m.policy.MaxAttempts, lastErr)
}

// Close tears down the held connection if any. Idempotent and best-effort:
// close failures are logged, never returned.
func (m *ConnManager) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(ctx)
}

func (m *ConnManager) closeLocked(ctx context.Context) {
	if m.conn == nil {
		return
	}
	if err := m.conn.Close(ctx); err != nil {
		m.logger.Debug("closing connection", slog.String("error", err.Error()))
	}
	m.conn = nil
}
