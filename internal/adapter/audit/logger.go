// Package audit persists the query activity trail without slowing down the
// request paths that produce it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/logicmart/analytics/internal/core/port"
)

const (
	batchSize    = 50
	flushEvery   = 5 * time.Second
	queueDepth   = 1000
	flushTimeout = 10 * time.Second
)

// BatchLogger implements port.AuditLogger with a buffered channel and a
// background goroutine that writes entries to the repository in batches.
// A batch goes out when it reaches batchSize entries or when flushEvery
// elapses, whichever comes first.
type BatchLogger struct {
	repo   port.AuditRepository
	clock  clockwork.Clock
	ch     chan port.AuditEntry
	done   chan struct{}
	logger *slog.Logger
}

// NewBatchLogger starts the background writer.
func NewBatchLogger(repo port.AuditRepository, logger *slog.Logger) *BatchLogger {
	return newBatchLogger(repo, logger, clockwork.NewRealClock())
}

func newBatchLogger(repo port.AuditRepository, logger *slog.Logger, clock clockwork.Clock) *BatchLogger {
	l := &BatchLogger{
		repo:   repo,
		clock:  clock,
		ch:     make(chan port.AuditEntry, queueDepth),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

// Log enqueues an entry. Non-blocking; when the queue is full the entry is
// dropped rather than stalling the caller.
func (l *BatchLogger) Log(entry port.AuditEntry) {
	select {
	case l.ch <- entry:
	default:
		l.logger.Warn("audit queue full, dropping entry",
			slog.String("surface", entry.Surface),
			slog.String("operation", entry.Operation),
		)
	}
}

// Close flushes whatever is buffered and stops the writer. Log must not be
// called after Close.
func (l *BatchLogger) Close() {
	close(l.ch)
	<-l.done
}

func (l *BatchLogger) run() {
	defer close(l.done)

	batch := make([]port.AuditEntry, 0, batchSize)
	ticker := l.clock.NewTicker(flushEvery)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-l.ch:
			if !ok {
				if len(batch) > 0 {
					l.flush(batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.Chan():
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (l *BatchLogger) flush(batch []port.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := l.repo.InsertBatch(ctx, batch); err != nil {
		l.logger.Error("flushing audit batch",
			slog.Int("count", len(batch)),
			slog.String("error", err.Error()),
		)
	}
}
