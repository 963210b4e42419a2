package port

import (
	"context"
	"time"
)

// AuditEntry records one query-layer operation for the activity trail.
type AuditEntry struct {
	Actor       string // username, or "system" for unattended surfaces
	Surface     string // "http", "mcp", or "report"
	Operation   string // endpoint or tool name
	DurationMs  int
	RowCount    int
	FailureKind string // empty on success
}

// AuditRecord is the stored form of an entry.
type AuditRecord struct {
	ID          int64
	Actor       string
	Surface     string
	Operation   string
	DurationMs  int
	RowCount    int
	FailureKind string
	CreatedAt   time.Time
}

// AuditLogger accepts entries for asynchronous persistence.
type AuditLogger interface {
	// Log enqueues an entry for writing. Non-blocking.
	Log(entry AuditEntry)

	// Close flushes remaining entries and stops the background writer.
	Close()
}

// AuditRepository provides storage for audit entries.
type AuditRepository interface {
	// InsertBatch writes multiple entries in one operation.
	InsertBatch(ctx context.Context, entries []AuditEntry) error

	// Recent returns the newest records, newest first.
	Recent(ctx context.Context, limit int) ([]AuditRecord, error)
}
