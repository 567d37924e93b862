package store

import (
	"context"
	"errors"
	"time"

	"github.com/coursekit/authgate/internal/gateway/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. The audit log is append-only, so there is no transactional
// surface here.
type Store interface {
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type AuditEvents interface {
	// Append inserts a new audit event (id is provided by the app via ULID).
	Append(ctx context.Context, e domain.AuditEvent) error

	// ListRecent returns the newest events first, up to limit.
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)

	// ListBySubject returns the newest events for one subject, up to limit.
	ListBySubject(ctx context.Context, subject string, limit int) ([]domain.AuditEvent, error)

	// DeleteOlderThan prunes events created before cutoff and reports how
	// many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
