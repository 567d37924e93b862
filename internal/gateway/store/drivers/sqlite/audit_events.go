package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/coursekit/authgate/internal/gateway/domain"
)

type auditEventsRepo struct {
	db *sql.DB
}

func (r *auditEventsRepo) Append(ctx context.Context, e domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, kind, subject, username, client_kind, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Subject, e.Username, string(e.ClientKind), e.Detail, e.CreatedAt.UTC(),
	)
	return err
}

func (r *auditEventsRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, subject, username, client_kind, detail, created_at
		FROM audit_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *auditEventsRepo) ListBySubject(ctx context.Context, subject string, limit int) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, subject, username, client_kind, detail, created_at
		FROM audit_events
		WHERE subject = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, subject, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *auditEventsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_events WHERE created_at < ?`, cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]domain.AuditEvent, error) {
	var events []domain.AuditEvent
	for rows.Next() {
		var (
			e          domain.AuditEvent
			kind       string
			clientKind string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Subject, &e.Username, &clientKind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.AuditKind(kind)
		e.ClientKind = domain.ClientKind(clientKind)
		events = append(events, e)
	}
	return events, rows.Err()
}
