package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// AppendAuditEvent records an operational audit event.
func (s *Store) AppendAuditEvent(ctx context.Context, event storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("audit event id is required")
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = s.clock()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO audit_events (
    id, event_name, severity, entity_kind, entity_id, detail, timestamp
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.EventName, event.Severity, event.EntityKind,
		event.EntityID, event.Detail, toMillis(timestamp))
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the audit trail for an entity, oldest first.
func (s *Store) ListAuditEvents(ctx context.Context, entityKind, entityID string) ([]storage.AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, event_name, severity, entity_kind, entity_id, detail, timestamp
FROM audit_events
WHERE entity_kind = ? AND entity_id = ?
ORDER BY timestamp ASC, id ASC`, entityKind, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []storage.AuditEvent
	for rows.Next() {
		var event storage.AuditEvent
		var timestamp int64
		err := rows.Scan(&event.ID, &event.EventName, &event.Severity,
			&event.EntityKind, &event.EntityID, &event.Detail, &timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Timestamp = fromMillis(timestamp)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
