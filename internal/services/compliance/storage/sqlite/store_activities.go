package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// PutActivity inserts or replaces a catalog activity.
func (s *Store) PutActivity(ctx context.Context, a activity.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("activity id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO activities (
    id, activity_type, title, duration_minutes, status, tags,
    has_assessment, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Type.String(), a.Title, a.DurationMinutes, a.Status.String(),
		encodeStringList(a.Tags), boolToInt(a.HasAssessment),
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put activity: %w", err)
	}
	return nil
}

// GetActivity fetches a catalog activity by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (activity.Activity, error) {
	if err := ctx.Err(); err != nil {
		return activity.Activity{}, err
	}
	if s == nil || s.sqlDB == nil {
		return activity.Activity{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, activity_type, title, duration_minutes, status, tags,
       has_assessment, created_at, updated_at
FROM activities WHERE id = ?`, id)

	var notes []listRecovery
	a, err := scanActivity(row, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return activity.Activity{}, storage.ErrNotFound
		}
		return activity.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	s.reportListRecoveries(ctx, notes)
	return a, nil
}

// ListPublishedActivities returns every published activity in catalog order.
func (s *Store) ListPublishedActivities(ctx context.Context) ([]activity.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, activity_type, title, duration_minutes, status, tags,
       has_assessment, created_at, updated_at
FROM activities
WHERE status = ?
ORDER BY created_at ASC, id ASC`, activity.PublishStatusPublished.String())
	if err != nil {
		return nil, fmt.Errorf("list published activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	var notes []listRecovery
	for rows.Next() {
		a, err := scanActivity(rows, &notes)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	s.reportListRecoveries(ctx, notes)
	return activities, nil
}

func scanActivity(row rowScanner, notes *[]listRecovery) (activity.Activity, error) {
	var a activity.Activity
	var activityType, status, tags string
	var hasAssessment int
	var createdAt, updatedAt int64
	err := row.Scan(&a.ID, &activityType, &a.Title, &a.DurationMinutes,
		&status, &tags, &hasAssessment, &createdAt, &updatedAt)
	if err != nil {
		return activity.Activity{}, err
	}
	a.Type = activity.TypeFromString(activityType)
	a.Status = activity.PublishStatusFromString(status)
	a.Tags = decodeListOrNote(tags, "activity", a.ID, "tags", notes)
	a.HasAssessment = hasAssessment != 0
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

// PutCreditMapping inserts or replaces a credit mapping row.
func (s *Store) PutCreditMapping(ctx context.Context, m activity.CreditMapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("credit mapping id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO credit_mappings (
    id, activity_id, country, state_provinces, exclusions, credential_id,
    credit_category, credit_amount, credit_unit, structured, validation_method
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ActivityID, m.Country, encodeStringList(m.StateProvinces),
		encodeStringList(m.Exclusions), m.CredentialID, m.CreditCategory,
		m.CreditAmount, m.CreditUnit, boolToInt(m.Structured), m.ValidationMethod)
	if err != nil {
		return fmt.Errorf("put credit mapping: %w", err)
	}
	return nil
}

// ListMappingsByActivity returns every credit mapping for an activity.
// Malformed jurisdiction lists in stored rows read back as empty rather than
// failing the whole read; each recovery is logged and audited.
func (s *Store) ListMappingsByActivity(ctx context.Context, activityID string) ([]activity.CreditMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, activity_id, country, state_provinces, exclusions, credential_id,
       credit_category, credit_amount, credit_unit, structured, validation_method
FROM credit_mappings
WHERE activity_id = ?
ORDER BY id ASC`, activityID)
	if err != nil {
		return nil, fmt.Errorf("list credit mappings: %w", err)
	}
	defer rows.Close()

	var mappings []activity.CreditMapping
	var notes []listRecovery
	for rows.Next() {
		var m activity.CreditMapping
		var stateProvinces, exclusions string
		var structured int
		err := rows.Scan(&m.ID, &m.ActivityID, &m.Country, &stateProvinces,
			&exclusions, &m.CredentialID, &m.CreditCategory, &m.CreditAmount,
			&m.CreditUnit, &structured, &m.ValidationMethod)
		if err != nil {
			return nil, fmt.Errorf("scan credit mapping: %w", err)
		}
		m.StateProvinces = decodeListOrNote(stateProvinces, "credit_mapping", m.ID, "state_provinces", &notes)
		m.Exclusions = decodeListOrNote(exclusions, "credit_mapping", m.ID, "exclusions", &notes)
		m.Structured = structured != 0
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit mappings: %w", err)
	}
	s.reportListRecoveries(ctx, notes)
	return mappings, nil
}

// listRecovery marks a malformed stored list that was read back as empty.
type listRecovery struct {
	entityKind string
	entityID   string
	column     string
}

// decodeListOrNote decodes a stored JSON string list. Malformed payloads are
// noted for the caller to report once its query has finished reading.
func decodeListOrNote(raw, entityKind, entityID, column string, notes *[]listRecovery) []string {
	values, ok := decodeStringList(raw)
	if !ok {
		*notes = append(*notes, listRecovery{entityKind: entityKind, entityID: entityID, column: column})
		return nil
	}
	return values
}

// reportListRecoveries logs each recovery and appends it to the audit trail.
// Called after the originating rows are drained so the audit write never
// races an open read.
func (s *Store) reportListRecoveries(ctx context.Context, notes []listRecovery) {
	for _, n := range notes {
		log.Printf("malformed %s list on %s %s, treating as empty", n.column, n.entityKind, n.entityID)
		s.audit.Emit(ctx, audit.EventMalformedStoredData, audit.SeverityWarning,
			n.entityKind, n.entityID, fmt.Sprintf("malformed %s list read back as empty", n.column))
	}
}
