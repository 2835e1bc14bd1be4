package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/domain/completion"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// PutLoggedActivity inserts or replaces a logged activity record.
func (s *Store) PutLoggedActivity(ctx context.Context, l activity.LoggedActivity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("logged activity id is required")
	}

	var date sql.NullInt64
	if !l.Date.IsZero() {
		date = sql.NullInt64{Int64: toMillis(l.Date), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO logged_activities (
    id, professional_id, activity_id, title, provider, activity_type,
    hours, date, status, category, source, evidence_tier, notes,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ProfessionalID, l.ActivityID, l.Title, l.Provider,
		l.ActivityType, l.Hours, date, l.Status.String(), l.Category,
		l.Source.String(), l.EvidenceTier.String(), l.Notes,
		toMillis(l.CreatedAt), toMillis(l.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put logged activity: %w", err)
	}
	return nil
}

// GetLoggedActivity fetches a logged activity by ID.
func (s *Store) GetLoggedActivity(ctx context.Context, id string) (activity.LoggedActivity, error) {
	if err := ctx.Err(); err != nil {
		return activity.LoggedActivity{}, err
	}
	if s == nil || s.sqlDB == nil {
		return activity.LoggedActivity{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, professional_id, activity_id, title, provider, activity_type,
       hours, date, status, category, source, evidence_tier, notes,
       created_at, updated_at
FROM logged_activities WHERE id = ?`, id)

	l, err := scanLoggedActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return activity.LoggedActivity{}, storage.ErrNotFound
		}
		return activity.LoggedActivity{}, fmt.Errorf("get logged activity: %w", err)
	}
	return l, nil
}

// DeleteLoggedActivity removes a logged activity and its dependent rows.
// Platform-generated records are audit evidence and are refused; records
// with an issued certificate are likewise retained.
func (s *Store) DeleteLoggedActivity(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT source FROM logged_activities WHERE id = ?`, id)
		var source string
		if err := row.Scan(&source); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("read logged activity source: %w", err)
		}
		if activity.SourceFromString(source) == activity.SourcePlatform {
			return activity.ErrLoggedImmutable
		}

		var certCount int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM certificates WHERE logged_activity_id = ?`,
			id).Scan(&certCount)
		if err != nil {
			return fmt.Errorf("check certificate: %w", err)
		}
		if certCount > 0 {
			return activity.ErrLoggedImmutable
		}

		for _, table := range []string{"allocations", "completion_rules", "evidence_files"} {
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE logged_activity_id = ?`, table), id)
			if err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM logged_activities WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete logged activity: %w", err)
		}
		return nil
	})
}

// ListCompletedByProfessional returns a professional's completed records,
// oldest first.
func (s *Store) ListCompletedByProfessional(ctx context.Context, professionalID string) ([]activity.LoggedActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, professional_id, activity_id, title, provider, activity_type,
       hours, date, status, category, source, evidence_tier, notes,
       created_at, updated_at
FROM logged_activities
WHERE professional_id = ? AND status = ?
ORDER BY created_at ASC, id ASC`,
		professionalID, activity.LoggedStatusCompleted.String())
	if err != nil {
		return nil, fmt.Errorf("list completed records: %w", err)
	}
	defer rows.Close()

	var records []activity.LoggedActivity
	for rows.Next() {
		l, err := scanLoggedActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan logged activity: %w", err)
		}
		records = append(records, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logged activities: %w", err)
	}
	return records, nil
}

func scanLoggedActivity(row rowScanner) (activity.LoggedActivity, error) {
	var l activity.LoggedActivity
	var date sql.NullInt64
	var status, source, tier string
	var createdAt, updatedAt int64
	err := row.Scan(&l.ID, &l.ProfessionalID, &l.ActivityID, &l.Title,
		&l.Provider, &l.ActivityType, &l.Hours, &date, &status, &l.Category,
		&source, &tier, &l.Notes, &createdAt, &updatedAt)
	if err != nil {
		return activity.LoggedActivity{}, err
	}
	if date.Valid {
		l.Date = fromMillis(date.Int64)
	}
	l.Status = activity.LoggedStatusFromString(status)
	l.Source = activity.SourceFromString(source)
	l.EvidenceTier = activity.EvidenceTierFromString(tier)
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return l, nil
}

// PutCompletionRule inserts or replaces a completion rule.
func (s *Store) PutCompletionRule(ctx context.Context, rule completion.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rule.ID) == "" {
		return fmt.Errorf("completion rule id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO completion_rules (id, logged_activity_id, rule_type, config)
VALUES (?, ?, ?, ?)`,
		rule.ID, rule.LoggedActivityID, rule.Type.String(),
		completion.EncodeConfig(rule.Config))
	if err != nil {
		return fmt.Errorf("put completion rule: %w", err)
	}
	return nil
}

// ListCompletionRules returns the completion rules attached to a logged
// activity. Rule configs are parsed leniently; unreadable fields fall back
// to zero values.
func (s *Store) ListCompletionRules(ctx context.Context, loggedActivityID string) ([]completion.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, logged_activity_id, rule_type, config
FROM completion_rules
WHERE logged_activity_id = ?
ORDER BY id ASC`, loggedActivityID)
	if err != nil {
		return nil, fmt.Errorf("list completion rules: %w", err)
	}
	defer rows.Close()

	var rules []completion.Rule
	for rows.Next() {
		var rule completion.Rule
		var ruleType, config string
		if err := rows.Scan(&rule.ID, &rule.LoggedActivityID, &ruleType, &config); err != nil {
			return nil, fmt.Errorf("scan completion rule: %w", err)
		}
		rule.Type = completion.RuleTypeFromString(ruleType)
		rule.Config = completion.ParseConfig(rule.Type, config)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion rules: %w", err)
	}
	return rules, nil
}

// PutAssessmentAttempt inserts or replaces an assessment attempt.
func (s *Store) PutAssessmentAttempt(ctx context.Context, a storage.AssessmentAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("assessment attempt id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO assessment_attempts (
    id, professional_id, assessment_id, passed, score, attempted_at
) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProfessionalID, a.AssessmentID, boolToInt(a.Passed), a.Score,
		toMillis(a.AttemptedAt))
	if err != nil {
		return fmt.Errorf("put assessment attempt: %w", err)
	}
	return nil
}

// ListAttemptsByProfessional returns a professional's assessment attempts,
// oldest first.
func (s *Store) ListAttemptsByProfessional(ctx context.Context, professionalID string) ([]storage.AssessmentAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, professional_id, assessment_id, passed, score, attempted_at
FROM assessment_attempts
WHERE professional_id = ?
ORDER BY attempted_at ASC, id ASC`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list assessment attempts: %w", err)
	}
	defer rows.Close()

	var attempts []storage.AssessmentAttempt
	for rows.Next() {
		var a storage.AssessmentAttempt
		var passed int
		var attemptedAt int64
		err := rows.Scan(&a.ID, &a.ProfessionalID, &a.AssessmentID, &passed,
			&a.Score, &attemptedAt)
		if err != nil {
			return nil, fmt.Errorf("scan assessment attempt: %w", err)
		}
		a.Passed = passed != 0
		a.AttemptedAt = fromMillis(attemptedAt)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessment attempts: %w", err)
	}
	return attempts, nil
}

// PutEvidenceFile inserts or replaces an evidence file record.
func (s *Store) PutEvidenceFile(ctx context.Context, f storage.EvidenceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("evidence file id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO evidence_files (
    id, logged_activity_id, kind, file_name, uploaded_at
) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.LoggedActivityID, f.Kind, f.FileName, toMillis(f.UploadedAt))
	if err != nil {
		return fmt.Errorf("put evidence file: %w", err)
	}
	return nil
}

// ListEvidenceByLoggedActivity returns the evidence files attached to a
// logged activity, oldest first.
func (s *Store) ListEvidenceByLoggedActivity(ctx context.Context, loggedActivityID string) ([]storage.EvidenceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, logged_activity_id, kind, file_name, uploaded_at
FROM evidence_files
WHERE logged_activity_id = ?
ORDER BY uploaded_at ASC, id ASC`, loggedActivityID)
	if err != nil {
		return nil, fmt.Errorf("list evidence files: %w", err)
	}
	defer rows.Close()

	var files []storage.EvidenceFile
	for rows.Next() {
		var f storage.EvidenceFile
		var uploadedAt int64
		err := rows.Scan(&f.ID, &f.LoggedActivityID, &f.Kind, &f.FileName, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("scan evidence file: %w", err)
		}
		f.UploadedAt = fromMillis(uploadedAt)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence files: %w", err)
	}
	return files, nil
}
