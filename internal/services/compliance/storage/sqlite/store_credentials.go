package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/domain/credential"
	"github.com/recertify/recertify/internal/services/compliance/domain/holding"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// PutCredential inserts or replaces a credential record.
func (s *Store) PutCredential(ctx context.Context, c credential.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("credential id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO credentials (
    id, name, issuing_body, region, hours_required, ethics_hours,
    structured_hours, cycle_length_years, category_rules, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.IssuingBody, c.Region, toNullFloat(c.HoursRequired),
		c.EthicsHours, c.StructuredHours, c.CycleLengthYears, c.CategoryRules,
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

// GetCredential fetches a credential by ID.
func (s *Store) GetCredential(ctx context.Context, id string) (credential.Credential, error) {
	if err := ctx.Err(); err != nil {
		return credential.Credential{}, err
	}
	if s == nil || s.sqlDB == nil {
		return credential.Credential{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, issuing_body, region, hours_required, ethics_hours,
       structured_hours, cycle_length_years, category_rules, created_at, updated_at
FROM credentials WHERE id = ?`, id)

	var c credential.Credential
	var hoursRequired sql.NullFloat64
	var createdAt, updatedAt int64
	err := row.Scan(&c.ID, &c.Name, &c.IssuingBody, &c.Region, &hoursRequired,
		&c.EthicsHours, &c.StructuredHours, &c.CycleLengthYears, &c.CategoryRules,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credential.Credential{}, storage.ErrNotFound
		}
		return credential.Credential{}, fmt.Errorf("get credential: %w", err)
	}

	c.HoursRequired = fromNullFloat(hoursRequired)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

// PutHolding inserts or replaces a credential holding record.
func (s *Store) PutHolding(ctx context.Context, h holding.Holding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("holding id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO holdings (
    id, professional_id, credential_id, jurisdiction, renewal_deadline,
    baseline_hours, is_primary, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.ProfessionalID, h.CredentialID, h.Jurisdiction,
		toNullMillis(h.RenewalDeadline), h.BaselineHours, boolToInt(h.IsPrimary),
		toMillis(h.CreatedAt), toMillis(h.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put holding: %w", err)
	}
	return nil
}

// GetHolding fetches a holding by ID.
func (s *Store) GetHolding(ctx context.Context, id string) (holding.Holding, error) {
	if err := ctx.Err(); err != nil {
		return holding.Holding{}, err
	}
	if s == nil || s.sqlDB == nil {
		return holding.Holding{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, professional_id, credential_id, jurisdiction, renewal_deadline,
       baseline_hours, is_primary, created_at, updated_at
FROM holdings WHERE id = ?`, id)

	h, err := scanHolding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return holding.Holding{}, storage.ErrNotFound
		}
		return holding.Holding{}, fmt.Errorf("get holding: %w", err)
	}
	return h, nil
}

// ListHoldingsByProfessional returns every holding for a professional,
// primary first, then oldest first.
func (s *Store) ListHoldingsByProfessional(ctx context.Context, professionalID string) ([]holding.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, professional_id, credential_id, jurisdiction, renewal_deadline,
       baseline_hours, is_primary, created_at, updated_at
FROM holdings
WHERE professional_id = ?
ORDER BY is_primary DESC, created_at ASC, id ASC`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []holding.Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holdings: %w", err)
	}
	return holdings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (holding.Holding, error) {
	var h holding.Holding
	var deadline sql.NullInt64
	var isPrimary int
	var createdAt, updatedAt int64
	err := row.Scan(&h.ID, &h.ProfessionalID, &h.CredentialID, &h.Jurisdiction,
		&deadline, &h.BaselineHours, &isPrimary, &createdAt, &updatedAt)
	if err != nil {
		return holding.Holding{}, err
	}
	h.RenewalDeadline = fromNullMillis(deadline)
	h.IsPrimary = isPrimary != 0
	h.CreatedAt = fromMillis(createdAt)
	h.UpdatedAt = fromMillis(updatedAt)
	return h, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
