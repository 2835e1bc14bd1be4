package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recertify/recertify/internal/services/compliance/domain/credential"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// CreateRulePack persists a new rule pack, assigning the next version for
// the credential and closing the previously open pack to the day before the
// new pack takes effect. Version assignment, the close, and the insert run
// in one transaction.
func (s *Store) CreateRulePack(ctx context.Context, pack credential.RulePack) (credential.RulePack, error) {
	if err := ctx.Err(); err != nil {
		return credential.RulePack{}, err
	}
	if s == nil || s.sqlDB == nil {
		return credential.RulePack{}, fmt.Errorf("storage is not configured")
	}

	created := pack
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var maxVersion sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT MAX(version) FROM rule_packs WHERE credential_id = ?`,
			pack.CredentialID).Scan(&maxVersion)
		if err != nil {
			return fmt.Errorf("read max version: %w", err)
		}
		created.Version = int(maxVersion.Int64) + 1

		var openID string
		var openFrom int64
		err = tx.QueryRowContext(ctx, `
SELECT id, effective_from FROM rule_packs
WHERE credential_id = ? AND effective_to IS NULL`,
			pack.CredentialID).Scan(&openID, &openFrom)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// First pack, or all prior packs are already closed.
		case err != nil:
			return fmt.Errorf("read open pack: %w", err)
		default:
			if !credential.DateOnly(pack.EffectiveFrom).After(credential.DateOnly(fromMillis(openFrom))) {
				return credential.ErrRulePackEffectiveNotAfter
			}
			closeTo := credential.CloseBefore(pack.EffectiveFrom)
			_, err = tx.ExecContext(ctx,
				`UPDATE rule_packs SET effective_to = ? WHERE id = ?`,
				toMillis(closeTo), openID)
			if err != nil {
				return fmt.Errorf("close open pack: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO rule_packs (
    id, credential_id, version, effective_from, effective_to,
    rules, changelog, created_at
) VALUES (?, ?, ?, ?, NULL, ?, ?, ?)`,
			created.ID, created.CredentialID, created.Version,
			toMillis(created.EffectiveFrom), created.Rules, created.Changelog,
			toMillis(created.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert rule pack: %w", err)
		}
		return nil
	})
	if err != nil {
		return credential.RulePack{}, err
	}
	return created, nil
}

// GetRulePack fetches a rule pack by ID.
func (s *Store) GetRulePack(ctx context.Context, id string) (credential.RulePack, error) {
	if err := ctx.Err(); err != nil {
		return credential.RulePack{}, err
	}
	if s == nil || s.sqlDB == nil {
		return credential.RulePack{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, credential_id, version, effective_from, effective_to,
       rules, changelog, created_at
FROM rule_packs WHERE id = ?`, id)

	pack, err := scanRulePack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credential.RulePack{}, storage.ErrNotFound
		}
		return credential.RulePack{}, fmt.Errorf("get rule pack: %w", err)
	}
	return pack, nil
}

// GetRulePackForDate returns the pack in force on the given date for a
// credential, or ErrNotFound when no pack's effective interval covers it.
func (s *Store) GetRulePackForDate(ctx context.Context, credentialID string, date time.Time) (credential.RulePack, error) {
	if err := ctx.Err(); err != nil {
		return credential.RulePack{}, err
	}
	if s == nil || s.sqlDB == nil {
		return credential.RulePack{}, fmt.Errorf("storage is not configured")
	}

	day := toMillis(credential.DateOnly(date))
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, credential_id, version, effective_from, effective_to,
       rules, changelog, created_at
FROM rule_packs
WHERE credential_id = ?
  AND effective_from <= ?
  AND (effective_to IS NULL OR effective_to >= ?)
ORDER BY version DESC
LIMIT 1`, credentialID, day, day)

	pack, err := scanRulePack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credential.RulePack{}, storage.ErrNotFound
		}
		return credential.RulePack{}, fmt.Errorf("get rule pack for date: %w", err)
	}
	return pack, nil
}

// ListRulePacks returns every pack for a credential in version order.
func (s *Store) ListRulePacks(ctx context.Context, credentialID string) ([]credential.RulePack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, credential_id, version, effective_from, effective_to,
       rules, changelog, created_at
FROM rule_packs
WHERE credential_id = ?
ORDER BY version ASC`, credentialID)
	if err != nil {
		return nil, fmt.Errorf("list rule packs: %w", err)
	}
	defer rows.Close()

	var packs []credential.RulePack
	for rows.Next() {
		pack, err := scanRulePack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule pack: %w", err)
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule packs: %w", err)
	}
	return packs, nil
}

func scanRulePack(row rowScanner) (credential.RulePack, error) {
	var pack credential.RulePack
	var effectiveFrom, createdAt int64
	var effectiveTo sql.NullInt64
	err := row.Scan(&pack.ID, &pack.CredentialID, &pack.Version, &effectiveFrom,
		&effectiveTo, &pack.Rules, &pack.Changelog, &createdAt)
	if err != nil {
		return credential.RulePack{}, err
	}
	pack.EffectiveFrom = fromMillis(effectiveFrom)
	pack.EffectiveTo = fromNullMillis(effectiveTo)
	pack.CreatedAt = fromMillis(createdAt)
	return pack, nil
}
