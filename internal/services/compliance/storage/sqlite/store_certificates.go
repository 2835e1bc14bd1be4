package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// CreateCertificate inserts a certificate unless the logged activity already
// has one. The insert and read-back share a transaction, so two concurrent
// issuers both come away holding the same stored row.
func (s *Store) CreateCertificate(ctx context.Context, c activity.Certificate) (activity.Certificate, bool, error) {
	if err := ctx.Err(); err != nil {
		return activity.Certificate{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return activity.Certificate{}, false, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return activity.Certificate{}, false, fmt.Errorf("certificate id is required")
	}
	if strings.TrimSpace(c.LoggedActivityID) == "" {
		return activity.Certificate{}, false, fmt.Errorf("logged activity id is required")
	}

	var stored activity.Certificate
	var created bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
INSERT INTO certificates (
    id, logged_activity_id, professional_id, issued_at, status,
    revoked_at, revocation_reason
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(logged_activity_id) DO NOTHING`,
			c.ID, c.LoggedActivityID, c.ProfessionalID, toMillis(c.IssuedAt),
			c.Status.String(), toNullMillis(c.RevokedAt), c.RevocationReason)
		if err != nil {
			return fmt.Errorf("create certificate: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("create certificate result: %w", err)
		}
		created = affected > 0

		row := tx.QueryRowContext(ctx, `
SELECT id, logged_activity_id, professional_id, issued_at, status,
       revoked_at, revocation_reason
FROM certificates WHERE logged_activity_id = ?`, c.LoggedActivityID)
		stored, err = scanCertificate(row)
		if err != nil {
			return fmt.Errorf("read back certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return activity.Certificate{}, false, err
	}
	return stored, created, nil
}

// PutCertificate inserts or replaces a certificate. Replacement is how
// revocation is recorded; rows are never deleted.
func (s *Store) PutCertificate(ctx context.Context, c activity.Certificate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("certificate id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO certificates (
    id, logged_activity_id, professional_id, issued_at, status,
    revoked_at, revocation_reason
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LoggedActivityID, c.ProfessionalID, toMillis(c.IssuedAt),
		c.Status.String(), toNullMillis(c.RevokedAt), c.RevocationReason)
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}
	return nil
}

// GetCertificate fetches a certificate by ID.
func (s *Store) GetCertificate(ctx context.Context, id string) (activity.Certificate, error) {
	return s.getCertificate(ctx, `id`, id)
}

// GetCertificateByLoggedActivity fetches the certificate issued for a logged
// activity, if any.
func (s *Store) GetCertificateByLoggedActivity(ctx context.Context, loggedActivityID string) (activity.Certificate, error) {
	return s.getCertificate(ctx, `logged_activity_id`, loggedActivityID)
}

func (s *Store) getCertificate(ctx context.Context, column, value string) (activity.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return activity.Certificate{}, err
	}
	if s == nil || s.sqlDB == nil {
		return activity.Certificate{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, fmt.Sprintf(`
SELECT id, logged_activity_id, professional_id, issued_at, status,
       revoked_at, revocation_reason
FROM certificates WHERE %s = ?`, column), value)

	c, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return activity.Certificate{}, storage.ErrNotFound
		}
		return activity.Certificate{}, fmt.Errorf("get certificate: %w", err)
	}
	return c, nil
}

func scanCertificate(row rowScanner) (activity.Certificate, error) {
	var c activity.Certificate
	var issuedAt int64
	var status string
	var revokedAt sql.NullInt64
	err := row.Scan(&c.ID, &c.LoggedActivityID, &c.ProfessionalID, &issuedAt,
		&status, &revokedAt, &c.RevocationReason)
	if err != nil {
		return activity.Certificate{}, err
	}
	c.IssuedAt = fromMillis(issuedAt)
	c.Status = activity.CertificateStatusFromString(status)
	c.RevokedAt = fromNullMillis(revokedAt)
	return c, nil
}
