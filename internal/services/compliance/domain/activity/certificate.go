package activity

import (
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
)

// CertificateStatus describes whether an issued certificate is still valid.
type CertificateStatus int

const (
	// CertificateStatusUnspecified represents an invalid status value.
	CertificateStatusUnspecified CertificateStatus = iota
	// CertificateStatusActive indicates the certificate is in good standing.
	CertificateStatusActive
	// CertificateStatusRevoked indicates the certificate was revoked. The
	// record itself is retained for audit.
	CertificateStatusRevoked
)

// ErrCertificateRevoked indicates an operation on a revoked certificate.
var ErrCertificateRevoked = apperrors.New(apperrors.CodeCertificateRevoked, "certificate has been revoked")

// Certificate records the successful completion of a logged activity. It is
// immutable once issued except for its revocation status, and is never
// hard-deleted.
type Certificate struct {
	ID               string
	LoggedActivityID string
	ProfessionalID   string
	IssuedAt         time.Time
	Status           CertificateStatus
	RevokedAt        *time.Time
	RevocationReason string
}

// Active reports whether the certificate is still in good standing.
func (c Certificate) Active() bool {
	return c.Status == CertificateStatusActive
}
