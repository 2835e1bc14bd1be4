// Package credential defines regulatory certification reference data and the
// versioned rule packs that describe each credential's renewal requirements.
package credential

import (
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

var (
	// ErrEmptyName indicates a missing credential name.
	ErrEmptyName = apperrors.New(apperrors.CodeCredentialNameEmpty, "credential name is required")
	// ErrEmptyIssuingBody indicates a missing issuing body.
	ErrEmptyIssuingBody = apperrors.New(apperrors.CodeCredentialBodyEmpty, "issuing body is required")
	// ErrInvalidCycleLength indicates a non-positive renewal cycle length.
	ErrInvalidCycleLength = apperrors.New(apperrors.CodeCredentialInvalidCycle, "cycle length must be at least one year")
	// ErrInvalidHoursRequired indicates a negative hours requirement.
	ErrInvalidHoursRequired = apperrors.New(apperrors.CodeCredentialInvalidHours, "hours required must not be negative")
)

// Credential represents a regulatory certification type. It is immutable
// reference data maintained by administrators.
type Credential struct {
	ID          string
	Name        string
	IssuingBody string
	// Region is the country code the issuing body regulates, e.g. "US".
	Region string
	// HoursRequired is nil for outcome-based bodies that do not count hours.
	HoursRequired   *float64
	EthicsHours     float64
	StructuredHours float64
	// CycleLengthYears is the renewal cycle length.
	CycleLengthYears int
	// CategoryRules holds the per-body taxonomy as an opaque JSON blob.
	// Rule shapes vary wildly across regulatory bodies; readers extract
	// fields leniently and treat unparsable data as absent.
	CategoryRules string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateCredentialInput describes the data needed to register a credential.
type CreateCredentialInput struct {
	Name             string
	IssuingBody      string
	Region           string
	HoursRequired    *float64
	EthicsHours      float64
	StructuredHours  float64
	CycleLengthYears int
	CategoryRules    string
}

// CreateCredential validates input and constructs a Credential.
func CreateCredential(in CreateCredentialInput, clock func() time.Time, idGenerator func() (string, error)) (Credential, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Credential{}, ErrEmptyName
	}
	if strings.TrimSpace(in.IssuingBody) == "" {
		return Credential{}, ErrEmptyIssuingBody
	}
	if in.CycleLengthYears < 1 {
		return Credential{}, ErrInvalidCycleLength
	}
	if in.HoursRequired != nil && *in.HoursRequired < 0 {
		return Credential{}, ErrInvalidHoursRequired
	}

	if clock == nil {
		clock = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return Credential{}, err
	}

	now := clock().UTC()
	return Credential{
		ID:               newID,
		Name:             strings.TrimSpace(in.Name),
		IssuingBody:      strings.TrimSpace(in.IssuingBody),
		Region:           strings.ToUpper(strings.TrimSpace(in.Region)),
		HoursRequired:    in.HoursRequired,
		EthicsHours:      in.EthicsHours,
		StructuredHours:  in.StructuredHours,
		CycleLengthYears: in.CycleLengthYears,
		CategoryRules:    in.CategoryRules,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
