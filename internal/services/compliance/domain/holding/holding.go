// Package holding models the link between a professional and a credential
// they currently hold.
package holding

import (
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

var (
	// ErrEmptyProfessionalID indicates a holding without an owner.
	ErrEmptyProfessionalID = apperrors.New(apperrors.CodeHoldingEmptyProfessionalID, "holding professional id is required")
	// ErrEmptyCredentialID indicates a holding without a credential.
	ErrEmptyCredentialID = apperrors.New(apperrors.CodeHoldingEmptyCredentialID, "holding credential id is required")
)

// Holding links a professional to a credential, with the jurisdiction the
// professional practices in and the renewal deadline for the current cycle.
// A professional may hold several credentials at once; each holding is
// evaluated independently.
type Holding struct {
	ID             string
	ProfessionalID string
	CredentialID   string
	// Jurisdiction is the state/province subcode within the credential's
	// region, e.g. "NY" for a US credential.
	Jurisdiction string
	// RenewalDeadline is nil when the professional has not set one.
	RenewalDeadline *time.Time
	// BaselineHours captures self-reported hours completed before the
	// professional started tracking in the system.
	BaselineHours float64
	// IsPrimary marks the default-view holding. Exactly one holding per
	// professional should be primary; all holdings are still evaluated.
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateHoldingInput describes the data needed to register a holding.
type CreateHoldingInput struct {
	ProfessionalID  string
	CredentialID    string
	Jurisdiction    string
	RenewalDeadline *time.Time
	BaselineHours   float64
	IsPrimary       bool
}

// CreateHolding validates input and constructs a Holding.
func CreateHolding(in CreateHoldingInput, clock func() time.Time, idGenerator func() (string, error)) (Holding, error) {
	if strings.TrimSpace(in.ProfessionalID) == "" {
		return Holding{}, ErrEmptyProfessionalID
	}
	if strings.TrimSpace(in.CredentialID) == "" {
		return Holding{}, ErrEmptyCredentialID
	}

	if clock == nil {
		clock = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return Holding{}, err
	}

	now := clock().UTC()
	return Holding{
		ID:              newID,
		ProfessionalID:  in.ProfessionalID,
		CredentialID:    in.CredentialID,
		Jurisdiction:    strings.ToUpper(strings.TrimSpace(in.Jurisdiction)),
		RenewalDeadline: in.RenewalDeadline,
		BaselineHours:   in.BaselineHours,
		IsPrimary:       in.IsPrimary,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
