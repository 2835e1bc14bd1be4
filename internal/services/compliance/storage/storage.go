// Package storage defines the persistence interfaces the compliance engine
// depends on. Implementations live in subpackages; the engine itself never
// touches SQL.
package storage

import (
	"context"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/domain/allocation"
	"github.com/recertify/recertify/internal/services/compliance/domain/completion"
	"github.com/recertify/recertify/internal/services/compliance/domain/credential"
	"github.com/recertify/recertify/internal/services/compliance/domain/holding"
)

// ErrNotFound indicates a requested persistence record is missing. Callers
// use this to differentiate legitimate "no such entity" states from transport
// or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// CredentialStore owns credential reference data.
type CredentialStore interface {
	PutCredential(ctx context.Context, c credential.Credential) error
	GetCredential(ctx context.Context, id string) (credential.Credential, error)
}

// RulePackStore owns versioned requirement rule packs.
//
// CreateRulePack assigns the next monotonic version for the credential and,
// when an open-ended pack exists, closes it to the day before the new pack's
// effective-from date. Both happen in one transaction so no two packs are
// ever simultaneously open for the same credential.
type RulePackStore interface {
	CreateRulePack(ctx context.Context, pack credential.RulePack) (credential.RulePack, error)
	GetRulePack(ctx context.Context, id string) (credential.RulePack, error)
	// GetRulePackForDate returns the pack in force on the given date, or
	// ErrNotFound when no pack covers it.
	GetRulePackForDate(ctx context.Context, credentialID string, date time.Time) (credential.RulePack, error)
	ListRulePacks(ctx context.Context, credentialID string) ([]credential.RulePack, error)
}

// HoldingStore owns professional-to-credential links.
type HoldingStore interface {
	PutHolding(ctx context.Context, h holding.Holding) error
	GetHolding(ctx context.Context, id string) (holding.Holding, error)
	// ListHoldingsByProfessional returns holdings ordered primary-first,
	// then by creation time.
	ListHoldingsByProfessional(ctx context.Context, professionalID string) ([]holding.Holding, error)
}

// ActivityStore owns the catalog and its credit mappings.
type ActivityStore interface {
	PutActivity(ctx context.Context, a activity.Activity) error
	GetActivity(ctx context.Context, id string) (activity.Activity, error)
	// ListPublishedActivities returns catalog-ordered published activities,
	// the recommendation candidate pool.
	ListPublishedActivities(ctx context.Context) ([]activity.Activity, error)
	PutCreditMapping(ctx context.Context, m activity.CreditMapping) error
	ListMappingsByActivity(ctx context.Context, activityID string) ([]activity.CreditMapping, error)
}

// LoggedActivityStore owns logged learning instances and their completion
// supporting data.
type LoggedActivityStore interface {
	PutLoggedActivity(ctx context.Context, l activity.LoggedActivity) error
	GetLoggedActivity(ctx context.Context, id string) (activity.LoggedActivity, error)
	// DeleteLoggedActivity removes a record. Platform-generated records are
	// audit evidence; implementations must refuse to delete them.
	DeleteLoggedActivity(ctx context.Context, id string) error
	// ListCompletedByProfessional returns records with completed status.
	ListCompletedByProfessional(ctx context.Context, professionalID string) ([]activity.LoggedActivity, error)

	PutCompletionRule(ctx context.Context, rule completion.Rule) error
	ListCompletionRules(ctx context.Context, loggedActivityID string) ([]completion.Rule, error)

	PutAssessmentAttempt(ctx context.Context, a AssessmentAttempt) error
	ListAttemptsByProfessional(ctx context.Context, professionalID string) ([]AssessmentAttempt, error)

	PutEvidenceFile(ctx context.Context, f EvidenceFile) error
	ListEvidenceByLoggedActivity(ctx context.Context, loggedActivityID string) ([]EvidenceFile, error)
}

// AssessmentAttempt records one attempt at an assessment.
type AssessmentAttempt struct {
	ID             string
	ProfessionalID string
	AssessmentID   string
	Passed         bool
	Score          float64
	AttemptedAt    time.Time
}

// EvidenceFile records an uploaded evidence document's metadata. Blob
// storage itself is an external collaborator.
type EvidenceFile struct {
	ID               string
	LoggedActivityID string
	Kind             string
	FileName         string
	UploadedAt       time.Time
}

// AllocationStore owns the hours-split ledger between logged activities and
// holdings.
//
// ReplaceAllocations deletes the existing set and inserts the new one as a
// single atomic unit; concurrent replacements for the same logged activity
// serialize, never interleave.
type AllocationStore interface {
	ReplaceAllocations(ctx context.Context, loggedActivityID string, allocations []allocation.Allocation) error
	ListAllocationsByLoggedActivity(ctx context.Context, loggedActivityID string) ([]allocation.Allocation, error)
	ListAllocationsByHolding(ctx context.Context, holdingID string) ([]allocation.Allocation, error)
}

// CertificateStore owns issued certificates. Certificates are never
// hard-deleted; revocation flips a status flag.
type CertificateStore interface {
	// CreateCertificate inserts a certificate unless one already exists for
	// the logged activity. It returns the stored row and whether this call
	// created it, so concurrent issuers converge on a single certificate.
	CreateCertificate(ctx context.Context, c activity.Certificate) (activity.Certificate, bool, error)
	PutCertificate(ctx context.Context, c activity.Certificate) error
	GetCertificate(ctx context.Context, id string) (activity.Certificate, error)
	GetCertificateByLoggedActivity(ctx context.Context, loggedActivityID string) (activity.Certificate, error)
}

// AuditEvent records an operational event for operator visibility.
type AuditEvent struct {
	ID        string
	EventName string
	Severity  string
	// EntityKind and EntityID locate the record the event concerns.
	EntityKind string
	EntityID   string
	Detail     string
	Timestamp  time.Time
}

// AuditStore appends operational audit events.
type AuditStore interface {
	AppendAuditEvent(ctx context.Context, event AuditEvent) error
	ListAuditEvents(ctx context.Context, entityKind, entityID string) ([]AuditEvent, error)
}

// Store aggregates every persistence interface the engine needs.
type Store interface {
	CredentialStore
	RulePackStore
	HoldingStore
	ActivityStore
	LoggedActivityStore
	AllocationStore
	CertificateStore
	AuditStore
}
