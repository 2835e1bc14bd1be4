package activity

import (
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

// LoggedStatus describes the lifecycle of a logged activity instance.
type LoggedStatus int

// Source describes how a logged activity entered the system.
type Source int

// EvidenceTier ranks how strongly a logged activity is evidenced.
type EvidenceTier int

const (
	// LoggedStatusUnspecified represents an invalid logged status value.
	LoggedStatusUnspecified LoggedStatus = iota
	// LoggedStatusCompleted indicates the activity was finished.
	LoggedStatusCompleted
	// LoggedStatusInProgress indicates the activity is underway.
	LoggedStatusInProgress
	// LoggedStatusPlanned indicates the activity is planned but not started.
	LoggedStatusPlanned
)

const (
	// SourceUnspecified represents an invalid source value.
	SourceUnspecified Source = iota
	// SourceManual indicates the professional logged the record by hand.
	SourceManual
	// SourceImport indicates an import job created the record.
	SourceImport
	// SourceProvider indicates an external provider event created the record.
	SourceProvider
	// SourcePlatform indicates the platform generated the record, e.g. from
	// an assessment pass. Platform records are audit evidence and immutable.
	SourcePlatform
)

const (
	// EvidenceTierUnspecified represents an invalid evidence tier value.
	EvidenceTierUnspecified EvidenceTier = iota
	// EvidenceTierSelfAttested indicates no supporting evidence.
	EvidenceTierSelfAttested
	// EvidenceTierDocumented indicates uploaded supporting documents.
	EvidenceTierDocumented
	// EvidenceTierVerified indicates provider- or platform-verified evidence.
	EvidenceTierVerified
)

var (
	// ErrLoggedEmptyTitle indicates a missing logged activity title.
	ErrLoggedEmptyTitle = apperrors.New(apperrors.CodeLoggedActivityTitleEmpty, "logged activity title is required")
	// ErrLoggedInvalidHours indicates a non-positive hours value.
	ErrLoggedInvalidHours = apperrors.New(apperrors.CodeLoggedActivityInvalidHours, "logged activity hours must be positive")
	// ErrLoggedInvalidStatus indicates a missing or invalid status.
	ErrLoggedInvalidStatus = apperrors.New(apperrors.CodeLoggedActivityInvalidStatus, "logged activity status is required")
	// ErrLoggedImmutable indicates an attempt to delete a platform-generated
	// record, which is retained as audit evidence.
	ErrLoggedImmutable = apperrors.New(apperrors.CodeLoggedActivityImmutable, "platform-generated records cannot be deleted")
)

// LoggedActivity is a completed or planned learning instance belonging to a
// professional.
type LoggedActivity struct {
	ID             string
	ProfessionalID string
	// ActivityID links back to the catalog item when the record originated
	// there; empty for free-form manual logs.
	ActivityID string
	Title      string
	Provider   string
	// ActivityType is a free-form label, e.g. "webinar", "structured",
	// "verifiable". Structured sub-quota accounting keys off this.
	ActivityType string
	Hours        float64
	Date         time.Time
	Status       LoggedStatus
	Category     string
	Source       Source
	EvidenceTier EvidenceTier
	// Notes is a free-form JSON blob; completion rules read watch progress
	// and attendance confirmation from it leniently.
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deletable reports whether the record may be removed. Platform-generated
// records are audit evidence and must be retained.
func (l LoggedActivity) Deletable() error {
	if l.Source == SourcePlatform {
		return ErrLoggedImmutable
	}
	return nil
}

// CreateLoggedActivityInput describes the data needed to log an activity.
type CreateLoggedActivityInput struct {
	ProfessionalID string
	ActivityID     string
	Title          string
	Provider       string
	ActivityType   string
	Hours          float64
	Date           time.Time
	Status         LoggedStatus
	Category       string
	Source         Source
	EvidenceTier   EvidenceTier
	Notes          string
}

// CreateLoggedActivity validates input and constructs a LoggedActivity.
func CreateLoggedActivity(in CreateLoggedActivityInput, clock func() time.Time, idGenerator func() (string, error)) (LoggedActivity, error) {
	if strings.TrimSpace(in.Title) == "" {
		return LoggedActivity{}, ErrLoggedEmptyTitle
	}
	if in.Hours <= 0 {
		return LoggedActivity{}, ErrLoggedInvalidHours
	}
	if in.Status <= LoggedStatusUnspecified || in.Status > LoggedStatusPlanned {
		return LoggedActivity{}, ErrLoggedInvalidStatus
	}

	if clock == nil {
		clock = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return LoggedActivity{}, err
	}

	source := in.Source
	if source == SourceUnspecified {
		source = SourceManual
	}
	tier := in.EvidenceTier
	if tier == EvidenceTierUnspecified {
		tier = EvidenceTierSelfAttested
	}

	now := clock().UTC()
	return LoggedActivity{
		ID:             newID,
		ProfessionalID: in.ProfessionalID,
		ActivityID:     in.ActivityID,
		Title:          strings.TrimSpace(in.Title),
		Provider:       in.Provider,
		ActivityType:   strings.ToLower(strings.TrimSpace(in.ActivityType)),
		Hours:          in.Hours,
		Date:           in.Date,
		Status:         in.Status,
		Category:       strings.ToLower(strings.TrimSpace(in.Category)),
		Source:         source,
		EvidenceTier:   tier,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
