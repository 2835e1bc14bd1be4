// Package activity models catalog learning items, their jurisdictional
// credit mappings, and the logged instances professionals complete.
package activity

import (
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

// Type describes the kind of catalog learning item.
type Type int

// PublishStatus describes the catalog lifecycle of an activity.
type PublishStatus int

const (
	// TypeUnspecified represents an invalid activity type value.
	TypeUnspecified Type = iota
	// TypeWebinar indicates a live or recorded webinar.
	TypeWebinar
	// TypeVideo indicates an on-demand video.
	TypeVideo
	// TypeArticle indicates a written article.
	TypeArticle
	// TypeAssessment indicates a standalone assessment.
	TypeAssessment
	// TypeBundle indicates a bundle of other activities.
	TypeBundle
)

const (
	// PublishStatusUnspecified represents an invalid publish status value.
	PublishStatusUnspecified PublishStatus = iota
	// PublishStatusDraft indicates the activity is being authored.
	PublishStatusDraft
	// PublishStatusReview indicates the activity awaits editorial review.
	PublishStatusReview
	// PublishStatusPublished indicates the activity is visible to end users.
	PublishStatusPublished
	// PublishStatusArchived indicates the activity was withdrawn.
	PublishStatusArchived
)

var (
	// ErrEmptyTitle indicates a missing activity title.
	ErrEmptyTitle = apperrors.New(apperrors.CodeActivityTitleEmpty, "activity title is required")
	// ErrInvalidType indicates a missing or invalid activity type.
	ErrInvalidType = apperrors.New(apperrors.CodeActivityInvalidType, "activity type is required")
)

// Activity represents a catalog learning item owned by a provider. Only
// published activities are visible to end users.
type Activity struct {
	ID    string
	Type  Type
	Title string
	// DurationMinutes is the nominal length of the activity.
	DurationMinutes int
	Status          PublishStatus
	Tags            []string
	// HasAssessment reports whether the activity carries an attached
	// assessment; the recommendation scorer rewards this.
	HasAssessment bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateActivityInput describes the data needed to create a catalog activity.
type CreateActivityInput struct {
	Type            Type
	Title           string
	DurationMinutes int
	Status          PublishStatus
	Tags            []string
	HasAssessment   bool
}

// CreateActivity validates input and constructs an Activity.
func CreateActivity(in CreateActivityInput, clock func() time.Time, idGenerator func() (string, error)) (Activity, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Activity{}, ErrEmptyTitle
	}
	if in.Type <= TypeUnspecified || in.Type > TypeBundle {
		return Activity{}, ErrInvalidType
	}

	if clock == nil {
		clock = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return Activity{}, err
	}

	status := in.Status
	if status == PublishStatusUnspecified {
		status = PublishStatusDraft
	}

	now := clock().UTC()
	return Activity{
		ID:              newID,
		Type:            in.Type,
		Title:           strings.TrimSpace(in.Title),
		DurationMinutes: in.DurationMinutes,
		Status:          status,
		Tags:            in.Tags,
		HasAssessment:   in.HasAssessment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
