package credential

import (
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

var (
	// ErrRulePackEmptyCredentialID indicates a rule pack without an owner.
	ErrRulePackEmptyCredentialID = apperrors.New(apperrors.CodeRulePackEmptyCredentialID, "rule pack credential id is required")
	// ErrRulePackInvalidEffectiveFrom indicates a missing effective date.
	ErrRulePackInvalidEffectiveFrom = apperrors.New(apperrors.CodeRulePackInvalidEffectiveFrom, "rule pack effective-from date is required")
	// ErrRulePackEmptyRules indicates an empty rules payload.
	ErrRulePackEmptyRules = apperrors.New(apperrors.CodeRulePackEmptyRules, "rule pack rules payload is required")
	// ErrRulePackEffectiveNotAfter indicates the new pack does not start after
	// the currently open pack, which would produce overlapping ranges.
	ErrRulePackEffectiveNotAfter = apperrors.New(apperrors.CodeRulePackEffectiveNotAfter, "rule pack must take effect after the open pack's effective-from date")
)

// RulePack is a versioned, effective-dated ruleset belonging to one
// credential. At most one pack per credential is open-ended (nil
// EffectiveTo) at any time; the store enforces this at write time.
type RulePack struct {
	ID           string
	CredentialID string
	// Version is monotonic per credential, starting at 1.
	Version int
	// EffectiveFrom is a UTC date (midnight).
	EffectiveFrom time.Time
	// EffectiveTo is nil while the pack is the one currently in force.
	EffectiveTo *time.Time
	// Rules holds the requirement payload exactly as supplied; callers get
	// back byte-for-byte what they wrote.
	Rules     string
	Changelog string
	CreatedAt time.Time
}

// InForceOn reports whether the pack's effective interval contains the date.
// Both bounds are inclusive; an open-ended pack covers everything from its
// effective-from date onward.
func (p RulePack) InForceOn(date time.Time) bool {
	day := DateOnly(date)
	if day.Before(DateOnly(p.EffectiveFrom)) {
		return false
	}
	if p.EffectiveTo == nil {
		return true
	}
	return !day.After(DateOnly(*p.EffectiveTo))
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(value time.Time) time.Time {
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}

// CloseBefore returns the day before the given effective date, used to close
// the previously open pack when a successor takes effect.
func CloseBefore(effectiveFrom time.Time) time.Time {
	return DateOnly(effectiveFrom).AddDate(0, 0, -1)
}

// CreateRulePackInput describes the data needed to create a rule pack.
type CreateRulePackInput struct {
	CredentialID  string
	EffectiveFrom time.Time
	Rules         string
	Changelog     string
}

// CreateRulePack validates input and constructs an open-ended RulePack with
// version zero. The store assigns the next version and closes the prior open
// pack inside the same transaction.
func CreateRulePack(in CreateRulePackInput, clock func() time.Time, idGenerator func() (string, error)) (RulePack, error) {
	if strings.TrimSpace(in.CredentialID) == "" {
		return RulePack{}, ErrRulePackEmptyCredentialID
	}
	if in.EffectiveFrom.IsZero() {
		return RulePack{}, ErrRulePackInvalidEffectiveFrom
	}
	if strings.TrimSpace(in.Rules) == "" {
		return RulePack{}, ErrRulePackEmptyRules
	}

	if clock == nil {
		clock = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return RulePack{}, err
	}

	return RulePack{
		ID:            newID,
		CredentialID:  in.CredentialID,
		EffectiveFrom: DateOnly(in.EffectiveFrom),
		Rules:         in.Rules,
		Changelog:     in.Changelog,
		CreatedAt:     clock().UTC(),
	}, nil
}
