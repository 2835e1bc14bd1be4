// Package completion evaluates the gating criteria attached to a logged
// activity and decides eligibility for certificate issuance.
package completion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// RuleType identifies a completion criterion kind.
type RuleType int

const (
	// RuleTypeUnspecified represents an invalid rule type value.
	RuleTypeUnspecified RuleType = iota
	// RuleTypeAssessmentPass requires a passing assessment attempt.
	RuleTypeAssessmentPass
	// RuleTypeEvidenceUpload requires uploaded evidence files.
	RuleTypeEvidenceUpload
	// RuleTypeWatchTime requires a minimum watch percentage.
	RuleTypeWatchTime
	// RuleTypeAttendance requires an attendance confirmation.
	RuleTypeAttendance
)

// String returns the storage label for a rule type.
func (t RuleType) String() string {
	switch t {
	case RuleTypeAssessmentPass:
		return "assessment-pass"
	case RuleTypeEvidenceUpload:
		return "evidence-upload"
	case RuleTypeWatchTime:
		return "watch-time"
	case RuleTypeAttendance:
		return "attendance-confirmation"
	default:
		return "unspecified"
	}
}

// RuleTypeFromString parses a storage label into a RuleType.
func RuleTypeFromString(value string) RuleType {
	switch strings.TrimSpace(value) {
	case "assessment-pass":
		return RuleTypeAssessmentPass
	case "evidence-upload":
		return RuleTypeEvidenceUpload
	case "watch-time":
		return RuleTypeWatchTime
	case "attendance-confirmation":
		return RuleTypeAttendance
	default:
		return RuleTypeUnspecified
	}
}

// AssessmentConfig gates on a passing attempt with a minimum score.
type AssessmentConfig struct {
	// AssessmentID scopes attempts; empty accepts any assessment.
	AssessmentID string
	// MinScore defaults to 0: any passing attempt suffices.
	MinScore float64
}

// EvidenceConfig gates on uploaded evidence files.
type EvidenceConfig struct {
	// MinCount defaults to 1 when unset.
	MinCount int
	// RequiredKinds lists file kinds that must each be present.
	RequiredKinds []string
}

// WatchTimeConfig gates on recorded watch percentage.
type WatchTimeConfig struct {
	MinPercent float64
}

// AttendanceConfig gates on an explicit confirmation flag.
type AttendanceConfig struct {
	ConfirmationRequired bool
}

// Config is the tagged union of type-specific rule configuration. Exactly
// the field matching the rule's type is set; the rest stay nil.
type Config struct {
	Assessment *AssessmentConfig
	Evidence   *EvidenceConfig
	WatchTime  *WatchTimeConfig
	Attendance *AttendanceConfig
}

// Rule is one completion criterion attached to a logged activity.
type Rule struct {
	ID               string
	LoggedActivityID string
	Type             RuleType
	Config           Config
}

// Attempt is a professional's attempt at an assessment.
type Attempt struct {
	AssessmentID string
	Passed       bool
	Score        float64
}

// EvidenceFile is an uploaded evidence record attached to a logged activity.
type EvidenceFile struct {
	Kind string
}

// Input is the supporting data a rule evaluation may consult.
type Input struct {
	// Notes is the logged activity's free-form JSON blob; watch progress and
	// attendance confirmation live here.
	Notes    string
	Attempts []Attempt
	Evidence []EvidenceFile
}

// Evaluation is the outcome of one rule, with a human-readable detail for
// audit display regardless of pass/fail.
type Evaluation struct {
	RuleID string
	Type   RuleType
	Passed bool
	Detail string
}

// Result aggregates all rule evaluations for a logged activity.
type Result struct {
	AllPassed              bool
	Rules                  []Evaluation
	EligibleForCertificate bool
}

// Evaluate runs every rule independently. All rules must pass for
// certificate eligibility; a record with no rules attached is trivially
// complete. Missing or malformed supporting data fails a rule with an
// explanatory detail, never a crash.
func Evaluate(rules []Rule, in Input) Result {
	result := Result{AllPassed: true}
	for _, rule := range rules {
		evaluation := evaluateRule(rule, in)
		result.Rules = append(result.Rules, evaluation)
		if !evaluation.Passed {
			result.AllPassed = false
		}
	}
	result.EligibleForCertificate = result.AllPassed
	return result
}

func evaluateRule(rule Rule, in Input) Evaluation {
	evaluation := Evaluation{RuleID: rule.ID, Type: rule.Type}
	switch rule.Type {
	case RuleTypeAssessmentPass:
		evaluation.Passed, evaluation.Detail = evaluateAssessment(rule.Config.Assessment, in.Attempts)
	case RuleTypeEvidenceUpload:
		evaluation.Passed, evaluation.Detail = evaluateEvidence(rule.Config.Evidence, in.Evidence)
	case RuleTypeWatchTime:
		evaluation.Passed, evaluation.Detail = evaluateWatchTime(rule.Config.WatchTime, in.Notes)
	case RuleTypeAttendance:
		evaluation.Passed, evaluation.Detail = evaluateAttendance(rule.Config.Attendance, in.Notes)
	default:
		evaluation.Detail = "Unknown rule type"
	}
	return evaluation
}

func evaluateAssessment(cfg *AssessmentConfig, attempts []Attempt) (bool, string) {
	if cfg == nil {
		return false, "Assessment rule is missing its configuration"
	}

	best := -1.0
	for _, attempt := range attempts {
		if cfg.AssessmentID != "" && attempt.AssessmentID != cfg.AssessmentID {
			continue
		}
		if !attempt.Passed {
			continue
		}
		if attempt.Score > best {
			best = attempt.Score
		}
	}

	if best < 0 {
		return false, "No passing attempt recorded"
	}
	if best >= cfg.MinScore {
		return true, fmt.Sprintf("Score: %s%% (required: %s%%)", formatScore(best), formatScore(cfg.MinScore))
	}
	return false, fmt.Sprintf("Score: %s%% (required: %s%%)", formatScore(best), formatScore(cfg.MinScore))
}

func evaluateEvidence(cfg *EvidenceConfig, files []EvidenceFile) (bool, string) {
	if cfg == nil {
		return false, "Evidence rule is missing its configuration"
	}

	minCount := cfg.MinCount
	if minCount <= 0 {
		minCount = 1
	}
	if len(files) < minCount {
		return false, fmt.Sprintf("Evidence files: %d of %d required", len(files), minCount)
	}

	if len(cfg.RequiredKinds) > 0 {
		present := make(map[string]bool, len(files))
		for _, f := range files {
			present[strings.ToLower(f.Kind)] = true
		}
		var missing []string
		for _, kind := range cfg.RequiredKinds {
			if !present[strings.ToLower(kind)] {
				missing = append(missing, kind)
			}
		}
		if len(missing) > 0 {
			return false, fmt.Sprintf("Missing required evidence kinds: %s", strings.Join(missing, ", "))
		}
	}

	return true, fmt.Sprintf("Evidence files: %d of %d required", len(files), minCount)
}

func evaluateWatchTime(cfg *WatchTimeConfig, notes string) (bool, string) {
	if cfg == nil {
		return false, "Watch-time rule is missing its configuration"
	}

	watched := gjson.Get(notes, "watchedPercent")
	if !watched.Exists() || watched.Type != gjson.Number {
		return false, "No watch progress recorded"
	}

	percent := watched.Float()
	if percent >= cfg.MinPercent {
		return true, fmt.Sprintf("Watched: %s%% (required: %s%%)", formatScore(percent), formatScore(cfg.MinPercent))
	}
	return false, fmt.Sprintf("Watched: %s%% (required: %s%%)", formatScore(percent), formatScore(cfg.MinPercent))
}

func evaluateAttendance(cfg *AttendanceConfig, notes string) (bool, string) {
	if cfg == nil || !cfg.ConfirmationRequired {
		return true, "Attendance confirmation not required"
	}
	if gjson.Get(notes, "attendanceConfirmed").Bool() {
		return true, "Attendance confirmed"
	}
	return false, "Attendance confirmation is required but not recorded"
}

func formatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
