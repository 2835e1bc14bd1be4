package completion

import "github.com/tidwall/gjson"

// ParseConfig reads a stored JSON configuration blob into the typed union
// for the given rule type. Fields are extracted leniently: missing or
// mistyped fields fall back to zero values, matching the engine's policy of
// never letting historical data corruption abort live evaluation. The rule
// still fails at evaluation time when required supporting data is absent.
func ParseConfig(ruleType RuleType, raw string) Config {
	switch ruleType {
	case RuleTypeAssessmentPass:
		return Config{Assessment: &AssessmentConfig{
			AssessmentID: gjson.Get(raw, "assessmentId").String(),
			MinScore:     gjson.Get(raw, "minScore").Float(),
		}}
	case RuleTypeEvidenceUpload:
		cfg := &EvidenceConfig{
			MinCount: int(gjson.Get(raw, "minCount").Int()),
		}
		for _, kind := range gjson.Get(raw, "requiredKinds").Array() {
			if kind.String() != "" {
				cfg.RequiredKinds = append(cfg.RequiredKinds, kind.String())
			}
		}
		return Config{Evidence: cfg}
	case RuleTypeWatchTime:
		return Config{WatchTime: &WatchTimeConfig{
			MinPercent: gjson.Get(raw, "minPercent").Float(),
		}}
	case RuleTypeAttendance:
		return Config{Attendance: &AttendanceConfig{
			ConfirmationRequired: gjson.Get(raw, "confirmationRequired").Bool(),
		}}
	default:
		return Config{}
	}
}

// EncodeConfig renders the typed union back into the storage JSON shape.
func EncodeConfig(cfg Config) string {
	switch {
	case cfg.Assessment != nil:
		return encodeJSON(map[string]any{
			"assessmentId": cfg.Assessment.AssessmentID,
			"minScore":     cfg.Assessment.MinScore,
		})
	case cfg.Evidence != nil:
		return encodeJSON(map[string]any{
			"minCount":      cfg.Evidence.MinCount,
			"requiredKinds": cfg.Evidence.RequiredKinds,
		})
	case cfg.WatchTime != nil:
		return encodeJSON(map[string]any{
			"minPercent": cfg.WatchTime.MinPercent,
		})
	case cfg.Attendance != nil:
		return encodeJSON(map[string]any{
			"confirmationRequired": cfg.Attendance.ConfirmationRequired,
		})
	default:
		return "{}"
	}
}
