package completion

import (
	"testing"
)

func TestEvaluateNoRulesTriviallyComplete(t *testing.T) {
	result := Evaluate(nil, Input{})
	if !result.AllPassed {
		t.Fatal("expected no rules to pass trivially")
	}
	if !result.EligibleForCertificate {
		t.Fatal("expected certificate eligibility with no rules")
	}
	if len(result.Rules) != 0 {
		t.Fatalf("expected no evaluations, got %d", len(result.Rules))
	}
}

func TestEvaluateAssessmentPass(t *testing.T) {
	rule := Rule{
		ID:   "rule-1",
		Type: RuleTypeAssessmentPass,
		Config: Config{Assessment: &AssessmentConfig{
			AssessmentID: "assess-1",
			MinScore:     70,
		}},
	}

	tests := []struct {
		name       string
		attempts   []Attempt
		wantPass   bool
		wantDetail string
	}{
		{
			"passing attempt above minimum",
			[]Attempt{{AssessmentID: "assess-1", Passed: true, Score: 85}},
			true,
			"Score: 85% (required: 70%)",
		},
		{
			"best passing attempt below minimum",
			[]Attempt{{AssessmentID: "assess-1", Passed: true, Score: 65}},
			false,
			"Score: 65% (required: 70%)",
		},
		{
			"no passing attempt",
			[]Attempt{{AssessmentID: "assess-1", Passed: false, Score: 90}},
			false,
			"No passing attempt recorded",
		},
		{
			"attempt on different assessment",
			[]Attempt{{AssessmentID: "assess-other", Passed: true, Score: 99}},
			false,
			"No passing attempt recorded",
		},
		{
			"best of several attempts",
			[]Attempt{
				{AssessmentID: "assess-1", Passed: true, Score: 60},
				{AssessmentID: "assess-1", Passed: true, Score: 75},
			},
			true,
			"Score: 75% (required: 70%)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate([]Rule{rule}, Input{Attempts: tc.attempts})
			if result.AllPassed != tc.wantPass {
				t.Fatalf("expected allPassed=%v, got %v", tc.wantPass, result.AllPassed)
			}
			if result.Rules[0].Detail != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, result.Rules[0].Detail)
			}
		})
	}
}

func TestEvaluateAssessmentDefaultMinScore(t *testing.T) {
	rule := Rule{Type: RuleTypeAssessmentPass, Config: Config{Assessment: &AssessmentConfig{}}}
	result := Evaluate([]Rule{rule}, Input{Attempts: []Attempt{{Passed: true, Score: 0}}})
	if !result.AllPassed {
		t.Fatal("expected any passing attempt to satisfy default minimum")
	}
}

func TestEvaluateEvidenceUpload(t *testing.T) {
	rule := Rule{
		Type: RuleTypeEvidenceUpload,
		Config: Config{Evidence: &EvidenceConfig{
			MinCount:      2,
			RequiredKinds: []string{"certificate", "transcript"},
		}},
	}

	tooFew := Evaluate([]Rule{rule}, Input{Evidence: []EvidenceFile{{Kind: "certificate"}}})
	if tooFew.AllPassed {
		t.Fatal("expected failure below minimum count")
	}
	if tooFew.Rules[0].Detail != "Evidence files: 1 of 2 required" {
		t.Fatalf("unexpected detail %q", tooFew.Rules[0].Detail)
	}

	missingKind := Evaluate([]Rule{rule}, Input{Evidence: []EvidenceFile{{Kind: "certificate"}, {Kind: "receipt"}}})
	if missingKind.AllPassed {
		t.Fatal("expected failure with missing required kind")
	}
	if missingKind.Rules[0].Detail != "Missing required evidence kinds: transcript" {
		t.Fatalf("unexpected detail %q", missingKind.Rules[0].Detail)
	}

	satisfied := Evaluate([]Rule{rule}, Input{Evidence: []EvidenceFile{{Kind: "Certificate"}, {Kind: "TRANSCRIPT"}}})
	if !satisfied.AllPassed {
		t.Fatalf("expected kind match to ignore case, got %q", satisfied.Rules[0].Detail)
	}
}

func TestEvaluateEvidenceDefaultMinCount(t *testing.T) {
	rule := Rule{Type: RuleTypeEvidenceUpload, Config: Config{Evidence: &EvidenceConfig{}}}
	if result := Evaluate([]Rule{rule}, Input{}); result.AllPassed {
		t.Fatal("expected zero files to fail default minimum of one")
	}
	if result := Evaluate([]Rule{rule}, Input{Evidence: []EvidenceFile{{Kind: "any"}}}); !result.AllPassed {
		t.Fatal("expected one file to satisfy default minimum")
	}
}

func TestEvaluateWatchTime(t *testing.T) {
	rule := Rule{Type: RuleTypeWatchTime, Config: Config{WatchTime: &WatchTimeConfig{MinPercent: 80}}}

	met := Evaluate([]Rule{rule}, Input{Notes: `{"watchedPercent": 92.5}`})
	if !met.AllPassed {
		t.Fatalf("expected watch threshold met, got %q", met.Rules[0].Detail)
	}
	if met.Rules[0].Detail != "Watched: 92.5% (required: 80%)" {
		t.Fatalf("unexpected detail %q", met.Rules[0].Detail)
	}

	below := Evaluate([]Rule{rule}, Input{Notes: `{"watchedPercent": 40}`})
	if below.AllPassed {
		t.Fatal("expected watch threshold failure")
	}

	missing := Evaluate([]Rule{rule}, Input{Notes: `{"note":"attended in person"}`})
	if missing.AllPassed {
		t.Fatal("expected failure when no watch progress recorded")
	}
	if missing.Rules[0].Detail != "No watch progress recorded" {
		t.Fatalf("unexpected detail %q", missing.Rules[0].Detail)
	}

	malformed := Evaluate([]Rule{rule}, Input{Notes: `{"watchedPercent": "most of it"`})
	if malformed.AllPassed {
		t.Fatal("expected failure on malformed notes")
	}
}

func TestEvaluateAttendance(t *testing.T) {
	optional := Rule{Type: RuleTypeAttendance, Config: Config{Attendance: &AttendanceConfig{}}}
	if result := Evaluate([]Rule{optional}, Input{}); !result.AllPassed {
		t.Fatal("expected automatic pass when confirmation not required")
	}

	required := Rule{Type: RuleTypeAttendance, Config: Config{Attendance: &AttendanceConfig{ConfirmationRequired: true}}}
	if result := Evaluate([]Rule{required}, Input{}); result.AllPassed {
		t.Fatal("expected failure without confirmation")
	}
	confirmed := Evaluate([]Rule{required}, Input{Notes: `{"attendanceConfirmed": true}`})
	if !confirmed.AllPassed {
		t.Fatal("expected pass with recorded confirmation")
	}
}

func TestEvaluateMissingConfigFailsWithDetail(t *testing.T) {
	rules := []Rule{
		{ID: "r1", Type: RuleTypeAssessmentPass},
		{ID: "r2", Type: RuleTypeEvidenceUpload},
		{ID: "r3", Type: RuleTypeWatchTime},
	}
	result := Evaluate(rules, Input{})
	if result.AllPassed {
		t.Fatal("expected misconfigured rules to fail")
	}
	for _, evaluation := range result.Rules {
		if evaluation.Passed {
			t.Fatalf("expected rule %s to fail", evaluation.RuleID)
		}
		if evaluation.Detail == "" {
			t.Fatalf("expected explanatory detail for rule %s", evaluation.RuleID)
		}
	}
}

func TestEvaluateAllMustPass(t *testing.T) {
	rules := []Rule{
		{ID: "pass", Type: RuleTypeAttendance, Config: Config{Attendance: &AttendanceConfig{}}},
		{ID: "fail", Type: RuleTypeWatchTime, Config: Config{WatchTime: &WatchTimeConfig{MinPercent: 50}}},
	}
	result := Evaluate(rules, Input{})
	if result.AllPassed {
		t.Fatal("expected one failing rule to withhold eligibility")
	}
	if result.EligibleForCertificate {
		t.Fatal("expected no partial certificate eligibility")
	}
	if len(result.Rules) != 2 {
		t.Fatalf("expected both rules evaluated, got %d", len(result.Rules))
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	rules := []Rule{{
		ID:     "rule-1",
		Type:   RuleTypeAssessmentPass,
		Config: Config{Assessment: &AssessmentConfig{MinScore: 70}},
	}}
	in := Input{Attempts: []Attempt{{Passed: true, Score: 80}}}

	first := Evaluate(rules, in)
	second := Evaluate(rules, in)
	if first.AllPassed != second.AllPassed || len(first.Rules) != len(second.Rules) {
		t.Fatal("expected identical results across evaluations")
	}
	for i := range first.Rules {
		if first.Rules[i] != second.Rules[i] {
			t.Fatalf("expected stable evaluation, got %+v vs %+v", first.Rules[i], second.Rules[i])
		}
	}
}

func TestRuleTypeRoundTrip(t *testing.T) {
	for _, ruleType := range []RuleType{RuleTypeAssessmentPass, RuleTypeEvidenceUpload, RuleTypeWatchTime, RuleTypeAttendance} {
		if got := RuleTypeFromString(ruleType.String()); got != ruleType {
			t.Fatalf("round trip failed for %v: got %v", ruleType, got)
		}
	}
	if RuleTypeFromString("bogus") != RuleTypeUnspecified {
		t.Fatal("expected unknown label to map to unspecified")
	}
}

func TestParseConfigLenient(t *testing.T) {
	cfg := ParseConfig(RuleTypeAssessmentPass, `{"assessmentId":"a-1","minScore":70}`)
	if cfg.Assessment == nil || cfg.Assessment.AssessmentID != "a-1" || cfg.Assessment.MinScore != 70 {
		t.Fatalf("unexpected assessment config %+v", cfg.Assessment)
	}

	// Malformed payloads degrade to zero values, not errors.
	cfg = ParseConfig(RuleTypeAssessmentPass, `not json at all`)
	if cfg.Assessment == nil || cfg.Assessment.MinScore != 0 {
		t.Fatalf("expected lenient fallback, got %+v", cfg.Assessment)
	}

	cfg = ParseConfig(RuleTypeEvidenceUpload, `{"minCount":2,"requiredKinds":["certificate","transcript"]}`)
	if cfg.Evidence == nil || cfg.Evidence.MinCount != 2 || len(cfg.Evidence.RequiredKinds) != 2 {
		t.Fatalf("unexpected evidence config %+v", cfg.Evidence)
	}

	cfg = ParseConfig(RuleTypeWatchTime, `{"minPercent":85.5}`)
	if cfg.WatchTime == nil || cfg.WatchTime.MinPercent != 85.5 {
		t.Fatalf("unexpected watch-time config %+v", cfg.WatchTime)
	}

	cfg = ParseConfig(RuleTypeAttendance, `{"confirmationRequired":true}`)
	if cfg.Attendance == nil || !cfg.Attendance.ConfirmationRequired {
		t.Fatalf("unexpected attendance config %+v", cfg.Attendance)
	}

	if cfg := ParseConfig(RuleTypeUnspecified, `{}`); cfg != (Config{}) {
		t.Fatalf("expected empty config for unknown type, got %+v", cfg)
	}
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	original := Config{Evidence: &EvidenceConfig{MinCount: 3, RequiredKinds: []string{"certificate"}}}
	parsed := ParseConfig(RuleTypeEvidenceUpload, EncodeConfig(original))
	if parsed.Evidence == nil || parsed.Evidence.MinCount != 3 || len(parsed.Evidence.RequiredKinds) != 1 {
		t.Fatalf("round trip lost data: %+v", parsed.Evidence)
	}
}
