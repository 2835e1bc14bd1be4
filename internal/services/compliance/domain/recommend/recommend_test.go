package recommend

import (
	"testing"

	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/domain/credit"
	"github.com/recertify/recertify/internal/services/compliance/domain/gap"
)

func nyScope() credit.Scope {
	return credit.Scope{CredentialID: "cred-cpa", Region: "US", Jurisdiction: "NY"}
}

func candidate(id string, mappings ...activity.CreditMapping) Candidate {
	return Candidate{
		Activity: activity.Activity{ID: id, Title: "Activity " + id, Type: activity.TypeWebinar},
		Mappings: mappings,
	}
}

func TestScoreAccumulatesWeights(t *testing.T) {
	c := candidate("act-1", activity.CreditMapping{
		CredentialID:   "cred-cpa",
		Country:        "US",
		CreditCategory: "ethics",
		CreditAmount:   1,
	})

	// +10 credential, +5 region, +8 category.
	if got := Score(c, CategoryEthics, nyScope(), gap.UrgencyNone); got != 23 {
		t.Fatalf("expected score 23, got %d", got)
	}
}

func TestScoreWildcardAndAssessment(t *testing.T) {
	c := candidate("act-1", activity.CreditMapping{
		Country:        activity.CountryInternational,
		CreditCategory: "general",
		CreditAmount:   1,
	})
	c.Activity.HasAssessment = true

	// +2 wildcard, +8 category, +3 assessment.
	if got := Score(c, CategoryGeneral, nyScope(), gap.UrgencyNone); got != 13 {
		t.Fatalf("expected score 13, got %d", got)
	}
}

func TestScoreStructuredUsesFlag(t *testing.T) {
	c := candidate("act-1", activity.CreditMapping{
		Country:        "US",
		CreditCategory: "technical",
		Structured:     true,
		CreditAmount:   1,
	})

	// +5 region, +8 structured flag.
	if got := Score(c, CategoryStructured, nyScope(), gap.UrgencyNone); got != 13 {
		t.Fatalf("expected score 13, got %d", got)
	}
}

func TestScoreDeadlineAmplifier(t *testing.T) {
	c := candidate("act-1", activity.CreditMapping{
		CredentialID:   "cred-cpa",
		Country:        "US",
		CreditCategory: "ethics",
		CreditAmount:   1,
	})

	tests := []struct {
		name    string
		urgency gap.Urgency
		want    int
	}{
		{"none", gap.UrgencyNone, 23},
		{"approaching", gap.UrgencyApproaching, 25}, // 23 * 1.1 = 25.3
		{"soon", gap.UrgencySoon, 28},               // 23 * 1.2 = 27.6
		{"critical", gap.UrgencyCritical, 35},       // 23 * 1.5 = 34.5
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(c, CategoryEthics, nyScope(), tc.urgency); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestScoreZeroForNoMatch(t *testing.T) {
	c := candidate("act-1", activity.CreditMapping{
		Country:        "GB",
		CreditCategory: "technical",
		CreditAmount:   1,
	})
	if got := Score(c, CategoryEthics, nyScope(), gap.UrgencyCritical); got != 0 {
		t.Fatalf("expected zero score, amplifier must not apply, got %d", got)
	}
}

func TestRankOrdersAndLimits(t *testing.T) {
	strong := candidate("act-strong", activity.CreditMapping{
		CredentialID: "cred-cpa", Country: "US", CreditCategory: "ethics", CreditAmount: 1,
	})
	weak := candidate("act-weak", activity.CreditMapping{
		Country: activity.CountryInternational, CreditCategory: "ethics", CreditAmount: 1,
	})
	noMatch := candidate("act-none", activity.CreditMapping{
		Country: "GB", CreditCategory: "technical", CreditAmount: 1,
	})

	ranked := Rank([]Candidate{weak, noMatch, strong}, CategoryEthics, nyScope(), nil, 5)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked activities, got %d", len(ranked))
	}
	if ranked[0].ActivityID != "act-strong" {
		t.Fatalf("expected strongest first, got %q", ranked[0].ActivityID)
	}
	if ranked[1].ActivityID != "act-weak" {
		t.Fatalf("expected weak second, got %q", ranked[1].ActivityID)
	}

	limited := Rank([]Candidate{weak, strong}, CategoryEthics, nyScope(), nil, 1)
	if len(limited) != 1 || limited[0].ActivityID != "act-strong" {
		t.Fatalf("expected limit to keep top entry, got %v", limited)
	}
}

func TestRankTieBreaksByActivityID(t *testing.T) {
	mapping := activity.CreditMapping{Country: "US", CreditCategory: "ethics", CreditAmount: 1}
	b := candidate("act-b", mapping)
	a := candidate("act-a", mapping)

	ranked := Rank([]Candidate{b, a}, CategoryEthics, nyScope(), nil, 5)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked activities, got %d", len(ranked))
	}
	if ranked[0].ActivityID != "act-a" || ranked[1].ActivityID != "act-b" {
		t.Fatalf("expected deterministic id tie-break, got %q then %q", ranked[0].ActivityID, ranked[1].ActivityID)
	}
}

func TestRankDefaultLimit(t *testing.T) {
	mapping := activity.CreditMapping{Country: "US", CreditCategory: "ethics", CreditAmount: 1}
	candidates := make([]Candidate, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		candidates = append(candidates, candidate("act-"+id, mapping))
	}

	ranked := Rank(candidates, CategoryEthics, nyScope(), nil, 0)
	if len(ranked) != DefaultLimit {
		t.Fatalf("expected default limit of %d, got %d", DefaultLimit, len(ranked))
	}
}
