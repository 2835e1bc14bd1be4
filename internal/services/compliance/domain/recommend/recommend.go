// Package recommend ranks catalog activities against one holding's open
// compliance gap using a weighted match score with deadline amplification.
package recommend

import (
	"math"
	"sort"

	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/domain/credit"
	"github.com/recertify/recertify/internal/services/compliance/domain/gap"
)

// GapCategory names which open quota a ranking targets.
type GapCategory string

const (
	// CategoryEthics targets the ethics sub-quota.
	CategoryEthics GapCategory = "ethics"
	// CategoryStructured targets the structured/verifiable sub-quota.
	CategoryStructured GapCategory = "structured"
	// CategoryGeneral targets the overall hours requirement.
	CategoryGeneral GapCategory = "general"
)

// DefaultLimit is the number of ranked activities returned per category per
// holding.
const DefaultLimit = 5

// Match score weights.
const (
	weightCredentialMatch = 10
	weightCategoryMatch   = 8
	weightRegionMatch     = 5
	weightAssessment      = 3
	weightWildcardMatch   = 2
)

// Candidate pairs a published catalog activity with its credit mappings.
type Candidate struct {
	Activity activity.Activity
	Mappings []activity.CreditMapping
}

// Ranked is one scored recommendation.
type Ranked struct {
	ActivityID string
	Title      string
	Category   GapCategory
	Score      int
}

// Rank scores candidates for one gap category and holding scope, drops
// non-matches, and returns the top entries in descending score order.
// Ties break by ascending activity ID so rankings are reproducible.
func Rank(candidates []Candidate, category GapCategory, scope credit.Scope, daysUntilDeadline *int, limit int) []Ranked {
	if limit <= 0 {
		limit = DefaultLimit
	}

	urgency := gap.DeadlineUrgency(daysUntilDeadline)
	ranked := make([]Ranked, 0, len(candidates))
	for _, candidate := range candidates {
		score := Score(candidate, category, scope, urgency)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, Ranked{
			ActivityID: candidate.Activity.ID,
			Title:      candidate.Activity.Title,
			Category:   category,
			Score:      score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ActivityID < ranked[j].ActivityID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Score computes the weighted match score for one candidate. Activities with
// no match at all score zero and are excluded from rankings.
func Score(candidate Candidate, category GapCategory, scope credit.Scope, urgency gap.Urgency) int {
	score := 0

	if scope.CredentialID != "" && anyMapping(candidate.Mappings, func(m activity.CreditMapping) bool {
		return m.CredentialID == scope.CredentialID
	}) {
		score += weightCredentialMatch
	}
	if scope.Region != "" && anyMapping(candidate.Mappings, func(m activity.CreditMapping) bool {
		return m.Country == scope.Region
	}) {
		score += weightRegionMatch
	}
	if anyMapping(candidate.Mappings, func(m activity.CreditMapping) bool {
		return m.Country == activity.CountryInternational
	}) {
		score += weightWildcardMatch
	}
	if anyMapping(candidate.Mappings, func(m activity.CreditMapping) bool {
		return matchesCategory(m, category)
	}) {
		score += weightCategoryMatch
	}
	if candidate.Activity.HasAssessment || candidate.Activity.Type == activity.TypeAssessment {
		score += weightAssessment
	}

	if score <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * amplifier(urgency)))
}

// matchesCategory reports whether one mapping grants credit toward the
// target gap category. The structured quota is tracked by the structured
// flag rather than a category name.
func matchesCategory(mapping activity.CreditMapping, category GapCategory) bool {
	switch category {
	case CategoryEthics:
		return mapping.CreditCategory == gap.CategoryEthics
	case CategoryStructured:
		return mapping.Structured
	case CategoryGeneral:
		return mapping.CreditCategory == string(CategoryGeneral)
	default:
		return false
	}
}

func amplifier(urgency gap.Urgency) float64 {
	switch urgency {
	case gap.UrgencyCritical:
		return 1.5
	case gap.UrgencySoon:
		return 1.2
	case gap.UrgencyApproaching:
		return 1.1
	default:
		return 1.0
	}
}

func anyMapping(mappings []activity.CreditMapping, match func(activity.CreditMapping) bool) bool {
	for _, m := range mappings {
		if match(m) {
			return true
		}
	}
	return false
}
