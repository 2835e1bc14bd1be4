package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/recertify/recertify/internal/services/compliance/domain/credit"
	"github.com/recertify/recertify/internal/services/compliance/domain/gap"
	"github.com/recertify/recertify/internal/services/compliance/domain/holding"
	"github.com/recertify/recertify/internal/services/compliance/domain/recommend"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// ComplianceGapView is one holding's compliance position, display-rounded.
type ComplianceGapView struct {
	HoldingID           string
	CredentialID        string
	CredentialName      string
	TotalCompleted      float64
	EthicsCompleted     float64
	StructuredCompleted float64
	TotalNeeded         float64
	EthicsNeeded        float64
	StructuredNeeded    float64
	ProgressPercent     int
	DaysUntilDeadline   *int
	Compliant           bool
}

// RecommendationGroup is one holding's ranked activities for one open gap
// category.
type RecommendationGroup struct {
	HoldingID    string
	CredentialID string
	Category     recommend.GapCategory
	Activities   []recommend.Ranked
}

// ComplianceSummary combines per-holding gaps with gap-closing
// recommendations. Message is set on neutral configuration-gap states.
type ComplianceSummary struct {
	PerCredential   []ComplianceGapView
	Recommendations []RecommendationGroup
	Message         string
}

// GetComplianceSummary computes every holding's compliance gap and ranks
// catalog activities against the open quotas. A professional with no
// holdings is an expected onboarding state and yields a neutral summary.
func (e *Engine) GetComplianceSummary(ctx context.Context, professionalID string) (ComplianceSummary, error) {
	ctx, done := e.begin(ctx, "GetComplianceSummary")
	defer done()

	holdings, err := e.store.ListHoldingsByProfessional(ctx, professionalID)
	if err != nil {
		return ComplianceSummary{}, fmt.Errorf("list holdings: %w", err)
	}
	if len(holdings) == 0 {
		e.audit.Emit(ctx, audit.EventConfigurationGap, audit.SeverityInfo,
			"professional", professionalID, "no credential holdings configured")
		return ComplianceSummary{
			Message: "no credential holdings configured for this professional",
		}, nil
	}

	perHolding, err := e.completedHoursPerHolding(ctx, professionalID, holdings)
	if err != nil {
		return ComplianceSummary{}, err
	}

	candidates, err := e.recommendationCandidates(ctx)
	if err != nil {
		return ComplianceSummary{}, err
	}

	now := e.clock()
	summary := ComplianceSummary{}
	for _, h := range holdings {
		cred, err := e.store.GetCredential(ctx, h.CredentialID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Dangling holding; report the gap, keep the rest of
				// the summary usable.
				e.audit.Emit(ctx, audit.EventConfigurationGap, audit.SeverityWarning,
					"holding", h.ID, "holding references a missing credential")
				summary.Message = "some holdings reference missing credentials and were skipped"
				continue
			}
			return ComplianceSummary{}, fmt.Errorf("load credential: %w", err)
		}

		g := gap.Compute(gap.Requirements{
			HoursRequired:   cred.HoursRequired,
			EthicsHours:     cred.EthicsHours,
			StructuredHours: cred.StructuredHours,
		}, h.BaselineHours, perHolding[h.ID], h.RenewalDeadline, now)

		summary.PerCredential = append(summary.PerCredential, ComplianceGapView{
			HoldingID:           h.ID,
			CredentialID:        cred.ID,
			CredentialName:      cred.Name,
			TotalCompleted:      round2(g.TotalCompleted),
			EthicsCompleted:     round2(g.EthicsCompleted),
			StructuredCompleted: round2(g.StructuredDone),
			TotalNeeded:         round2(g.TotalNeeded),
			EthicsNeeded:        round2(g.EthicsNeeded),
			StructuredNeeded:    round2(g.StructuredNeeded),
			ProgressPercent:     g.ProgressPercent,
			DaysUntilDeadline:   g.DaysUntilDeadline,
			Compliant:           g.Compliant,
		})

		scope := credit.Scope{
			CredentialID: h.CredentialID,
			Region:       cred.Region,
			Jurisdiction: h.Jurisdiction,
		}
		for _, target := range openCategories(g) {
			ranked := recommend.Rank(candidates, target, scope, g.DaysUntilDeadline, recommend.DefaultLimit)
			if len(ranked) == 0 {
				continue
			}
			summary.Recommendations = append(summary.Recommendations, RecommendationGroup{
				HoldingID:    h.ID,
				CredentialID: h.CredentialID,
				Category:     target,
				Activities:   ranked,
			})
		}
	}
	return summary, nil
}

// completedHoursPerHolding distributes the professional's completed records
// across holdings. A record with no allocations counts its full hours toward
// every holding; once allocations exist, only the allocated hours count and
// only toward the allocated holdings.
func (e *Engine) completedHoursPerHolding(ctx context.Context, professionalID string, holdings []holding.Holding) (map[string][]gap.CompletedRecord, error) {
	completed, err := e.store.ListCompletedByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list completed records: %w", err)
	}

	owned := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		owned[h.ID] = true
	}

	perHolding := make(map[string][]gap.CompletedRecord, len(holdings))
	for _, record := range completed {
		allocations, err := e.store.ListAllocationsByLoggedActivity(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("list allocations: %w", err)
		}

		if len(allocations) == 0 {
			for _, h := range holdings {
				perHolding[h.ID] = append(perHolding[h.ID], gap.CompletedRecord{
					Hours:        record.Hours,
					Category:     record.Category,
					ActivityType: record.ActivityType,
				})
			}
			continue
		}
		for _, alloc := range allocations {
			if !owned[alloc.HoldingID] {
				continue
			}
			perHolding[alloc.HoldingID] = append(perHolding[alloc.HoldingID], gap.CompletedRecord{
				Hours:        alloc.Hours,
				Category:     record.Category,
				ActivityType: record.ActivityType,
			})
		}
	}
	return perHolding, nil
}

func (e *Engine) recommendationCandidates(ctx context.Context) ([]recommend.Candidate, error) {
	activities, err := e.store.ListPublishedActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published activities: %w", err)
	}

	candidates := make([]recommend.Candidate, 0, len(activities))
	for _, a := range activities {
		mappings, err := e.store.ListMappingsByActivity(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("load mappings for %s: %w", a.ID, err)
		}
		candidates = append(candidates, recommend.Candidate{Activity: a, Mappings: mappings})
	}
	return candidates, nil
}

// openCategories lists the gap categories with an unmet quota, the targets
// recommendations are ranked against.
func openCategories(g gap.Gap) []recommend.GapCategory {
	var targets []recommend.GapCategory
	if g.EthicsNeeded > 0 {
		targets = append(targets, recommend.CategoryEthics)
	}
	if g.StructuredNeeded > 0 {
		targets = append(targets, recommend.CategoryStructured)
	}
	if g.TotalNeeded > 0 {
		targets = append(targets, recommend.CategoryGeneral)
	}
	return targets
}
