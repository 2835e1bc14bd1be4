// Package gap computes per-credential compliance progress against the hours
// requirements of a held credential's renewal cycle.
package gap

import (
	"math"
	"time"
)

// Structured activity type labels. Records logged with these types count
// toward the structured sub-quota.
const (
	ActivityTypeStructured = "structured"
	ActivityTypeVerifiable = "verifiable"
)

// CategoryEthics is the credit category counted toward the ethics sub-quota.
const CategoryEthics = "ethics"

// Requirements are the hour quotas a credential imposes per cycle.
type Requirements struct {
	// HoursRequired is nil for outcome-based bodies. Progress percent is
	// reported as zero in that case.
	HoursRequired   *float64
	EthicsHours     float64
	StructuredHours float64
}

// CompletedRecord is the slice of a completed logged activity that counts
// toward one holding: its (possibly allocated) hours plus categorization.
type CompletedRecord struct {
	Hours        float64
	Category     string
	ActivityType string
}

// Gap is the compliance position of one holding.
type Gap struct {
	TotalCompleted   float64
	EthicsCompleted  float64
	StructuredDone   float64
	TotalNeeded      float64
	EthicsNeeded     float64
	StructuredNeeded float64
	// ProgressPercent is clamped to [0, 100]; over-completion is common in
	// regulated professions and must not display as more than 100%.
	ProgressPercent int
	// DaysUntilDeadline is nil when no renewal deadline is set. Computed
	// from the server clock only, to avoid client timezone skew.
	DaysUntilDeadline *int
	Compliant         bool
}

// Urgency buckets deadline pressure for recommendation amplification.
type Urgency int

const (
	// UrgencyNone applies with no deadline or more than 90 days out.
	UrgencyNone Urgency = iota
	// UrgencyApproaching applies under 90 days.
	UrgencyApproaching
	// UrgencySoon applies under 60 days.
	UrgencySoon
	// UrgencyCritical applies under 30 days.
	UrgencyCritical
)

// Compute derives the compliance gap for one holding. Only completed records
// should be passed in; baseline covers self-reported history predating the
// system.
func Compute(req Requirements, baseline float64, records []CompletedRecord, deadline *time.Time, now time.Time) Gap {
	g := Gap{
		TotalCompleted:  baseline,
		EthicsCompleted: 0,
		StructuredDone:  0,
	}

	for _, record := range records {
		g.TotalCompleted += record.Hours
		if record.Category == CategoryEthics {
			g.EthicsCompleted += record.Hours
		}
		if record.ActivityType == ActivityTypeStructured || record.ActivityType == ActivityTypeVerifiable {
			g.StructuredDone += record.Hours
		}
	}

	var required float64
	if req.HoursRequired != nil {
		required = *req.HoursRequired
	}

	g.TotalNeeded = clampNonNegative(required - g.TotalCompleted)
	g.EthicsNeeded = clampNonNegative(req.EthicsHours - g.EthicsCompleted)
	g.StructuredNeeded = clampNonNegative(req.StructuredHours - g.StructuredDone)

	if required > 0 {
		percent := int(math.Round(g.TotalCompleted / required * 100))
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
		g.ProgressPercent = percent
	}

	if deadline != nil {
		days := daysUntil(*deadline, now)
		g.DaysUntilDeadline = &days
	}

	g.Compliant = g.TotalNeeded <= 0 && g.EthicsNeeded <= 0 && g.StructuredNeeded <= 0
	return g
}

// DeadlineUrgency classifies days-until-deadline into amplification buckets.
func DeadlineUrgency(daysUntilDeadline *int) Urgency {
	if daysUntilDeadline == nil {
		return UrgencyNone
	}
	switch days := *daysUntilDeadline; {
	case days < 30:
		return UrgencyCritical
	case days < 60:
		return UrgencySoon
	case days < 90:
		return UrgencyApproaching
	default:
		return UrgencyNone
	}
}

func clampNonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

// daysUntil is the ceiling of the millisecond distance between now and the
// deadline, in whole days. Past deadlines yield negative values.
func daysUntil(deadline, now time.Time) int {
	const dayMillis = 86400000
	diff := deadline.UTC().UnixMilli() - now.UTC().UnixMilli()
	return int(math.Ceil(float64(diff) / dayMillis))
}
