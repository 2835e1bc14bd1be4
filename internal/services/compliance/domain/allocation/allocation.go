// Package allocation splits one logged activity's hours across multiple
// credential holdings, enforcing the sum-of-allocations invariant.
package allocation

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
)

var (
	// ErrEmptyHoldingID indicates an allocation without a target holding.
	ErrEmptyHoldingID = apperrors.New(apperrors.CodeAllocationEmptyHolding, "allocation holding id is required")
	// ErrInvalidHours indicates a non-positive allocation amount.
	ErrInvalidHours = apperrors.New(apperrors.CodeAllocationInvalidHours, "allocation hours must be positive")
	// ErrDuplicateHolding indicates two allocations targeting one holding.
	ErrDuplicateHolding = apperrors.New(apperrors.CodeAllocationDuplicateHolding, "at most one allocation per holding is allowed")
	// ErrExceedsLoggedHours indicates the allocation sum exceeds the logged
	// activity's total hours.
	ErrExceedsLoggedHours = apperrors.New(apperrors.CodeAllocationExceedsHours, "allocated hours exceed logged activity hours")
)

// Allocation attributes a portion of one logged activity's hours to one
// credential holding.
type Allocation struct {
	ID               string
	LoggedActivityID string
	HoldingID        string
	Hours            float64
	CreatedAt        time.Time
}

// Summary reports the result of an allocation replacement.
type Summary struct {
	TotalAllocated float64
	Unallocated    float64
}

// ValidateReplacement checks a proposed replacement set against a logged
// activity's total hours. Validation happens before any mutation; the store
// applies an accepted set atomically.
func ValidateReplacement(loggedHours float64, allocations []Allocation) (Summary, error) {
	seen := make(map[string]bool, len(allocations))
	total := 0.0
	for _, alloc := range allocations {
		if strings.TrimSpace(alloc.HoldingID) == "" {
			return Summary{}, ErrEmptyHoldingID
		}
		if alloc.Hours <= 0 {
			return Summary{}, apperrors.WithMetadata(apperrors.CodeAllocationInvalidHours,
				"allocation hours must be positive",
				map[string]string{"holdingId": alloc.HoldingID, "hours": formatHours(alloc.Hours)})
		}
		if seen[alloc.HoldingID] {
			return Summary{}, apperrors.WithMetadata(apperrors.CodeAllocationDuplicateHolding,
				"at most one allocation per holding is allowed",
				map[string]string{"holdingId": alloc.HoldingID})
		}
		seen[alloc.HoldingID] = true
		total += alloc.Hours
	}

	total = Round2(total)
	capacity := Round2(loggedHours)
	if total > capacity {
		return Summary{}, apperrors.WithMetadata(apperrors.CodeAllocationExceedsHours,
			fmt.Sprintf("allocated %s hours exceed logged %s hours", formatHours(total), formatHours(capacity)),
			map[string]string{"allocated": formatHours(total), "available": formatHours(capacity)})
	}

	return Summary{
		TotalAllocated: total,
		Unallocated:    Round2(capacity - total),
	}, nil
}

// Round2 rounds to two decimal places, the display precision for all engine
// numeric outputs.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func formatHours(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
