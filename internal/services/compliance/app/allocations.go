package app

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/services/compliance/domain/allocation"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// AllocationInput is one requested hours split.
type AllocationInput struct {
	HoldingID string
	Hours     float64
}

// AllocationSummary reports the accepted split.
type AllocationSummary struct {
	TotalAllocated float64
	Unallocated    float64
}

// SetAllocations replaces the allocation set for a logged activity. The
// whole set is validated against the sum-of-hours invariant before any
// mutation; the store then applies the replacement atomically.
func (e *Engine) SetAllocations(ctx context.Context, loggedActivityID string, inputs []AllocationInput) (AllocationSummary, error) {
	ctx, done := e.begin(ctx, "SetAllocations")
	defer done()

	logged, err := e.store.GetLoggedActivity(ctx, loggedActivityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AllocationSummary{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"logged activity not found", map[string]string{"logged_activity_id": loggedActivityID})
		}
		return AllocationSummary{}, fmt.Errorf("load logged activity: %w", err)
	}

	allocations := make([]allocation.Allocation, 0, len(inputs))
	for _, in := range inputs {
		if _, err := e.store.GetHolding(ctx, in.HoldingID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return AllocationSummary{}, apperrors.WithMetadata(apperrors.CodeNotFound,
					"credential holding not found", map[string]string{"holding_id": in.HoldingID})
			}
			return AllocationSummary{}, fmt.Errorf("load holding: %w", err)
		}
		allocID, err := e.idGenerator()
		if err != nil {
			return AllocationSummary{}, fmt.Errorf("generate allocation id: %w", err)
		}
		allocations = append(allocations, allocation.Allocation{
			ID:               allocID,
			LoggedActivityID: loggedActivityID,
			HoldingID:        in.HoldingID,
			Hours:            in.Hours,
			CreatedAt:        e.clock(),
		})
	}

	summary, err := allocation.ValidateReplacement(logged.Hours, allocations)
	if err != nil {
		return AllocationSummary{}, err
	}

	if err := e.store.ReplaceAllocations(ctx, loggedActivityID, allocations); err != nil {
		return AllocationSummary{}, fmt.Errorf("replace allocations: %w", err)
	}

	e.audit.Emit(ctx, audit.EventAllocationsReplaced, audit.SeverityInfo,
		"logged_activity", loggedActivityID,
		fmt.Sprintf("%d allocations replacing prior set", len(allocations)))

	return AllocationSummary{
		TotalAllocated: round2(summary.TotalAllocated),
		Unallocated:    round2(summary.Unallocated),
	}, nil
}
