package app

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/services/compliance/domain/credit"
	"github.com/recertify/recertify/internal/services/compliance/domain/holding"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// CreditView is the per-holding answer to "what is this activity worth".
type CreditView struct {
	ActivityID   string
	HoldingID    string
	CredentialID string
	Eligible     bool
	TotalCredits float64
	CreditUnit   string
	Categories   []credit.CategoryCredit
}

// ResolveCredits computes eligibility and credit total for one activity
// under one credential holding's jurisdictional scope.
func (e *Engine) ResolveCredits(ctx context.Context, activityID, holdingID string) (CreditView, error) {
	ctx, done := e.begin(ctx, "ResolveCredits")
	defer done()

	h, err := e.store.GetHolding(ctx, holdingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CreditView{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"credential holding not found", map[string]string{"holding_id": holdingID})
		}
		return CreditView{}, fmt.Errorf("load holding: %w", err)
	}
	if err := e.ensureActivity(ctx, activityID); err != nil {
		return CreditView{}, err
	}

	return e.resolveForHolding(ctx, activityID, h)
}

// ResolveCreditsForAllHoldings resolves an activity against every holding of
// a professional, one CreditView per held credential. A professional with no
// holdings yields an empty slice, not an error.
func (e *Engine) ResolveCreditsForAllHoldings(ctx context.Context, activityID, professionalID string) ([]CreditView, error) {
	ctx, done := e.begin(ctx, "ResolveCreditsForAllHoldings")
	defer done()

	if err := e.ensureActivity(ctx, activityID); err != nil {
		return nil, err
	}
	holdings, err := e.store.ListHoldingsByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}

	views := make([]CreditView, 0, len(holdings))
	for _, h := range holdings {
		view, err := e.resolveForHolding(ctx, activityID, h)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ensureActivity verifies the activity exists before any per-holding work,
// so an unknown activity is NotFound even for a professional with no
// holdings.
func (e *Engine) ensureActivity(ctx context.Context, activityID string) error {
	if _, err := e.store.GetActivity(ctx, activityID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeNotFound,
				"activity not found", map[string]string{"activity_id": activityID})
		}
		return fmt.Errorf("load activity: %w", err)
	}
	return nil
}

func (e *Engine) resolveForHolding(ctx context.Context, activityID string, h holding.Holding) (CreditView, error) {
	cred, err := e.store.GetCredential(ctx, h.CredentialID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CreditView{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"credential not found", map[string]string{"credential_id": h.CredentialID})
		}
		return CreditView{}, fmt.Errorf("load credential: %w", err)
	}

	mappings, err := e.store.ListMappingsByActivity(ctx, activityID)
	if err != nil {
		return CreditView{}, fmt.Errorf("load credit mappings: %w", err)
	}

	resolution := credit.Resolve(mappings, credit.Scope{
		CredentialID: h.CredentialID,
		Region:       cred.Region,
		Jurisdiction: h.Jurisdiction,
	})

	view := CreditView{
		ActivityID:   activityID,
		HoldingID:    h.ID,
		CredentialID: h.CredentialID,
		Eligible:     resolution.Eligible,
		TotalCredits: round2(resolution.TotalCredits),
		CreditUnit:   resolution.CreditUnit,
		Categories:   resolution.Categories,
	}
	for i := range view.Categories {
		view.Categories[i].Amount = round2(view.Categories[i].Amount)
	}
	return view, nil
}
