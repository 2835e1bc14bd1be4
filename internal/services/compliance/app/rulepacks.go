package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/services/compliance/domain/credential"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// CreateRulePackInput describes a requested rule pack.
type CreateRulePackInput struct {
	CredentialID  string
	EffectiveFrom time.Time
	Rules         string
	Changelog     string
}

// CreateRulePack creates the next rule pack version for a credential. The
// version assignment and the closing of the previously open pack happen in
// one store transaction.
func (e *Engine) CreateRulePack(ctx context.Context, in CreateRulePackInput) (credential.RulePack, error) {
	ctx, done := e.begin(ctx, "CreateRulePack")
	defer done()

	if _, err := e.store.GetCredential(ctx, in.CredentialID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return credential.RulePack{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"credential not found", map[string]string{"credential_id": in.CredentialID})
		}
		return credential.RulePack{}, fmt.Errorf("load credential: %w", err)
	}

	pack, err := credential.CreateRulePack(credential.CreateRulePackInput{
		CredentialID:  in.CredentialID,
		EffectiveFrom: in.EffectiveFrom,
		Rules:         in.Rules,
		Changelog:     in.Changelog,
	}, e.clock, e.idGenerator)
	if err != nil {
		return credential.RulePack{}, err
	}

	created, err := e.store.CreateRulePack(ctx, pack)
	if err != nil {
		return credential.RulePack{}, err
	}

	e.audit.Emit(ctx, audit.EventRulePackCreated, audit.SeverityInfo,
		"credential", in.CredentialID,
		fmt.Sprintf("rule pack version %d effective %s", created.Version,
			created.EffectiveFrom.Format(time.DateOnly)))
	return created, nil
}

// RulePackForDate returns the rule pack in force for a credential on the
// given date. No pack covering the date is an expected configuration state,
// reported via ok=false rather than an error.
func (e *Engine) RulePackForDate(ctx context.Context, credentialID string, date time.Time) (pack credential.RulePack, ok bool, err error) {
	ctx, done := e.begin(ctx, "RulePackForDate")
	defer done()

	pack, err = e.store.GetRulePackForDate(ctx, credentialID, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.audit.Emit(ctx, audit.EventConfigurationGap, audit.SeverityInfo,
				"credential", credentialID,
				"no rule pack in force on "+credential.DateOnly(date).Format(time.DateOnly))
			return credential.RulePack{}, false, nil
		}
		return credential.RulePack{}, false, fmt.Errorf("load rule pack: %w", err)
	}
	return pack, true, nil
}
