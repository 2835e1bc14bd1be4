package app

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
	"github.com/recertify/recertify/internal/services/compliance/domain/completion"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// EvaluateCompletion runs every completion rule attached to a logged
// activity. A record with no rules is trivially complete. The evaluation is
// pure over stored state: repeated calls with no writes in between return
// identical results.
func (e *Engine) EvaluateCompletion(ctx context.Context, loggedActivityID string) (completion.Result, error) {
	ctx, done := e.begin(ctx, "EvaluateCompletion")
	defer done()
	return e.evaluateCompletion(ctx, loggedActivityID)
}

func (e *Engine) evaluateCompletion(ctx context.Context, loggedActivityID string) (completion.Result, error) {
	logged, err := e.store.GetLoggedActivity(ctx, loggedActivityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return completion.Result{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"logged activity not found", map[string]string{"logged_activity_id": loggedActivityID})
		}
		return completion.Result{}, fmt.Errorf("load logged activity: %w", err)
	}

	rules, err := e.store.ListCompletionRules(ctx, loggedActivityID)
	if err != nil {
		return completion.Result{}, fmt.Errorf("load completion rules: %w", err)
	}

	attempts, err := e.store.ListAttemptsByProfessional(ctx, logged.ProfessionalID)
	if err != nil {
		return completion.Result{}, fmt.Errorf("load assessment attempts: %w", err)
	}
	evidence, err := e.store.ListEvidenceByLoggedActivity(ctx, loggedActivityID)
	if err != nil {
		return completion.Result{}, fmt.Errorf("load evidence files: %w", err)
	}

	in := completion.Input{Notes: logged.Notes}
	for _, a := range attempts {
		in.Attempts = append(in.Attempts, completion.Attempt{
			AssessmentID: a.AssessmentID,
			Passed:       a.Passed,
			Score:        a.Score,
		})
	}
	for _, f := range evidence {
		in.Evidence = append(in.Evidence, completion.EvidenceFile{Kind: f.Kind})
	}

	return completion.Evaluate(rules, in), nil
}

// IssueCertificate issues a certificate for a logged activity whose
// completion rules all pass. Issuance is idempotent: an existing active
// certificate is returned as-is. A revoked certificate blocks reissue.
func (e *Engine) IssueCertificate(ctx context.Context, loggedActivityID string) (activity.Certificate, error) {
	ctx, done := e.begin(ctx, "IssueCertificate")
	defer done()

	existing, err := e.store.GetCertificateByLoggedActivity(ctx, loggedActivityID)
	switch {
	case err == nil:
		if existing.Active() {
			return existing, nil
		}
		return activity.Certificate{}, apperrors.WithMetadata(apperrors.CodeCertificateRevoked,
			"certificate for this record was revoked and cannot be reissued",
			map[string]string{"certificate_id": existing.ID})
	case errors.Is(err, storage.ErrNotFound):
		// No certificate yet; fall through to evaluation.
	default:
		return activity.Certificate{}, fmt.Errorf("load certificate: %w", err)
	}

	result, err := e.evaluateCompletion(ctx, loggedActivityID)
	if err != nil {
		return activity.Certificate{}, err
	}
	if !result.EligibleForCertificate {
		return activity.Certificate{}, apperrors.WithMetadata(apperrors.CodeCertificateNotEligible,
			"completion rules have not all passed",
			map[string]string{"logged_activity_id": loggedActivityID})
	}

	logged, err := e.store.GetLoggedActivity(ctx, loggedActivityID)
	if err != nil {
		return activity.Certificate{}, fmt.Errorf("load logged activity: %w", err)
	}

	certID, err := e.idGenerator()
	if err != nil {
		return activity.Certificate{}, fmt.Errorf("generate certificate id: %w", err)
	}
	cert := activity.Certificate{
		ID:               certID,
		LoggedActivityID: loggedActivityID,
		ProfessionalID:   logged.ProfessionalID,
		IssuedAt:         e.clock(),
		Status:           activity.CertificateStatusActive,
	}
	stored, created, err := e.store.CreateCertificate(ctx, cert)
	if err != nil {
		return activity.Certificate{}, fmt.Errorf("store certificate: %w", err)
	}
	if !created {
		// A concurrent issuer won; converge on its certificate.
		if stored.Active() {
			return stored, nil
		}
		return activity.Certificate{}, apperrors.WithMetadata(apperrors.CodeCertificateRevoked,
			"certificate for this record was revoked and cannot be reissued",
			map[string]string{"certificate_id": stored.ID})
	}

	e.audit.Emit(ctx, audit.EventCertificateIssued, audit.SeverityInfo,
		"logged_activity", loggedActivityID, "certificate "+stored.ID+" issued")
	return stored, nil
}

// RevokeCertificate flips a certificate's revocation flag. The record is
// retained for audit; revoking an already revoked certificate is a no-op
// returning the stored record.
func (e *Engine) RevokeCertificate(ctx context.Context, certificateID, reason string) (activity.Certificate, error) {
	ctx, done := e.begin(ctx, "RevokeCertificate")
	defer done()

	cert, err := e.store.GetCertificate(ctx, certificateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return activity.Certificate{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				"certificate not found", map[string]string{"certificate_id": certificateID})
		}
		return activity.Certificate{}, fmt.Errorf("load certificate: %w", err)
	}
	if !cert.Active() {
		return cert, nil
	}

	revokedAt := e.clock()
	cert.Status = activity.CertificateStatusRevoked
	cert.RevokedAt = &revokedAt
	cert.RevocationReason = reason
	if err := e.store.PutCertificate(ctx, cert); err != nil {
		return activity.Certificate{}, fmt.Errorf("store certificate: %w", err)
	}

	e.audit.Emit(ctx, audit.EventCertificateRevoked, audit.SeverityWarning,
		"certificate", certificateID, reason)
	return cert, nil
}

// DeleteLoggedActivity removes a manually logged record. Platform-generated
// records and records backing an issued certificate are audit evidence and
// are refused with a precondition failure.
func (e *Engine) DeleteLoggedActivity(ctx context.Context, loggedActivityID string) error {
	ctx, done := e.begin(ctx, "DeleteLoggedActivity")
	defer done()

	err := e.store.DeleteLoggedActivity(ctx, loggedActivityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeNotFound,
				"logged activity not found", map[string]string{"logged_activity_id": loggedActivityID})
		}
		return err
	}

	e.audit.Emit(ctx, audit.EventLoggedActivityErased, audit.SeverityInfo,
		"logged_activity", loggedActivityID, "record deleted")
	return nil
}
