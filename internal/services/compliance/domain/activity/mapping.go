package activity

import (
	"strings"

	apperrors "github.com/recertify/recertify/internal/platform/errors"
	"github.com/recertify/recertify/internal/platform/id"
)

// CountryInternational is the wildcard country code matching every region.
const CountryInternational = "INTL"

// DefaultCreditUnit is assumed when a mapping does not name a unit.
const DefaultCreditUnit = "hours"

var (
	// ErrMappingEmptyActivityID indicates a mapping without an owner.
	ErrMappingEmptyActivityID = apperrors.New(apperrors.CodeMappingEmptyActivity, "credit mapping activity id is required")
	// ErrMappingEmptyCountry indicates a mapping without a country scope.
	ErrMappingEmptyCountry = apperrors.New(apperrors.CodeMappingEmptyCountry, "credit mapping country is required")
	// ErrMappingEmptyCategory indicates a mapping without a credit category.
	ErrMappingEmptyCategory = apperrors.New(apperrors.CodeMappingEmptyCategory, "credit mapping category is required")
	// ErrMappingInvalidAmount indicates a non-positive credit amount.
	ErrMappingInvalidAmount = apperrors.New(apperrors.CodeMappingInvalidAmount, "credit mapping amount must be positive")
)

// CreditMapping is one eligibility row owned by an activity. Many mappings
// may exist per activity to express jurisdictional variation.
type CreditMapping struct {
	ID         string
	ActivityID string
	// Country is an ISO-ish country code, or CountryInternational.
	Country string
	// StateProvinces is an inclusion list; empty means no restriction.
	StateProvinces []string
	// Exclusions lists jurisdictions the mapping never applies to.
	Exclusions []string
	// CredentialID restricts the mapping to one credential; empty means the
	// mapping applies to any credential in scope.
	CredentialID   string
	CreditCategory string
	CreditAmount   float64
	CreditUnit     string
	// Structured marks credit that counts toward structured/verifiable
	// sub-quotas.
	Structured bool
	// ValidationMethod names how completion is verified for this credit,
	// e.g. "assessment" or "attendance".
	ValidationMethod string
}

// CreateCreditMappingInput describes the data needed to create a mapping.
type CreateCreditMappingInput struct {
	ActivityID       string
	Country          string
	StateProvinces   []string
	Exclusions       []string
	CredentialID     string
	CreditCategory   string
	CreditAmount     float64
	CreditUnit       string
	Structured       bool
	ValidationMethod string
}

// CreateCreditMapping validates input and constructs a CreditMapping.
func CreateCreditMapping(in CreateCreditMappingInput, idGenerator func() (string, error)) (CreditMapping, error) {
	if strings.TrimSpace(in.ActivityID) == "" {
		return CreditMapping{}, ErrMappingEmptyActivityID
	}
	if strings.TrimSpace(in.Country) == "" {
		return CreditMapping{}, ErrMappingEmptyCountry
	}
	if strings.TrimSpace(in.CreditCategory) == "" {
		return CreditMapping{}, ErrMappingEmptyCategory
	}
	if in.CreditAmount <= 0 {
		return CreditMapping{}, ErrMappingInvalidAmount
	}

	if idGenerator == nil {
		idGenerator = id.NewID
	}
	newID, err := idGenerator()
	if err != nil {
		return CreditMapping{}, err
	}

	unit := strings.TrimSpace(in.CreditUnit)
	if unit == "" {
		unit = DefaultCreditUnit
	}

	return CreditMapping{
		ID:               newID,
		ActivityID:       in.ActivityID,
		Country:          strings.ToUpper(strings.TrimSpace(in.Country)),
		StateProvinces:   normalizeJurisdictions(in.StateProvinces),
		Exclusions:       normalizeJurisdictions(in.Exclusions),
		CredentialID:     in.CredentialID,
		CreditCategory:   strings.ToLower(strings.TrimSpace(in.CreditCategory)),
		CreditAmount:     in.CreditAmount,
		CreditUnit:       unit,
		Structured:       in.Structured,
		ValidationMethod: in.ValidationMethod,
	}, nil
}

func normalizeJurisdictions(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
