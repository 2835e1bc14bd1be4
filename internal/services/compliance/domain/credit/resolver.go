// Package credit resolves how much regulatory credit an activity's mappings
// grant under one credential holding's jurisdictional scope.
package credit

import (
	"github.com/recertify/recertify/internal/services/compliance/domain/activity"
)

// Scope captures the jurisdictional view of a single credential holding.
// Resolution runs once per held credential; the same activity commonly
// yields different totals for different credentials of one professional.
type Scope struct {
	// CredentialID identifies the held credential.
	CredentialID string
	// Region is the credential's country code, e.g. "US".
	Region string
	// Jurisdiction is the holding's state/province subcode, e.g. "NY".
	Jurisdiction string
}

// CategoryCredit is one surviving mapping's contribution.
type CategoryCredit struct {
	Category         string
	Amount           float64
	Structured       bool
	ValidationMethod string
}

// Resolution is the outcome of resolving an activity for one holding.
type Resolution struct {
	Eligible     bool
	TotalCredits float64
	CreditUnit   string
	Categories   []CategoryCredit
}

// Resolve filters an activity's credit mappings against a holding's scope
// and sums the surviving rows.
//
// A mapping survives when its country matches the credential's region or the
// international wildcard, its credential restriction (if any) matches the
// held credential, the holding's jurisdiction is not excluded, and the
// inclusion list (if any) contains the holding's jurisdiction. Upstream
// readers already degrade malformed inclusion/exclusion payloads to nil,
// which resolves as "no restriction".
func Resolve(mappings []activity.CreditMapping, scope Scope) Resolution {
	result := Resolution{CreditUnit: activity.DefaultCreditUnit}

	for _, mapping := range mappings {
		if !matches(mapping, scope) {
			continue
		}
		if !result.Eligible {
			// Unit comes from the first surviving row.
			result.Eligible = true
			if mapping.CreditUnit != "" {
				result.CreditUnit = mapping.CreditUnit
			}
		}
		result.TotalCredits += mapping.CreditAmount
		result.Categories = append(result.Categories, CategoryCredit{
			Category:         mapping.CreditCategory,
			Amount:           mapping.CreditAmount,
			Structured:       mapping.Structured,
			ValidationMethod: mapping.ValidationMethod,
		})
	}

	return result
}

func matches(mapping activity.CreditMapping, scope Scope) bool {
	// Zero-amount rows never grant credit and never establish eligibility.
	if mapping.CreditAmount <= 0 {
		return false
	}
	if mapping.Country != scope.Region && mapping.Country != activity.CountryInternational {
		return false
	}
	if mapping.CredentialID != "" && mapping.CredentialID != scope.CredentialID {
		return false
	}
	for _, excluded := range mapping.Exclusions {
		if excluded == scope.Jurisdiction {
			return false
		}
	}
	if len(mapping.StateProvinces) > 0 && !contains(mapping.StateProvinces, scope.Jurisdiction) {
		return false
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
