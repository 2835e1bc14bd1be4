// Package errors provides structured error handling for the compliance engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Credential errors
	CodeCredentialNameEmpty    Code = "CREDENTIAL_NAME_EMPTY"
	CodeCredentialBodyEmpty    Code = "CREDENTIAL_ISSUING_BODY_EMPTY"
	CodeCredentialInvalidCycle Code = "CREDENTIAL_INVALID_CYCLE_LENGTH"
	CodeCredentialInvalidHours Code = "CREDENTIAL_INVALID_HOURS_REQUIRED"

	// Rule pack errors
	CodeRulePackEmptyCredentialID    Code = "RULE_PACK_EMPTY_CREDENTIAL_ID"
	CodeRulePackInvalidEffectiveFrom Code = "RULE_PACK_INVALID_EFFECTIVE_FROM"
	CodeRulePackEmptyRules           Code = "RULE_PACK_EMPTY_RULES"
	CodeRulePackEffectiveNotAfter    Code = "RULE_PACK_EFFECTIVE_NOT_AFTER_OPEN_PACK"

	// Holding errors
	CodeHoldingEmptyProfessionalID Code = "HOLDING_EMPTY_PROFESSIONAL_ID"
	CodeHoldingEmptyCredentialID   Code = "HOLDING_EMPTY_CREDENTIAL_ID"

	// Activity errors
	CodeActivityTitleEmpty  Code = "ACTIVITY_TITLE_EMPTY"
	CodeActivityInvalidType Code = "ACTIVITY_INVALID_TYPE"

	// Credit mapping errors
	CodeMappingEmptyCountry  Code = "MAPPING_EMPTY_COUNTRY"
	CodeMappingInvalidAmount Code = "MAPPING_INVALID_CREDIT_AMOUNT"
	CodeMappingEmptyCategory Code = "MAPPING_EMPTY_CREDIT_CATEGORY"
	CodeMappingEmptyActivity Code = "MAPPING_EMPTY_ACTIVITY_ID"

	// Logged activity errors
	CodeLoggedActivityInvalidHours  Code = "LOGGED_ACTIVITY_INVALID_HOURS"
	CodeLoggedActivityTitleEmpty    Code = "LOGGED_ACTIVITY_TITLE_EMPTY"
	CodeLoggedActivityInvalidStatus Code = "LOGGED_ACTIVITY_INVALID_STATUS"
	CodeLoggedActivityImmutable     Code = "LOGGED_ACTIVITY_IMMUTABLE"

	// Allocation errors
	CodeAllocationEmptyHolding     Code = "ALLOCATION_EMPTY_HOLDING_ID"
	CodeAllocationInvalidHours     Code = "ALLOCATION_INVALID_HOURS"
	CodeAllocationDuplicateHolding Code = "ALLOCATION_DUPLICATE_HOLDING"
	CodeAllocationExceedsHours     Code = "ALLOCATION_EXCEEDS_LOGGED_HOURS"

	// Completion rule errors
	CodeCompletionUnknownRuleType Code = "COMPLETION_UNKNOWN_RULE_TYPE"

	// Certificate errors
	CodeCertificateNotEligible Code = "CERTIFICATE_NOT_ELIGIBLE"
	CodeCertificateRevoked     Code = "CERTIFICATE_REVOKED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCredentialNameEmpty,
		CodeCredentialBodyEmpty,
		CodeCredentialInvalidCycle,
		CodeCredentialInvalidHours,
		CodeRulePackEmptyCredentialID,
		CodeRulePackInvalidEffectiveFrom,
		CodeRulePackEmptyRules,
		CodeHoldingEmptyProfessionalID,
		CodeHoldingEmptyCredentialID,
		CodeActivityTitleEmpty,
		CodeActivityInvalidType,
		CodeMappingEmptyCountry,
		CodeMappingInvalidAmount,
		CodeMappingEmptyCategory,
		CodeMappingEmptyActivity,
		CodeLoggedActivityInvalidHours,
		CodeLoggedActivityTitleEmpty,
		CodeLoggedActivityInvalidStatus,
		CodeAllocationEmptyHolding,
		CodeAllocationInvalidHours,
		CodeAllocationDuplicateHolding,
		CodeAllocationExceedsHours,
		CodeCompletionUnknownRuleType:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeRulePackEffectiveNotAfter,
		CodeLoggedActivityImmutable,
		CodeCertificateNotEligible,
		CodeCertificateRevoked:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
