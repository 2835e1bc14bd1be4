package activity

import "strings"

// String returns the storage label for an activity type.
func (t Type) String() string {
	switch t {
	case TypeWebinar:
		return "webinar"
	case TypeVideo:
		return "video"
	case TypeArticle:
		return "article"
	case TypeAssessment:
		return "assessment"
	case TypeBundle:
		return "bundle"
	default:
		return "unspecified"
	}
}

// TypeFromString parses a storage label into a Type.
func TypeFromString(value string) Type {
	switch strings.TrimSpace(value) {
	case "webinar":
		return TypeWebinar
	case "video":
		return TypeVideo
	case "article":
		return TypeArticle
	case "assessment":
		return TypeAssessment
	case "bundle":
		return TypeBundle
	default:
		return TypeUnspecified
	}
}

// String returns the storage label for a publish status.
func (s PublishStatus) String() string {
	switch s {
	case PublishStatusDraft:
		return "draft"
	case PublishStatusReview:
		return "review"
	case PublishStatusPublished:
		return "published"
	case PublishStatusArchived:
		return "archived"
	default:
		return "unspecified"
	}
}

// PublishStatusFromString parses a storage label into a PublishStatus.
func PublishStatusFromString(value string) PublishStatus {
	switch strings.TrimSpace(value) {
	case "draft":
		return PublishStatusDraft
	case "review":
		return PublishStatusReview
	case "published":
		return PublishStatusPublished
	case "archived":
		return PublishStatusArchived
	default:
		return PublishStatusUnspecified
	}
}

// String returns the storage label for a logged status.
func (s LoggedStatus) String() string {
	switch s {
	case LoggedStatusCompleted:
		return "completed"
	case LoggedStatusInProgress:
		return "in-progress"
	case LoggedStatusPlanned:
		return "planned"
	default:
		return "unspecified"
	}
}

// LoggedStatusFromString parses a storage label into a LoggedStatus.
func LoggedStatusFromString(value string) LoggedStatus {
	switch strings.TrimSpace(value) {
	case "completed":
		return LoggedStatusCompleted
	case "in-progress":
		return LoggedStatusInProgress
	case "planned":
		return LoggedStatusPlanned
	default:
		return LoggedStatusUnspecified
	}
}

// String returns the storage label for a record source.
func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceImport:
		return "import"
	case SourceProvider:
		return "provider"
	case SourcePlatform:
		return "platform"
	default:
		return "unspecified"
	}
}

// SourceFromString parses a storage label into a Source.
func SourceFromString(value string) Source {
	switch strings.TrimSpace(value) {
	case "manual":
		return SourceManual
	case "import":
		return SourceImport
	case "provider":
		return SourceProvider
	case "platform":
		return SourcePlatform
	default:
		return SourceUnspecified
	}
}

// String returns the storage label for an evidence tier.
func (t EvidenceTier) String() string {
	switch t {
	case EvidenceTierSelfAttested:
		return "self-attested"
	case EvidenceTierDocumented:
		return "documented"
	case EvidenceTierVerified:
		return "verified"
	default:
		return "unspecified"
	}
}

// EvidenceTierFromString parses a storage label into an EvidenceTier.
func EvidenceTierFromString(value string) EvidenceTier {
	switch strings.TrimSpace(value) {
	case "self-attested":
		return EvidenceTierSelfAttested
	case "documented":
		return EvidenceTierDocumented
	case "verified":
		return EvidenceTierVerified
	default:
		return EvidenceTierUnspecified
	}
}

// String returns the storage label for a certificate status.
func (s CertificateStatus) String() string {
	switch s {
	case CertificateStatusActive:
		return "active"
	case CertificateStatusRevoked:
		return "revoked"
	default:
		return "unspecified"
	}
}

// CertificateStatusFromString parses a storage label into a
// CertificateStatus.
func CertificateStatusFromString(value string) CertificateStatus {
	switch strings.TrimSpace(value) {
	case "active":
		return CertificateStatusActive
	case "revoked":
		return CertificateStatusRevoked
	default:
		return CertificateStatusUnspecified
	}
}
