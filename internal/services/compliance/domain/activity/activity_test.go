package activity

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func staticID() (string, error) {
	return "act-test-id", nil
}

func TestCreateActivityDefaultsToDraft(t *testing.T) {
	act, err := CreateActivity(CreateActivityInput{
		Type:  TypeWebinar,
		Title: " Ethics in Practice ",
	}, fixedClock, staticID)
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if act.Status != PublishStatusDraft {
		t.Fatalf("expected draft status, got %d", act.Status)
	}
	if act.Title != "Ethics in Practice" {
		t.Fatalf("expected trimmed title, got %q", act.Title)
	}
}

func TestCreateActivityValidation(t *testing.T) {
	if _, err := CreateActivity(CreateActivityInput{Type: TypeVideo}, fixedClock, staticID); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected empty title error, got %v", err)
	}
	if _, err := CreateActivity(CreateActivityInput{Title: "t"}, fixedClock, staticID); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type error, got %v", err)
	}
	if _, err := CreateActivity(CreateActivityInput{Title: "t", Type: Type(99)}, fixedClock, staticID); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type error for out-of-range value, got %v", err)
	}
}

func TestCreateCreditMappingNormalizes(t *testing.T) {
	mapping, err := CreateCreditMapping(CreateCreditMappingInput{
		ActivityID:     "act-1",
		Country:        " us ",
		StateProvinces: []string{" ny", "ca ", ""},
		Exclusions:     []string{"tx"},
		CreditCategory: " Ethics ",
		CreditAmount:   1.5,
	}, staticID)
	if err != nil {
		t.Fatalf("create mapping: %v", err)
	}
	if mapping.Country != "US" {
		t.Fatalf("expected upper-cased country, got %q", mapping.Country)
	}
	if len(mapping.StateProvinces) != 2 || mapping.StateProvinces[0] != "NY" || mapping.StateProvinces[1] != "CA" {
		t.Fatalf("expected normalized inclusion list, got %v", mapping.StateProvinces)
	}
	if len(mapping.Exclusions) != 1 || mapping.Exclusions[0] != "TX" {
		t.Fatalf("expected normalized exclusion list, got %v", mapping.Exclusions)
	}
	if mapping.CreditCategory != "ethics" {
		t.Fatalf("expected lower-cased category, got %q", mapping.CreditCategory)
	}
	if mapping.CreditUnit != DefaultCreditUnit {
		t.Fatalf("expected default credit unit, got %q", mapping.CreditUnit)
	}
}

func TestCreateCreditMappingValidation(t *testing.T) {
	valid := CreateCreditMappingInput{
		ActivityID:     "act-1",
		Country:        "US",
		CreditCategory: "general",
		CreditAmount:   1,
	}

	missingActivity := valid
	missingActivity.ActivityID = ""
	if _, err := CreateCreditMapping(missingActivity, staticID); !errors.Is(err, ErrMappingEmptyActivityID) {
		t.Fatalf("expected empty activity error, got %v", err)
	}

	missingCountry := valid
	missingCountry.Country = " "
	if _, err := CreateCreditMapping(missingCountry, staticID); !errors.Is(err, ErrMappingEmptyCountry) {
		t.Fatalf("expected empty country error, got %v", err)
	}

	missingCategory := valid
	missingCategory.CreditCategory = ""
	if _, err := CreateCreditMapping(missingCategory, staticID); !errors.Is(err, ErrMappingEmptyCategory) {
		t.Fatalf("expected empty category error, got %v", err)
	}

	zeroAmount := valid
	zeroAmount.CreditAmount = 0
	if _, err := CreateCreditMapping(zeroAmount, staticID); !errors.Is(err, ErrMappingInvalidAmount) {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
}

func TestCreateLoggedActivityDefaults(t *testing.T) {
	logged, err := CreateLoggedActivity(CreateLoggedActivityInput{
		ProfessionalID: "pro-1",
		Title:          "State Bar CLE Day",
		ActivityType:   " Structured ",
		Hours:          3,
		Status:         LoggedStatusCompleted,
		Category:       " Ethics ",
	}, fixedClock, staticID)
	if err != nil {
		t.Fatalf("create logged activity: %v", err)
	}
	if logged.Source != SourceManual {
		t.Fatalf("expected manual source default, got %d", logged.Source)
	}
	if logged.EvidenceTier != EvidenceTierSelfAttested {
		t.Fatalf("expected self-attested tier default, got %d", logged.EvidenceTier)
	}
	if logged.ActivityType != "structured" {
		t.Fatalf("expected normalized activity type, got %q", logged.ActivityType)
	}
	if logged.Category != "ethics" {
		t.Fatalf("expected normalized category, got %q", logged.Category)
	}
}

func TestCreateLoggedActivityValidation(t *testing.T) {
	if _, err := CreateLoggedActivity(CreateLoggedActivityInput{Hours: 1, Status: LoggedStatusPlanned}, fixedClock, staticID); !errors.Is(err, ErrLoggedEmptyTitle) {
		t.Fatalf("expected empty title error, got %v", err)
	}
	if _, err := CreateLoggedActivity(CreateLoggedActivityInput{Title: "t", Status: LoggedStatusPlanned}, fixedClock, staticID); !errors.Is(err, ErrLoggedInvalidHours) {
		t.Fatalf("expected invalid hours error, got %v", err)
	}
	if _, err := CreateLoggedActivity(CreateLoggedActivityInput{Title: "t", Hours: 1}, fixedClock, staticID); !errors.Is(err, ErrLoggedInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestLoggedActivityDeletable(t *testing.T) {
	manual := LoggedActivity{Source: SourceManual}
	if err := manual.Deletable(); err != nil {
		t.Fatalf("expected manual record deletable, got %v", err)
	}

	platform := LoggedActivity{Source: SourcePlatform}
	if err := platform.Deletable(); !errors.Is(err, ErrLoggedImmutable) {
		t.Fatalf("expected platform record immutable, got %v", err)
	}
}

func TestCertificateActive(t *testing.T) {
	if !(Certificate{Status: CertificateStatusActive}).Active() {
		t.Fatal("expected active certificate")
	}
	if (Certificate{Status: CertificateStatusRevoked}).Active() {
		t.Fatal("expected revoked certificate inactive")
	}
}
