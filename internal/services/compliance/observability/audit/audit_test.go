package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recertify/recertify/internal/services/compliance/storage"
)

type recordingStore struct {
	events []storage.AuditEvent
	err    error
}

func (r *recordingStore) AppendAuditEvent(_ context.Context, event storage.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingStore) ListAuditEvents(context.Context, string, string) ([]storage.AuditEvent, error) {
	return r.events, nil
}

func TestEmitRecordsEvent(t *testing.T) {
	store := &recordingStore{}
	emitter := NewEmitter(store)
	emitter.clock = func() time.Time {
		return time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	}
	emitter.idGenerator = func() (string, error) { return "event-1", nil }

	emitter.Emit(context.Background(), EventRulePackCreated, "", "credential", "cred-1", "version 2")

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	got := store.events[0]
	if got.ID != "event-1" || got.EventName != EventRulePackCreated {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Severity != SeverityInfo {
		t.Fatalf("expected default severity info, got %q", got.Severity)
	}
	if got.EntityKind != "credential" || got.EntityID != "cred-1" {
		t.Fatalf("unexpected entity: %+v", got)
	}
}

func TestEmitNeverFailsCaller(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	emitter := NewEmitter(store)

	// Must not panic and must not propagate the store error.
	emitter.Emit(context.Background(), EventMalformedStoredData, SeverityWarning, "credit_mapping", "map-1", "bad scope list")

	var nilEmitter *Emitter
	nilEmitter.Emit(context.Background(), EventRulePackCreated, SeverityInfo, "", "", "")
}
