// Package audit records operational events alongside the data they concern.
// Events are best-effort: a failed append is logged and never fails the
// operation that produced it.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/recertify/recertify/internal/platform/id"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// Severity labels for audit events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Event names emitted by the engine.
const (
	EventRulePackCreated      = "rule_pack.created"
	EventAllocationsReplaced  = "allocations.replaced"
	EventCertificateIssued    = "certificate.issued"
	EventCertificateRevoked   = "certificate.revoked"
	EventLoggedActivityErased = "logged_activity.deleted"
	EventMalformedStoredData  = "stored_data.malformed"
	EventConfigurationGap     = "configuration.gap"
)

// Emitter appends audit events to the store.
type Emitter struct {
	store       storage.AuditStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewEmitter returns an Emitter writing to the given store. A nil store
// yields an emitter that only logs.
func NewEmitter(store storage.AuditStore) *Emitter {
	return &Emitter{store: store, clock: time.Now, idGenerator: id.NewID}
}

// Emit records an event. Failures are logged, not returned; audit is an
// observability surface and must never veto the underlying operation.
func (e *Emitter) Emit(ctx context.Context, eventName, severity, entityKind, entityID, detail string) {
	if e == nil {
		return
	}
	if severity == "" {
		severity = SeverityInfo
	}
	if e.store == nil {
		log.Printf("audit %s %s %s/%s: %s", severity, eventName, entityKind, entityID, detail)
		return
	}

	eventID, err := e.idGenerator()
	if err != nil {
		log.Printf("audit id generation failed for %s: %v", eventName, err)
		return
	}
	event := storage.AuditEvent{
		ID:         eventID,
		EventName:  eventName,
		Severity:   severity,
		EntityKind: entityKind,
		EntityID:   entityID,
		Detail:     detail,
		Timestamp:  e.clock(),
	}
	if err := e.store.AppendAuditEvent(ctx, event); err != nil {
		log.Printf("audit append failed for %s %s/%s: %v", eventName, entityKind, entityID, err)
	}
}
