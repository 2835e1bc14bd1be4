// Package app composes the compliance engine: the in-process operations the
// API layer and background jobs call. The engine is stateless; every
// operation is a synchronous computation over store reads, so calls for
// different professionals run fully in parallel.
package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/recertify/recertify/internal/platform/id"
	"github.com/recertify/recertify/internal/platform/timeouts"
	"github.com/recertify/recertify/internal/services/compliance/domain/allocation"
	"github.com/recertify/recertify/internal/services/compliance/observability/audit"
	"github.com/recertify/recertify/internal/services/compliance/storage"
)

// Engine exposes the compliance operations over a storage backend.
type Engine struct {
	store       storage.Store
	audit       *audit.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
	tracer      trace.Tracer
}

// NewEngine creates an Engine over the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{
		store:       store,
		audit:       audit.NewEmitter(store),
		clock:       time.Now,
		idGenerator: id.NewID,
		tracer:      otel.Tracer("recertify/compliance"),
	}
}

// begin opens the trace span for an engine operation and bounds it with the
// shared request timeout. Transactional writes roll back cleanly on expiry.
func (e *Engine) begin(ctx context.Context, name string) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.EngineRequest)
	ctx, span := e.tracer.Start(ctx, name)
	return ctx, func() {
		span.End()
		cancel()
	}
}

// round2 rounds engine outputs to two decimal places so display and
// validation agree on the same numbers.
func round2(value float64) float64 {
	return allocation.Round2(value)
}
