// Package timeouts defines shared timeout constants used across the engine.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// EngineRequest caps the time allowed for a single engine operation,
// including its store reads and any transactional write. Engine calls are
// short-lived; transactional operations roll back cleanly on expiry.
const EngineRequest = 2 * time.Second

// GRPCDial caps the wait time when dialing the compliance gRPC endpoint.
const GRPCDial = 2 * time.Second

// Shutdown limits how long the server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
