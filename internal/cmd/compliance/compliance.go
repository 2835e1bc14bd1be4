// Package compliance parses compliance command flags and starts the engine
// service.
package compliance

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/recertify/recertify/internal/platform/cmd"
	platformgrpc "github.com/recertify/recertify/internal/platform/grpc"
	"github.com/recertify/recertify/internal/platform/timeouts"
	server "github.com/recertify/recertify/internal/services/compliance/app"
)

// Config holds compliance command configuration.
type Config struct {
	Port  int    `env:"RECERTIFY_COMPLIANCE_PORT" envDefault:"8080"`
	Addr  string `env:"RECERTIFY_COMPLIANCE_ADDR"`
	Check string `env:"RECERTIFY_COMPLIANCE_CHECK_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The compliance server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The compliance server listen address (overrides -port)")
	fs.StringVar(&cfg.Check, "check", cfg.Check, "Probe the compliance health endpoint at this address and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the compliance engine service, or probes a running one when a
// check address is configured.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Check != "" {
		return Check(ctx, cfg.Check)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCompliance, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}

// Check dials the compliance health endpoint and reports whether the service
// is serving. Container healthchecks run the binary with -check instead of
// shipping a separate probe.
func Check(ctx context.Context, addr string) error {
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, timeouts.GRPCDial, log.Printf,
		platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		return fmt.Errorf("compliance health check: %w", err)
	}
	return conn.Close()
}
