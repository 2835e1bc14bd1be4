package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/recertify/recertify/internal/platform/timeouts"
	"github.com/recertify/recertify/internal/services/compliance/storage/sqlite"
)

// Server hosts the compliance engine process. The engine itself is consumed
// in-process; the gRPC surface carries the health service so orchestration
// can probe readiness.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sqlite.Store
	engine     *Engine
}

// NewServer creates a configured compliance server listening on the
// provided port.
func NewServer(port int) (*Server, error) {
	return NewServerWithAddr(fmt.Sprintf(":%d", port))
}

// NewServerWithAddr creates a configured compliance server listening on the
// provided address.
func NewServerWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openComplianceStore()
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		engine:     NewEngine(store),
	}, nil
}

// Addr returns the listener address for the compliance server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Engine returns the compliance engine backed by the server's store.
func (s *Server) Engine() *Engine {
	if s == nil {
		return nil
	}
	return s.engine
}

// Run creates and serves a compliance server until the context ends.
func Run(ctx context.Context, port int) error {
	server, err := NewServer(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a compliance server on the given address
// until the context ends.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewServerWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the compliance server and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("compliance server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.stop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// stop drains in-flight requests, forcing a hard stop if draining exceeds
// the shutdown timeout.
func (s *Server) stop() {
	drained := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(timeouts.Shutdown):
		log.Printf("graceful stop exceeded %v, forcing stop", timeouts.Shutdown)
		s.grpcServer.Stop()
	}
}

func openComplianceStore() (*sqlite.Store, error) {
	path := strings.TrimSpace(os.Getenv("RECERTIFY_COMPLIANCE_DB_PATH"))
	if path == "" {
		path = filepath.Join("data", "compliance.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close compliance store: %v", err)
	}
}
