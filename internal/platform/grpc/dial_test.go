package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialWithHealthSuccess(t *testing.T) {
	addr, _, stop := startHealthBackend(t, grpc_health_v1.HealthCheckResponse_SERVING)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := DialWithHealth(ctx, nil, addr, time.Second, nil, DefaultClientDialOptions()...)
	if err != nil {
		t.Fatalf("dial with health: %v", err)
	}
	if conn == nil {
		t.Fatal("expected connection")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialWithHealthClosesConnWhenNotServing(t *testing.T) {
	addr, _, stop := startHealthBackend(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	conn, err := DialWithHealth(ctx, nil, addr, time.Second, nil, DefaultClientDialOptions()...)
	if err == nil {
		t.Fatal("expected error")
	}
	if conn != nil {
		_ = conn.Close()
		t.Fatal("expected nil connection on error")
	}
}

func TestDialWithHealthBoundsHealthWaitByDialTimeout(t *testing.T) {
	addr, _, stop := startHealthBackend(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := DialWithHealth(ctx, nil, addr, 150*time.Millisecond, nil, DefaultClientDialOptions()...); err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Fatalf("expected dial timeout to bound health wait, took %v", elapsed)
	}
}

func TestDialWithHealthReportsFailureStage(t *testing.T) {
	failingDialer := DialerFunc(func(context.Context, string, ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
		return nil, fmt.Errorf("dial failure")
	})
	notServing, _, stop := startHealthBackend(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	tests := []struct {
		name   string
		dialer Dialer
		addr   string
		want   DialStage
	}{
		{name: "connect", dialer: failingDialer, addr: "unused", want: DialStageConnect},
		{name: "health", dialer: nil, addr: notServing, want: DialStageHealth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()

			_, err := DialWithHealth(ctx, tc.dialer, tc.addr, time.Second, nil, DefaultClientDialOptions()...)
			if err == nil {
				t.Fatal("expected error")
			}
			var dialErr *DialError
			if !errors.As(err, &dialErr) {
				t.Fatalf("expected DialError, got %T", err)
			}
			if dialErr.Stage != tc.want {
				t.Fatalf("expected stage %q, got %q", tc.want, dialErr.Stage)
			}
		})
	}
}

func TestDialErrorFormatting(t *testing.T) {
	wrapped := &DialError{Stage: DialStageConnect, Err: fmt.Errorf("boom")}
	if !strings.Contains(wrapped.Error(), "gRPC connect") {
		t.Fatalf("unexpected error text: %s", wrapped.Error())
	}
	if wrapped.Unwrap() == nil {
		t.Fatal("expected wrapped error")
	}

	var nilErr *DialError
	if nilErr.Error() == "" {
		t.Fatal("expected fallback error text")
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil error")
	}
}
