package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startHealth(t *testing.T) (*health.Server, *HealthChecker) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	p, err := NewHealthChecker("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return hs, p
}

func TestHealthChecker_Ping(t *testing.T) {
	hs, p := startHealth(t)
	ctx := context.Background()

	// Unknown service until the server registers it.
	assert.ErrorIs(t, p.Ping(ctx), ErrUnavailable)

	hs.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	assert.NoError(t, p.Ping(ctx))

	hs.SetServingStatus(HealthService, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	assert.ErrorIs(t, mapError(status.Error(codes.Unavailable, "x")), ErrUnavailable)
	assert.ErrorIs(t, mapError(status.Error(codes.DeadlineExceeded, "x")), ErrUnavailable)

	err := mapError(errors.New("plain"))
	assert.Contains(t, err.Error(), "rpc error")
}
