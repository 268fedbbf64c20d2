package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthService is the service name the server reports for its member store.
const HealthService = "entrust.members"

// HealthChecker asks the server's grpc.health.v1 service whether it is serving.
type HealthChecker struct {
	endpoint string
	conn     *grpc.ClientConn
	client   healthpb.HealthClient
}

func NewHealthChecker(endpoint string, opts ...grpc.DialOption) (*HealthChecker, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthChecker{endpoint: endpoint, conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil when the member store is reported SERVING.
func (p *HealthChecker) Ping(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: HealthService})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (p *HealthChecker) Close() error {
	return p.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.NotFound:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
