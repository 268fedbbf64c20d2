// Package grpc exposes the standard grpc.health.v1 service so orchestrators
// can check the member store, plus server reflection for grpcurl.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/entrust/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service reported alongside the overall "".
const ServiceName = "entrust.members"

// DefaultCheckInterval is how often the store checker runs.
const DefaultCheckInterval = 10 * time.Second

// Checker reports whether the backing store is reachable.
type Checker func(ctx context.Context) error

type GRPCServer struct {
	address  string
	logger   logging.Logger
	checker  Checker
	interval time.Duration
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, checker Checker) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		checker:  checker,
		interval: DefaultCheckInterval,
		health:   health.NewServer(),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	s.check(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gPRC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.check(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// check runs the checker once and publishes the result for both the
// overall server and ServiceName.
func (s *GRPCServer) check(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if s.checker != nil {
		pctx, cancel := context.WithTimeout(ctx, s.interval)
		err := s.checker(pctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "store check failed", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
