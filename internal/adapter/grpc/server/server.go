package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mru-labs/merchant-os/internal/adapter/grpc/interceptors"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// ServiceName is the name reported by the health service for the whole backend.
const ServiceName = "merchant.v1.MerchantOS"

// ReadinessFunc reports whether dependencies are up.
type ReadinessFunc func(ctx context.Context) bool

type GRPCServer struct {
	server *grpc.Server
	health *grpchealth.Server
	log    *zap.Logger
}

func NewGRPCServer(auth ports.AuthService, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryMetricsInterceptor(),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.UnaryAuthInterceptor(auth),
		),
	)

	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{
		server: s,
		health: hs,
		log:    log,
	}
}

// WatchReadiness mirrors ready into the health service every interval until ctx ends.
func (s *GRPCServer) WatchReadiness(ctx context.Context, interval time.Duration, ready ReadinessFunc) {
	s.updateHealth(ctx, ready)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.updateHealth(ctx, ready)
		}
	}
}

func (s *GRPCServer) updateHealth(ctx context.Context, ready ReadinessFunc) {
	st := healthpb.HealthCheckResponse_SERVING
	if !ready(ctx) {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
