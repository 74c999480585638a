package grpc

import (
	"context"
	"net"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"connectibles/internal/observability"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// HealthServer exposes grpc.health.v1 for the service and each named
// dependency. The overall ("") status is SERVING only when every check passes.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	checks map[string]Check
}

func NewHealthServer(checks map[string]Check) *HealthServer {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(observability.GRPCServerMetricsUnaryInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	return &HealthServer{server: server, health: hs, checks: checks}
}

// Refresh runs every check and publishes the results. The returned map holds
// the failures by name.
func (s *HealthServer) Refresh(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for _, name := range s.names() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := s.checks[name](ctx); err != nil {
			failures[name] = err
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if len(failures) > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return failures
}

// Watch refreshes on every tick until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.logFailures(s.Refresh(ctx))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *HealthServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Stop marks everything NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) names() []string {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *HealthServer) logFailures(failures map[string]error) {
	for name, err := range failures {
		log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
	}
}
