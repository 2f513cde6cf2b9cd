// Package health exposes the grpc.health.v1 protocol so orchestrators can
// probe the storefront without going through the HTML surface.
package health

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "candlebliss.storefront"

// Check reports whether one backing service is usable.
type Check = func(ctx context.Context) error

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	checks     map[string]Check
	timeout    time.Duration
	log        *logrus.Logger

	mu       sync.Mutex
	ready    bool
	failures map[string]string
}

func NewServer(checks map[string]Check, logger *logrus.Logger) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		checks:     checks,
		timeout:    2 * time.Second,
		log:        logger,
		failures:   map[string]string{},
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Ready marks the HTTP surface as up and publishes the status of the checks.
// Until then every probe answers NOT_SERVING.
func (s *Server) Ready(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh runs every check once and publishes the combined status.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	failures := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if len(failures) > 0 {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)
		s.log.Warnf("Health: Checks failing: %v", names)
	}

	s.mu.Lock()
	s.failures = failures
	ready := s.ready
	s.mu.Unlock()
	if !ready {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.setStatus(status)
	return status
}

// Failures returns the failing checks of the last Refresh.
func (s *Server) Failures() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.failures))
	for k, v := range s.failures {
		out[k] = v
	}
	return out
}

// Watch refreshes the status every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Infof("gRPC health server listening on %s", lis.Addr())
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop marks the service as not serving and drains in-flight probes.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.log.Info("gRPC health server gracefully stopped.")
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
