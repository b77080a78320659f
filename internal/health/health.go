// Package health serves the gRPC health protocol, reporting whether the
// user store and the cache are reachable.
package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const probeTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Check is a named dependency. Its name is the gRPC health service name.
type Check struct {
	Name   string
	Pinger Pinger
}

// Server is a gRPC server exposing grpc.health.v1.Health.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	checks   []Check
	interval time.Duration
}

// NewServer creates a health server probing checks every interval.
func NewServer(interval time.Duration, checks ...Check) *Server {
	hs := health.NewServer()

	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(recoverPanic)),
			logging.UnaryServerInterceptor(interceptorLogger(), logging.WithLogOnEvents(logging.FinishCall)),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(recoverPanic)),
			logging.StreamServerInterceptor(interceptorLogger(), logging.WithLogOnEvents(logging.FinishCall)),
		),
	)
	healthpb.RegisterHealthServer(gs, hs)

	s := &Server{
		grpc:     gs,
		health:   hs,
		checks:   checks,
		interval: interval,
	}
	for _, c := range checks {
		hs.SetServingStatus(c.Name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Probe pings every dependency once and publishes the result. The overall
// status (empty service name) is SERVING only if every check passes.
func (s *Server) Probe(ctx context.Context) bool {
	healthy := true
	for _, c := range s.checks {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := c.Pinger.Ping(pctx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			logger.Log.Warnw("health check failed", "check", c.Name, "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
			healthy = false
		}
		s.health.SetServingStatus(c.Name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return healthy
}

// Watch probes immediately and then every interval until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.Probe(ctx)

	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop marks every service NOT_SERVING and stops the server gracefully.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func recoverPanic(p any) error {
	logger.Log.Errorw("panic in gRPC handler", "panic", p)
	return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", p))
}

// interceptorLogger adapts the process logger to the interceptor logging API.
func interceptorLogger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l := logger.Log.With("component", "grpc")
		switch lvl {
		case logging.LevelDebug:
			l.Debugw(msg, fields...)
		case logging.LevelInfo:
			l.Infow(msg, fields...)
		case logging.LevelWarn:
			l.Warnw(msg, fields...)
		default:
			l.Errorw(msg, fields...)
		}
	})
}
