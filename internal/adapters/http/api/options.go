package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/hello/internal/domain/arith"
	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the HTTP layer.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager used by the middleware.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithGatherer sets the registry exposed at GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithOverflowPolicy sets how /add treats sums outside int64.
func WithOverflowPolicy(p arith.Policy) Option {
	return func(s *Server) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithCORSOrigins sets the origins allowed by the CORS middleware.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMetricsEndpoint toggles GET /metrics.
func WithMetricsEndpoint(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// WithDocs toggles GET /openapi.yaml and GET /api-docs.
func WithDocs(enabled bool) Option {
	return func(s *Server) {
		s.docsEnabled = enabled
	}
}

// WithRequestIDGenerator replaces the uuid-based request id source.
func WithRequestIDGenerator(gen func() string) Option {
	return func(s *Server) {
		if gen != nil {
			s.requestID = gen
		}
	}
}
