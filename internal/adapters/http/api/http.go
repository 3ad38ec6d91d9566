// Package api declares the HTTP routes and their registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/okian/hello/internal/adapters/http/swagger"
	"github.com/okian/hello/internal/domain/arith"
	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
)

// Route endpoint labels, used for metrics and access logs.
const (
	EndpointRoot    = "root"
	EndpointHello   = "hello"
	EndpointAdd     = "add"
	EndpointHealth  = "healthz"
	EndpointMetrics = "metrics"
)

// Server wires HTTP routes for the greeting API.
type Server struct {
	logger         logger.Logger
	metrics        *metrics.Manager
	gatherer       prometheus.Gatherer
	policy         arith.Policy
	corsOrigins    []string
	metricsEnabled bool
	docsEnabled    bool
	requestID      func() string

	greetingHandler *GreetingHandler
	addHandler      *AddHandler
	healthHandler   *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(opts ...Option) *Server {
	s := &Server{
		metrics:        metrics.Default(),
		gatherer:       metrics.GetRegistry(),
		policy:         arith.PolicyReject,
		corsOrigins:    []string{"*"},
		metricsEnabled: true,
		docsEnabled:    true,
		requestID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.greetingHandler = NewGreetingHandler()
	s.addHandler = NewAddHandler(s.policy, s.metrics)
	s.healthHandler = NewHealthHandler()
	return s
}

// NewRouter returns an httprouter configured for this API: exact path
// matching, trailing-slash redirects and JSON 404/405 bodies.
func NewRouter() *httprouter.Router {
	r := httprouter.New()
	r.RedirectFixedPath = false
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethod)
	})
	return r
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(ctx context.Context, router *httprouter.Router) {
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.route(router, "/", EndpointRoot, http.HandlerFunc(s.greetingHandler.HandleRoot))
	s.route(router, helloRoute, EndpointHello, http.HandlerFunc(s.greetingHandler.HandleHello))
	s.route(router, "/add/:arg1/:arg2", EndpointAdd, IntParams(s.addHandler.HandleAdd, func(param string) {
		s.metrics.RecordParamRejected(EndpointAdd, param)
	}, ParamArg1, ParamArg2))

	s.route(router, "/healthz", EndpointHealth, http.HandlerFunc(s.healthHandler.HandleHealth))
	if s.metricsEnabled {
		s.route(router, "/metrics", EndpointMetrics, NewMetricsHandler(s.gatherer))
	}
	if s.docsEnabled {
		swagger.Register(ctx, router)
	}

	s.logger.Debug(ctx, "routes registered",
		logger.Any("metrics", s.metricsEnabled),
		logger.Any("docs", s.docsEnabled),
		logger.String("overflow_policy", string(s.policy)))
}

// Handler builds the router and wraps it in the server-wide middleware.
func (s *Server) Handler(ctx context.Context) http.Handler {
	router := NewRouter()
	s.Register(ctx, router)

	var h http.Handler = router
	h = RecoverMiddleware(s.logger, s.metrics, h)
	h = RequestIDMiddleware(s.requestID, h)
	h = cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{HeaderRequestID},
	}).Handler(h)
	return h
}

// route registers h for GET and HEAD; net/http drops the body on HEAD.
func (s *Server) route(router *httprouter.Router, path, endpoint string, h http.Handler) {
	wrapped := MetricsMiddleware(s.metrics, endpoint, LoggingMiddleware(s.logger, endpoint, h))
	router.Handler(http.MethodGet, path, wrapped)
	router.Handler(http.MethodHead, path, wrapped)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
