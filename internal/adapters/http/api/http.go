// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Wrapped(ctx context.Context, identifier string) (service.View, error)
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	wrappedHandler *WrappedHandler
	limiter        *RateLimiter
	corsOrigin     string
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimiter installs the per-client limiter on the wrapped route.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *Server) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithCORSOrigin sets Access-Control-Allow-Origin.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.corsOrigin = origin
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		corsOrigin: "*",
		logger:     logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.wrappedHandler = NewWrappedHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrapped := s.wrappedHandler.HandleGetWrapped
	if s.limiter != nil {
		wrapped = s.limiter.Middleware(wrapped, "wrapped")
	}

	mux.HandleFunc("GET /api/health", s.common(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /api/stats", s.common(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/wrapped/{identifier}", s.common(wrapped, "wrapped"))
	mux.HandleFunc("GET /api/wrapped/{$}", s.common(wrapped, "wrapped"))
	mux.HandleFunc("OPTIONS /api/", s.common(handlePreflight, "preflight"))
	mux.Handle("GET /metrics", MetricsHandler())
}

// handlePreflight answers CORS preflight requests; the headers come from
// HeadersMiddleware.
func handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) common(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(HeadersMiddleware(next, s.corsOrigin), endpoint)
}

// envelope is the response shape shared by every JSON route.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	env := envelope{Success: false, Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	writeJSON(w, status, env)
}

// Public details for server-side failures. Upstream errors carry internal
// URLs and are only logged.
var (
	errUpstreamTimeout     = errors.New("profile service did not answer in time")
	errUpstreamUnavailable = errors.New("profile service could not be reached")
	errInternal            = errors.New("unexpected error while building the wrapped view")
)

// statusFor maps service errors onto HTTP status codes, public messages and
// the detail that is safe to return to the caller. Deadlines are checked
// first because the aggregator wraps them in ErrProfileUnavailable.
func statusFor(err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrInvalidIdentifier):
		return http.StatusBadRequest, "Identifier is required", err
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "User not found", err
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Profile service timed out", errUpstreamTimeout
	case errors.Is(err, service.ErrProfileUnavailable):
		return http.StatusBadGateway, "Profile service unavailable", errUpstreamUnavailable
	default:
		return http.StatusInternalServerError, "Internal server error", errInternal
	}
}

func pathIdentifier(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("identifier"))
}
