// Package service provides the business facade behind the HTTP API: it
// aggregates a profile, computes its year in review and shapes the wrapped view.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/wrapped/internal/domain/aggregate"
	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/internal/domain/stats"
	"github.com/okian/wrapped/pkg/logger"
)

// Errors surfaced to the HTTP boundary.
var (
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrNotFound           = model.ErrNotFound
	ErrProfileUnavailable = aggregate.ErrProfileUnavailable
)

const defaultMaxIdentifierLength = 256

// Aggregator builds the merged record for an identifier.
type Aggregator interface {
	Aggregate(ctx context.Context, identifier string) (model.Record, error)
}

// Service implements the API dependencies for the wrapped endpoint.
type Service struct {
	aggregator   Aggregator
	now          func() time.Time
	maxIDLength  int
	webURL       string
	logger       logger.Logger
	startedAt    time.Time
	requests     atomic.Int64
	served       atomic.Int64
	notFound     atomic.Int64
	failed       atomic.Int64
	lastDuration atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used for the current year and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxIdentifierLength bounds accepted identifiers.
func WithMaxIdentifierLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIDLength = n
		}
	}
}

// WithWebURL sets the public site used to build profile links.
func WithWebURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.webURL = strings.TrimRight(u, "/")
		}
	}
}

// New constructs a Service over the given aggregator.
func New(agg Aggregator, opts ...Option) *Service {
	s := &Service{
		aggregator:  agg,
		now:         time.Now,
		maxIDLength: defaultMaxIdentifierLength,
		webURL:      "https://talent.app",
		logger:      logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Wrapped aggregates identifier and returns its wrapped view. Errors wrap
// ErrInvalidIdentifier, ErrNotFound or ErrProfileUnavailable.
func (s *Service) Wrapped(ctx context.Context, identifier string) (View, error) {
	s.requests.Add(1)
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || len(identifier) > s.maxIDLength {
		s.failed.Add(1)
		return View{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}

	start := time.Now()
	rec, err := s.aggregator.Aggregate(ctx, identifier)
	s.lastDuration.Store(time.Since(start).Milliseconds())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.notFound.Add(1)
		} else {
			s.failed.Add(1)
		}
		return View{}, err
	}

	now := s.now().UTC()
	view := s.build(rec, stats.Compute(rec, now), now)
	s.served.Add(1)
	s.logger.Debug(ctx, "wrapped view built",
		logger.String("identifier", identifier),
		logger.Int("year", view.Metadata.Year),
		logger.Int("milestones", len(view.YearInReview.Milestones)),
	)
	return view, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"requests":          s.requests.Load(),
		"served":            s.served.Load(),
		"notFound":          s.notFound.Load(),
		"failed":            s.failed.Load(),
		"lastAggregationMs": s.lastDuration.Load(),
		"uptimeSeconds":     int64(s.now().Sub(s.startedAt).Seconds()),
	}
}
