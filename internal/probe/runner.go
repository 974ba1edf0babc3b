// Package probe exercises a running wrapped service for a list of identifiers.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/wrapped/pkg/logger"
)

// Errors returned by Run.
var (
	ErrUnhealthy = errors.New("service health check failed")
	ErrMalformed = errors.New("malformed wrapped responses")
	ErrNoTargets = errors.New("no identifiers to probe")
)

const defaultWorkers = 4

// Run checks service health, fetches every identifier concurrently and
// returns the run summary.
func Run(ctx context.Context, cfg *Config) (Stats, []Result, error) {
	log := logger.Get().Named("probe")
	stats := Stats{RunID: uuid.NewString()}
	if len(cfg.Identifiers) == 0 {
		return stats, nil, ErrNoTargets
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	log.Info(ctx, "starting wrapped probe",
		logger.String("run_id", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("identifiers", len(cfg.Identifiers)),
		logger.Int("workers", workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, stats.RunID, cfg.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, nil, err
	}

	start := time.Now()
	results := make([]Result, len(cfg.Identifiers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range cfg.Identifiers {
		g.Go(func() error {
			r := fetch(gctx, client, id)
			results[i] = r
			if cfg.Verbose {
				log.Info(gctx, "wrapped response",
					logger.String("identifier", id),
					logger.String("outcome", string(r.Outcome)),
					logger.Int("status", r.Status),
					logger.Duration("latency", r.Latency),
					logger.String("detail", r.Detail),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats = summarize(stats, results)
	stats.Duration = time.Since(start)
	displayFinalStats(ctx, log, stats)

	if stats.Malformed > 0 {
		return stats, results, fmt.Errorf("%w: %d of %d", ErrMalformed, stats.Malformed, stats.Total)
	}
	return stats, results, nil
}

func checkServiceHealth(ctx context.Context, client *httpClient) error {
	status, body, err := client.get(ctx, "/api/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if !healthy(status, body) {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

func fetch(ctx context.Context, client *httpClient, id string) Result {
	start := time.Now()
	status, body, err := client.get(ctx, wrappedPath(id))
	r := Result{Identifier: id, Status: status, Latency: time.Since(start)}
	if err != nil {
		r.Outcome, r.Detail = OutcomeFailed, err.Error()
		return r
	}
	r.Outcome, r.Detail = classify(status, body)
	return r
}

func summarize(stats Stats, results []Result) Stats {
	var total time.Duration
	for i, r := range results {
		switch r.Outcome {
		case OutcomeOK:
			stats.OK++
		case OutcomeNotFound:
			stats.NotFound++
		case OutcomeMalformed:
			stats.Malformed++
		default:
			stats.Failed++
		}
		total += r.Latency
		if i == 0 || r.Latency < stats.MinLatency {
			stats.MinLatency = r.Latency
		}
		if r.Latency > stats.MaxLatency {
			stats.MaxLatency = r.Latency
		}
	}
	stats.Total = len(results)
	if stats.Total > 0 {
		stats.AvgLatency = total / time.Duration(stats.Total)
	}
	return stats
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats Stats) {
	log.Info(ctx, "final statistics",
		logger.String("run_id", stats.RunID),
		logger.Int("total", stats.Total),
		logger.Int("ok", stats.OK),
		logger.Int("notFound", stats.NotFound),
		logger.Int("failed", stats.Failed),
		logger.Int("malformed", stats.Malformed),
		logger.Duration("minLatency", stats.MinLatency),
		logger.Duration("avgLatency", stats.AvgLatency),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Duration("duration", stats.Duration),
	)
}
