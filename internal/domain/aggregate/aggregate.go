// Package aggregate resolves an identifier to a profile and merges every
// other source into one Record. Only a missing profile aborts; any other
// failing source degrades its slice to empty and clears its availability flag.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
	"github.com/okian/wrapped/pkg/metrics"
	"github.com/okian/wrapped/pkg/tracing"
)

// ErrProfileUnavailable means the profile lookup failed for a reason other
// than not-found, so no identity could be derived.
var ErrProfileUnavailable = errors.New("profile unavailable")

// Upstream is the profile API as seen by the aggregator.
type Upstream interface {
	Profile(ctx context.Context, identifier string) (model.Profile, error)
	Scores(ctx context.Context, identifier string) (map[string]model.Score, error)
	Credentials(ctx context.Context, identifier string) ([]model.Credential, error)
	Events(ctx context.Context, identifier string, page model.EventsPage) ([]model.Event, error)
	Accounts(ctx context.Context, identifier string) ([]model.Account, error)
	Socials(ctx context.Context, identifier string) ([]model.Social, error)
	Projects(ctx context.Context, identifier string) ([]model.Project, error)
	HumanCheckmark(ctx context.Context, identifier string) (bool, error)
	ActivityDataPoints(ctx context.Context, identifier string) (map[string]model.Facts, error)
}

// PageScraper reads the public profile pages.
type PageScraper interface {
	Scrape(ctx context.Context, path string) (model.ScrapedPage, error)
	ScrapeScores(ctx context.Context, path string) ([]model.PageScore, error)
}

// Source names used for availability logging and metrics.
const (
	SourceScores         = "scores"
	SourceCredentials    = "credentials"
	SourceEvents         = "events"
	SourceAccounts       = "accounts"
	SourceSocials        = "socials"
	SourceProjects       = "projects"
	SourceHumanCheckmark = "human_checkmark"
	SourceDataPoints     = "data_points"
	SourceScraping       = "scraping"
	SourceScoresPage     = "scores_page"
)

const defaultEventsPageSize = 100

// Aggregator builds Records.
type Aggregator struct {
	upstream       Upstream
	pages          PageScraper
	eventsPageSize int
	scoresPage     bool
	logger         logger.Logger
	tracer         trace.Tracer
}

// New creates an aggregator over the given sources.
func New(upstream Upstream, pages PageScraper, opts ...Option) *Aggregator {
	a := &Aggregator{
		upstream:       upstream,
		pages:          pages,
		eventsPageSize: defaultEventsPageSize,
		logger:         logger.Get().Named("aggregate"),
		tracer:         tracing.Tracer("aggregate"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fetched holds the raw outcome of every fan-out branch. Each branch writes
// only its own fields.
type fetched struct {
	scores      map[string]model.Score
	scoresErr   error
	creds       []model.Credential
	credsErr    error
	events      []model.Event
	eventsErr   error
	accounts    []model.Account
	accountsErr error
	socials     []model.Social
	socialsErr  error
	projects    []model.Project
	projectsErr error
	human       bool
	humanErr    error
	points      map[string]model.Facts
	pointsErr   error
	page        model.ScrapedPage
	pageErr     error
	pageScores  []model.PageScore
	pageScErr   error
}

// Aggregate resolves identifier and merges every source. The returned error
// wraps model.ErrNotFound or ErrProfileUnavailable; nothing else aborts.
func (a *Aggregator) Aggregate(ctx context.Context, identifier string) (model.Record, error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "aggregate.Aggregate", trace.WithAttributes(attribute.String("wrapped.identifier", identifier)))
	defer span.End()

	profile, err := a.upstream.Profile(ctx, identifier)
	if err != nil {
		outcome := metrics.OutcomeUnavailable
		if errors.Is(err, model.ErrNotFound) {
			outcome = metrics.OutcomeNotFound
			err = fmt.Errorf("resolve %q: %w", identifier, err)
		} else {
			err = fmt.Errorf("resolve %q: %w: %w", identifier, ErrProfileUnavailable, err)
		}
		metrics.RecordAggregation(outcome, float64(time.Since(start).Milliseconds()))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		a.logger.Info(ctx, "aggregation aborted", logger.String("identifier", identifier), logger.String("outcome", outcome), logger.Error(err))
		return model.Record{}, err
	}

	rec := model.NewRecord(identifier)
	rec.Availability.Profile = true
	rec.UserID = profile.ID
	if rec.UserID == "" {
		rec.UserID = identifier
	}
	rec.RelativePath = profile.RelativePath
	if rec.RelativePath == "" {
		rec.RelativePath = "/" + identifier
	}

	f := a.fanOut(ctx, rec.UserID, rec.RelativePath)
	a.merge(ctx, &rec, profile, f)

	metrics.RecordAggregation(metrics.OutcomeOK, float64(time.Since(start).Milliseconds()))
	span.SetAttributes(attribute.String("wrapped.user_id", rec.UserID))
	a.logger.Info(ctx, "aggregated profile",
		logger.String("identifier", identifier),
		logger.String("user_id", rec.UserID),
		logger.Int("events", len(rec.Events)),
		logger.Int("credentials", len(rec.Credentials)),
		logger.String("projects_source", rec.ProjectsSource),
		logger.Duration("elapsed", time.Since(start)),
	)
	return rec, nil
}

// fanOut runs every independent call concurrently and waits for all of them.
// Branches never return errors, so no branch cancels another.
func (a *Aggregator) fanOut(ctx context.Context, id, path string) *fetched {
	f := &fetched{}
	var g errgroup.Group

	g.Go(func() error { f.scores, f.scoresErr = a.upstream.Scores(ctx, id); return nil })
	g.Go(func() error { f.creds, f.credsErr = a.upstream.Credentials(ctx, id); return nil })
	g.Go(func() error {
		f.events, f.eventsErr = a.upstream.Events(ctx, id, model.EventsPage{Page: 1, PerPage: a.eventsPageSize})
		return nil
	})
	g.Go(func() error { f.accounts, f.accountsErr = a.upstream.Accounts(ctx, id); return nil })
	g.Go(func() error { f.socials, f.socialsErr = a.upstream.Socials(ctx, id); return nil })
	g.Go(func() error { f.projects, f.projectsErr = a.upstream.Projects(ctx, id); return nil })
	g.Go(func() error { f.human, f.humanErr = a.upstream.HumanCheckmark(ctx, id); return nil })
	g.Go(func() error { f.points, f.pointsErr = a.upstream.ActivityDataPoints(ctx, id); return nil })
	g.Go(func() error { f.page, f.pageErr = a.pages.Scrape(ctx, path); return nil })
	if a.scoresPage {
		g.Go(func() error { f.pageScores, f.pageScErr = a.pages.ScrapeScores(ctx, path); return nil })
	}

	_ = g.Wait()
	return f
}

func (a *Aggregator) merge(ctx context.Context, rec *model.Record, profile model.Profile, f *fetched) {
	ok := func(source string, err error) bool {
		if err == nil {
			return true
		}
		metrics.RecordSourceUnavailable(source)
		a.logger.Warn(ctx, "source unavailable, using empty default",
			logger.String("identifier", rec.Identifier),
			logger.String("source", source),
			logger.Error(err),
		)
		return false
	}

	if rec.Availability.Scores = ok(SourceScores, f.scoresErr); rec.Availability.Scores {
		for slug, s := range f.scores {
			rec.Scores[slug] = s
		}
	}
	if rec.Availability.Credentials = ok(SourceCredentials, f.credsErr); rec.Availability.Credentials {
		rec.Credentials = orEmpty(f.creds)
	}
	if rec.Availability.Events = ok(SourceEvents, f.eventsErr); rec.Availability.Events {
		rec.Events = orEmpty(f.events)
	}

	accountsOK := ok(SourceAccounts, f.accountsErr)
	socialsOK := ok(SourceSocials, f.socialsErr)
	if accountsOK {
		rec.Accounts = orEmpty(f.accounts)
	}
	if socialsOK {
		rec.Socials = orEmpty(f.socials)
	}
	rec.Availability.Connections = accountsOK && socialsOK

	if rec.Availability.DataPoints = ok(SourceDataPoints, f.pointsErr); rec.Availability.DataPoints {
		for slug, facts := range f.points {
			rec.DataPoints[slug] = facts
		}
	}

	rec.Availability.Scraping = ok(SourceScraping, f.pageErr)
	rec.Supplement = f.page.Supplement.Normalize()
	rec.SourceURL = f.page.SourceURL
	if a.scoresPage {
		if rec.Availability.ScoresPage = ok(SourceScoresPage, f.pageScErr); rec.Availability.ScoresPage {
			rec.Supplement.PageScores = orEmpty(f.pageScores)
		}
	}

	rec.Availability.Projects = ok(SourceProjects, f.projectsErr)
	switch {
	case rec.Availability.Projects && len(f.projects) > 0:
		rec.Projects = f.projects
		rec.ProjectsSource = model.ProjectsFromAPI
	case len(rec.Supplement.Projects) > 0:
		rec.Projects = rec.Supplement.Projects
		rec.ProjectsSource = model.ProjectsFromScrape
	}

	rec.Human = profile.HumanCheckmark
	if rec.Availability.HumanCheckmark = ok(SourceHumanCheckmark, f.humanErr); rec.Availability.HumanCheckmark {
		rec.Human = f.human
	}

	switch {
	case profile.BuilderScore != nil:
		s := *profile.BuilderScore
		rec.BuilderScore = &s
	default:
		if s, found := rec.Scores["builder_score"]; found {
			rec.BuilderScore = &s
		}
	}

	rec.Profile = profile.WithConnections(rec.Accounts, rec.Socials)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
