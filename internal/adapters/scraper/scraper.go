// Package scraper recovers supplementary profile facts from the public
// profile page. It prefers the page's embedded state snapshot and falls back
// to heuristic markup scanning; both paths produce the same Supplement.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
	"github.com/okian/wrapped/pkg/metrics"
	"github.com/okian/wrapped/pkg/tracing"
)

const (
	defaultTimeout   = 15 * time.Second
	maxPageBytes     = 5 << 20
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHTML       = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

// Extraction strategies.
const (
	StrategyEmbedded = "embedded"
	StrategyMarkup   = "markup"
	strategyNone     = "none"
)

var (
	// ErrUnavailable means the page could not be fetched.
	ErrUnavailable = errors.New("profile page unavailable")
	// ErrUnusable means the page was fetched but holds nothing to extract.
	ErrUnusable = errors.New("profile page unusable")
)

// Page is the result of one scrape.
type Page = model.ScrapedPage

// Scraper fetches and parses public profile pages.
type Scraper struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    logger.Logger
	tracer    trace.Tracer
}

// New creates a scraper for pages rooted at baseURL.
func New(baseURL string, opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		logger:    logger.Get().Named("scraper"),
		tracer:    tracing.Tracer("scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the absolute page URL for a relative profile path or handle.
func (s *Scraper) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Scrape fetches the profile page at path and extracts its supplement.
// Partial extraction is not an error; failed fields stay zero.
func (s *Scraper) Scrape(ctx context.Context, path string) (Page, error) {
	page := Page{Supplement: model.EmptySupplement(), SourceURL: s.URL(path), Strategy: strategyNone}

	ctx, span := s.tracer.Start(ctx, "scraper.Scrape", trace.WithAttributes(attribute.String("url.full", page.SourceURL)))
	defer span.End()

	doc, state, err := s.load(ctx, page.SourceURL)
	if err != nil {
		s.fail(ctx, span, page, err)
		return page, err
	}

	x := &extraction{}
	var sup model.Supplement
	if state.Exists() {
		page.Strategy = StrategyEmbedded
		sup = fromEmbedded(x, state)
	} else {
		page.Strategy = StrategyMarkup
		sup = fromMarkup(x, doc.Selection)
	}
	sup = fillFromLabels(x, doc.Selection, sup)
	page.Supplement = sup.Normalize()

	metrics.RecordScrape(page.Strategy, metrics.OutcomeOK)
	span.SetAttributes(attribute.String("scraper.strategy", page.Strategy))
	s.logger.Info(ctx, "scraped profile page",
		logger.String("url", page.SourceURL),
		logger.String("strategy", page.Strategy),
		logger.Int("projects", len(page.Supplement.Projects)),
		logger.Int("skills", len(page.Supplement.Skills)),
		logger.Int("failed_fields", len(x.failed)),
	)
	s.reportRecovered(ctx, page.SourceURL, x)
	return page, nil
}

// ScrapeScores reads the score rows of the <path>/scores subpage.
func (s *Scraper) ScrapeScores(ctx context.Context, path string) ([]model.PageScore, error) {
	target := strings.TrimRight(s.URL(path), "/") + "/scores"

	ctx, span := s.tracer.Start(ctx, "scraper.ScrapeScores", trace.WithAttributes(attribute.String("url.full", target)))
	defer span.End()

	doc, _, err := s.load(ctx, target)
	if err != nil {
		s.fail(ctx, span, Page{SourceURL: target}, err)
		return []model.PageScore{}, err
	}
	x := &extraction{}
	scores := probe(x, "page_scores", func() []model.PageScore { return scoreRows(doc.Selection) })
	if scores == nil {
		scores = []model.PageScore{}
	}
	metrics.RecordScrape("scores", metrics.OutcomeOK)
	s.reportRecovered(ctx, target, x)
	return scores, nil
}

// reportRecovered logs the fields that fell back to their zero value.
func (s *Scraper) reportRecovered(ctx context.Context, url string, x *extraction) {
	if len(x.failed) == 0 {
		return
	}
	s.logger.Warn(ctx, "profile page fields recovered with zero values",
		logger.String("url", url),
		logger.String("fields", strings.Join(x.failed, ",")),
	)
}

// load fetches url and parses it, rejecting pages with nothing to extract.
func (s *Scraper) load(ctx context.Context, url string) (*goquery.Document, gjson.Result, error) {
	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, gjson.Result{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, gjson.Result{}, fmt.Errorf("%w: empty body", ErrUnusable)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, gjson.Result{}, fmt.Errorf("%w: %v", ErrUnusable, err)
	}
	p := embeddedPayload(doc)
	if !p.Exists() && doc.Find("body").Children().Length() == 0 {
		return nil, gjson.Result{}, fmt.Errorf("%w: no markup", ErrUnusable)
	}
	return doc, p, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

func (s *Scraper) fail(ctx context.Context, span trace.Span, page Page, err error) {
	outcome := metrics.OutcomeUnavailable
	if errors.Is(err, ErrUnusable) {
		outcome = metrics.OutcomeUnusable
	}
	metrics.RecordScrape(strategyNone, outcome)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	s.logger.Warn(ctx, "profile page scrape failed",
		logger.String("url", page.SourceURL),
		logger.String("outcome", outcome),
		logger.Error(err),
	)
}
