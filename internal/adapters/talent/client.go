// Package talent is the client for the remote profile API. Every method
// returns either a decoded value or an *Error classified by kind; nothing is
// retried and nothing panics past this package.
package talent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/wrapped/pkg/logger"
	"github.com/okian/wrapped/pkg/metrics"
	"github.com/okian/wrapped/pkg/tracing"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
	apiKeyHeader   = "X-API-KEY"
)

// DefaultScoreSlugs are the score types fetched by Scores.
var DefaultScoreSlugs = []string{"builder_score", "creator_score", "base_builder_score"}

// DefaultDataPointSlugs are the data-point sets fetched by ActivityDataPoints.
var DefaultDataPointSlugs = []string{"onchain_activity", "github", "base"}

// Client talks to the profile API.
type Client struct {
	baseURL        string
	apiKey         string
	http           *http.Client
	timeout        time.Duration
	logger         logger.Logger
	tracer         trace.Tracer
	scoreSlugs     []string
	dataPointSlugs []string
}

// New creates a client for the API rooted at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		http:           &http.Client{},
		timeout:        defaultTimeout,
		logger:         logger.Get().Named("talent"),
		tracer:         tracing.Tracer("talent"),
		scoreSlugs:     DefaultScoreSlugs,
		dataPointSlugs: DefaultDataPointSlugs,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one request and returns the parsed JSON document. It records
// one metric sample, one span and one log line per call.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body any) (gjson.Result, error) {
	ctx, span := c.tracer.Start(ctx, "talent."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, status, err := c.roundTrip(ctx, op, method, path, query, body)
	elapsed := time.Since(start)
	outcome := Outcome(err)

	metrics.RecordUpstreamCall(op, outcome, float64(elapsed.Milliseconds()))
	span.SetAttributes(
		attribute.String("talent.op", op),
		attribute.String("talent.outcome", outcome),
		attribute.Int("http.response.status_code", status),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	c.logCall(ctx, op, outcome, status, elapsed, err)
	return res, err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, body any) (gjson.Result, int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, 0, &Error{Op: op, Kind: ErrDecode, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return gjson.Result{}, 0, &Error{Op: op, Kind: ErrUnavailable, Err: err}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, 0, &Error{Op: op, Kind: ErrUnavailable, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, resp.StatusCode, &Error{Op: op, Kind: ErrUnavailable, StatusCode: resp.StatusCode, Err: err}
	}

	if looksLikeHTML(resp.Header.Get("Content-Type"), raw) {
		return gjson.Result{}, resp.StatusCode, &Error{
			Op:         op,
			Kind:       ErrMisconfigured,
			StatusCode: resp.StatusCode,
			Reason:     "check the API key and base URL",
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return gjson.Result{}, resp.StatusCode, &Error{Op: op, Kind: ErrNotFound, StatusCode: resp.StatusCode, Reason: reason(raw)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return gjson.Result{}, resp.StatusCode, &Error{Op: op, Kind: ErrUnavailable, StatusCode: resp.StatusCode, Reason: reason(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 || !gjson.ValidBytes(raw) {
		return gjson.Result{}, resp.StatusCode, &Error{Op: op, Kind: ErrDecode, StatusCode: resp.StatusCode, Reason: "response is not valid JSON"}
	}
	return gjson.ParseBytes(raw), resp.StatusCode, nil
}

// looksLikeHTML sniffs an HTML error page by content type or leading '<'.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// reason extracts a human message from a JSON error body.
func reason(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error"} {
		if v := gjson.GetBytes(raw, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func (c *Client) logCall(ctx context.Context, op, outcome string, status int, elapsed time.Duration, err error) {
	fields := []logger.Field{
		logger.String("method", op),
		logger.String("outcome", outcome),
		logger.Int("status", status),
		logger.Duration("latency", elapsed),
	}
	switch outcome {
	case metrics.OutcomeOK:
		c.logger.Debug(ctx, "profile api call", fields...)
	case metrics.OutcomeNotFound:
		c.logger.Info(ctx, "profile api call", fields...)
	case metrics.OutcomeMisconfigured:
		c.logger.Error(ctx, "profile api returned html, credentials or base url are likely wrong", append(fields, logger.Error(err))...)
	default:
		c.logger.Warn(ctx, "profile api call failed", append(fields, logger.Error(err))...)
	}
}

func resourcePath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
