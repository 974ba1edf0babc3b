package talent

import (
	"net/http"
	"time"

	"github.com/okian/wrapped/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithScoreSlugs replaces the score types fetched by Scores.
func WithScoreSlugs(slugs ...string) Option {
	return func(c *Client) {
		if len(slugs) > 0 {
			c.scoreSlugs = slugs
		}
	}
}

// WithDataPointSlugs replaces the data-point sets fetched by ActivityDataPoints.
func WithDataPointSlugs(slugs ...string) Option {
	return func(c *Client) {
		if len(slugs) > 0 {
			c.dataPointSlugs = slugs
		}
	}
}
