package scraper

import (
	"net/http"
	"time"

	"github.com/okian/wrapped/pkg/logger"
)

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the HTTP client used for page fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		if hc != nil {
			s.http = hc
		}
	}
}

// WithTimeout bounds each page fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithLogger sets a custom logger for the scraper.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}
