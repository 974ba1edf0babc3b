// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load layers an optional YAML file and WRAPPED_* environment variables on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// TalentAPIURL is the base URL of the remote profile API.
	TalentAPIURL string `koanf:"talent_api_url"`

	// TalentAPIKey is sent as X-API-KEY on every profile API call.
	TalentAPIKey string `koanf:"talent_api_key"`

	// TalentWebURL is the base URL of the public profile pages.
	TalentWebURL string `koanf:"talent_web_url"`

	// UpstreamTimeoutMS bounds each profile API call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// ScrapeTimeoutMS bounds each profile page fetch.
	ScrapeTimeoutMS int `koanf:"scrape_timeout_ms"`

	// EventsPageSize is the per_page used for the single events page.
	EventsPageSize int `koanf:"events_page_size"`

	// ScrapeScoresPage also scrapes the <profile>/scores subpage.
	ScrapeScoresPage bool `koanf:"scrape_scores_page"`

	// RateLimitRequests and RateLimitWindowS allow that many requests per client per window.
	RateLimitRequests int `koanf:"rate_limit_requests"`
	RateLimitWindowS  int `koanf:"rate_limit_window_s"`

	// TrustProxy keys rate limiting on X-Forwarded-For instead of the peer
	// address. Set it only behind a proxy that overwrites the header.
	TrustProxy bool `koanf:"trust_proxy"`

	// CORSOrigin is echoed in Access-Control-Allow-Origin.
	CORSOrigin string `koanf:"cors_origin"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `koanf:"otel_endpoint"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":3000",
		TalentAPIURL:      "https://api.talentprotocol.com",
		TalentWebURL:      "https://talent.app",
		UpstreamTimeoutMS: 10_000,
		ScrapeTimeoutMS:   15_000,
		EventsPageSize:    100,
		RateLimitRequests: 100,
		RateLimitWindowS:  900,
		CORSOrigin:        "*",
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// ScrapeTimeout returns ScrapeTimeoutMS as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutMS) * time.Millisecond
}

// RateLimitWindow returns RateLimitWindowS as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowS) * time.Second
}
