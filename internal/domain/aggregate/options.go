package aggregate

import "github.com/okian/wrapped/pkg/logger"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithEventsPageSize sets how many events are requested in the single events page.
func WithEventsPageSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.eventsPageSize = n
		}
	}
}

// WithScoresPage also scrapes the profile's scores subpage.
func WithScoresPage(enabled bool) Option {
	return func(a *Aggregator) {
		a.scoresPage = enabled
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}
