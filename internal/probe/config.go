package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Identifiers []string      // Identifiers to fetch
	Workers     int           // Concurrent requests
	Timeout     time.Duration // Per-request timeout
	Verbose     bool          // Log every response
}

// Outcome classifies one wrapped request.
type Outcome string

// Outcomes.
const (
	OutcomeOK        Outcome = "ok"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
	OutcomeMalformed Outcome = "malformed"
)

// Result is the outcome of fetching one identifier.
type Result struct {
	Identifier string
	Outcome    Outcome
	Status     int
	Latency    time.Duration
	Detail     string
}

// Stats summarises a run.
type Stats struct {
	RunID      string
	Total      int
	OK         int
	NotFound   int
	Failed     int
	Malformed  int
	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
	Duration   time.Duration
}
