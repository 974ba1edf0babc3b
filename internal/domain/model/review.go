package model

import "time"

// Trend labels for ScoreGrowth.
const (
	TrendNew       = "new"
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// YearInReview is the derived, read-only summary of a Record for one
// calendar year. It is recomputed on every request.
type YearInReview struct {
	Year                  int                     `json:"year"`
	ScoreGrowth           ScoreGrowth             `json:"scoreGrowth"`
	TopActivities         []ActivityCount         `json:"topActivities"`
	Milestones            []Milestone             `json:"milestones"`
	MonthlyBreakdown      []MonthCount            `json:"monthlyBreakdown"`
	MostActiveMonth       MonthCount              `json:"mostActiveMonth"`
	CredentialsEarned     int                     `json:"credentialsEarned"`
	ProjectsLaunched      int                     `json:"projectsLaunched"`
	ConnectionGrowth      ConnectionGrowth        `json:"connectionGrowth"`
	Level                 Level                   `json:"level"`
	CredentialsByCategory map[Bucket][]Credential `json:"credentialsByCategory"`
	Timeline              []TimelineEntry         `json:"timeline"`
}

// ScoreGrowth describes how the score moved across score-bearing events.
type ScoreGrowth struct {
	Growth     float64 `json:"growth"`
	Percentage float64 `json:"percentage"`
	Trend      string  `json:"trend"`
}

// ActivityCount is an event type with its occurrence count.
type ActivityCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Milestone is a notable event or credential of the year.
type Milestone struct {
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Value       float64   `json:"value,omitempty"`
}

// MonthCount is the number of events in one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ConnectionGrowth counts this year's connection events and their platforms.
type ConnectionGrowth struct {
	NewConnections int      `json:"newConnections"`
	Platforms      []string `json:"platforms"`
}

// Level is a named tier of the builder-score ladder.
type Level struct {
	Name  string `json:"name"`
	Index int    `json:"level"`
}

// TimelineEntry is one event rendered for the activity timeline.
type TimelineEntry struct {
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Impact      float64   `json:"impact"`
}
