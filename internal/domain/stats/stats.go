package stats

import (
	"time"

	"github.com/okian/wrapped/internal/domain/model"
)

// Compute builds the year-in-review for the calendar year of now.
func Compute(rec model.Record, now time.Time) model.YearInReview {
	year := now.UTC().Year()
	months := MonthlyBreakdown(rec.Events, year)

	var points float64
	if rec.BuilderScore != nil {
		points = rec.BuilderScore.Points
	}

	return model.YearInReview{
		Year:                  year,
		ScoreGrowth:           ScoreGrowth(rec.Events),
		TopActivities:         TopActivities(rec.Events),
		Milestones:            Milestones(rec.Events, rec.Credentials, year),
		MonthlyBreakdown:      months,
		MostActiveMonth:       MostActiveMonth(months),
		CredentialsEarned:     CredentialsEarned(rec.Credentials, year),
		ProjectsLaunched:      ProjectsLaunched(rec.Projects, year),
		ConnectionGrowth:      ConnectionGrowth(rec.Events, year),
		Level:                 LevelFor(points),
		CredentialsByCategory: GroupCredentials(rec.Credentials),
		Timeline:              Timeline(rec.Events),
	}
}

// CredentialsEarned counts credentials earned on or after January 1 of year.
func CredentialsEarned(credentials []model.Credential, year int) int {
	n := 0
	for _, c := range credentials {
		if sinceYearStart(c.Earned(), year) {
			n++
		}
	}
	return n
}

// ProjectsLaunched counts projects created on or after January 1 of year.
func ProjectsLaunched(projects []model.Project, year int) int {
	n := 0
	for _, p := range projects {
		if sinceYearStart(p.CreatedAt, year) {
			n++
		}
	}
	return n
}

// ConnectionGrowth counts the connection events of year and the distinct
// platforms they came from.
func ConnectionGrowth(events []model.Event, year int) model.ConnectionGrowth {
	out := model.ConnectionGrowth{Platforms: []string{}}
	seen := make(map[string]struct{})
	for _, e := range events {
		if !sinceYearStart(e.Timestamp, year) || !Classify(e.Type).Has(KindConnection) {
			continue
		}
		out.NewConnections++
		if e.Platform == "" {
			continue
		}
		if _, ok := seen[e.Platform]; ok {
			continue
		}
		seen[e.Platform] = struct{}{}
		out.Platforms = append(out.Platforms, e.Platform)
	}
	return out
}

// GroupCredentials places every credential in exactly one bucket. All buckets
// are present in the result.
func GroupCredentials(credentials []model.Credential) map[model.Bucket][]model.Credential {
	out := make(map[model.Bucket][]model.Credential, len(model.Buckets))
	for _, b := range model.Buckets {
		out[b] = []model.Credential{}
	}
	for _, c := range credentials {
		b := c.Bucket()
		out[b] = append(out[b], c)
	}
	return out
}
