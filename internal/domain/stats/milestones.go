package stats

import (
	"sort"
	"strings"

	"github.com/okian/wrapped/internal/domain/model"
)

const (
	milestoneLimit          = 10
	milestoneDeltaThreshold = 10
)

// Milestones collects the notable events and newly earned credentials of
// year, newest first.
func Milestones(events []model.Event, credentials []model.Credential, year int) []model.Milestone {
	out := make([]model.Milestone, 0)
	for _, e := range events {
		if !inYear(e.Timestamp, year) {
			continue
		}
		if Classify(e.Type).Has(KindMilestone) ||
			e.Delta() > milestoneDeltaThreshold ||
			strings.EqualFold(e.Significance, "high") {
			out = append(out, model.Milestone{
				Type:        e.Type,
				Date:        e.Timestamp,
				Description: e.Description,
				Value:       e.Delta(),
			})
		}
	}
	for _, c := range credentials {
		if !inYear(c.Earned(), year) {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.Slug
		}
		out = append(out, model.Milestone{
			Type:        "credential_earned",
			Date:        c.Earned(),
			Description: "Earned " + name,
			Value:       c.Points,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > milestoneLimit {
		out = out[:milestoneLimit]
	}
	return out
}
