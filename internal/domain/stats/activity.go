package stats

import (
	"sort"
	"time"

	"github.com/okian/wrapped/internal/domain/model"
)

const (
	topActivitiesLimit = 5
	timelineLimit      = 50
)

// TopActivities counts events by type and returns the most frequent types.
// Ties keep the order in which the types were first seen.
func TopActivities(events []model.Event) []model.ActivityCount {
	counts := make([]model.ActivityCount, 0)
	index := make(map[string]int)
	for _, e := range events {
		t := e.Type
		if t == "" {
			t = "unknown"
		}
		i, ok := index[t]
		if !ok {
			i = len(counts)
			index[t] = i
			counts = append(counts, model.ActivityCount{Type: t})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > topActivitiesLimit {
		counts = counts[:topActivitiesLimit]
	}
	return counts
}

// MonthlyBreakdown buckets the events of year by abbreviated month name, in
// order of first appearance.
func MonthlyBreakdown(events []model.Event, year int) []model.MonthCount {
	months := make([]model.MonthCount, 0)
	index := make(map[string]int)
	for _, e := range events {
		if !inYear(e.Timestamp, year) {
			continue
		}
		name := e.Timestamp.UTC().Month().String()[:3]
		i, ok := index[name]
		if !ok {
			i = len(months)
			index[name] = i
			months = append(months, model.MonthCount{Month: name})
		}
		months[i].Count++
	}
	return months
}

// MostActiveMonth returns the first bucket with the strictly highest count,
// or the empty sentinel when nothing happened.
func MostActiveMonth(months []model.MonthCount) model.MonthCount {
	best := model.MonthCount{}
	for _, m := range months {
		if m.Count > best.Count {
			best = m
		}
	}
	return best
}

// Timeline returns the newest events first, capped.
func Timeline(events []model.Event) []model.TimelineEntry {
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > timelineLimit {
		sorted = sorted[:timelineLimit]
	}
	out := make([]model.TimelineEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, model.TimelineEntry{
			Type:        e.Type,
			Date:        e.Timestamp,
			Description: e.Description,
			Impact:      e.Delta(),
		})
	}
	return out
}

func inYear(t time.Time, year int) bool {
	return !t.IsZero() && t.UTC().Year() == year
}

func sinceYearStart(t time.Time, year int) bool {
	return !t.IsZero() && !t.Before(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}
