package stats

import (
	"math"
	"sort"

	"github.com/okian/wrapped/internal/domain/model"
)

// ScoreGrowth compares the first and last score-bearing events in
// chronological order.
func ScoreGrowth(events []model.Event) model.ScoreGrowth {
	scored := make([]model.Event, 0, len(events))
	for _, e := range events {
		if Classify(e.Type).Has(KindScore) {
			scored = append(scored, e)
		}
	}
	if len(scored) < 2 {
		return model.ScoreGrowth{Trend: model.TrendNew}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Timestamp.Before(scored[j].Timestamp)
	})

	first := scored[0].Value()
	growth := scored[len(scored)-1].Value() - first

	out := model.ScoreGrowth{Growth: growth, Trend: model.TrendStable}
	if first > 0 {
		out.Percentage = round1(growth / first * 100)
	}
	switch {
	case growth > 0:
		out.Trend = model.TrendGrowing
	case growth < 0:
		out.Trend = model.TrendDeclining
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

var ladder = []struct {
	min  float64
	name string
}{
	{500, "Expert"},
	{300, "Advanced"},
	{150, "Proficient"},
	{75, "Practitioner"},
	{25, "Apprentice"},
}

// LevelFor maps a builder score to its tier. Zero, negative and NaN scores
// are Newcomer.
func LevelFor(points float64) model.Level {
	for i, step := range ladder {
		if points >= step.min {
			return model.Level{Name: step.name, Index: len(ladder) + 1 - i}
		}
	}
	return model.Level{Name: "Newcomer", Index: 1}
}
