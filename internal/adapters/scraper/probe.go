package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/wrapped/pkg/metrics"
)

// extraction tracks the fields that failed during one scrape.
type extraction struct {
	failed []string
}

// probe runs one field extractor. A panic inside fn is contained: the field
// falls back to its zero value and the failure is counted.
func probe[T any](x *extraction, field string, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			x.failed = append(x.failed, field)
			metrics.RecordScrapeFieldFailure(field)
		}
	}()
	return fn()
}

// firstNonZero returns the first probe result that is not the zero value.
func firstNonZero[T comparable](probes ...func() T) T {
	var zero T
	for _, p := range probes {
		if v := p(); v != zero {
			return v
		}
	}
	return zero
}

var numberRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// parseNumber reads the first number in s, ignoring thousands separators.
func parseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	return f, err == nil
}

// normText collapses all whitespace runs to single spaces.
func normText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstText returns the first non-empty text among the sub-selectors of sel,
// tried in order.
func firstText(sel *goquery.Selection, subs ...string) string {
	for _, sub := range subs {
		if t := normText(sel.Find(sub).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// deepest returns the innermost visible elements whose text satisfies match.
func deepest(root *goquery.Selection, match func(string) bool) *goquery.Selection {
	return root.Find("body *").Not("script, style, noscript, template").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if !match(normText(s.Text())) {
			return false
		}
		inner := false
		s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			inner = match(normText(c.Text()))
			return !inner
		})
		return !inner
	})
}

func containsLabel(label string) func(string) bool {
	return func(text string) bool { return strings.Contains(text, label) }
}
