package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/wrapped/internal/domain/model"
)

var (
	amountRe    = regexp.MustCompile(`\$?(\d[\d,]*(?:\.\d+)?)`)
	countRe     = regexp.MustCompile(`(\d[\d,]*)`)
	followersRe = regexp.MustCompile(`(\d[\d,]*)\s*Followers`)
	followingRe = regexp.MustCompile(`(\d[\d,]*)\s*Following`)
	rankRe      = regexp.MustCompile(`#(\d+)`)
	pointsRowRe = regexp.MustCompile(`#(\d+)\s+(\d[\d,]*)\s+Points`)
)

// fillFromLabels completes the counters the chosen strategy left at zero by
// reading labelled figures from the rendered page.
func fillFromLabels(x *extraction, doc *goquery.Selection, sup model.Supplement) model.Supplement {
	intField := func(cur int, field string, fn func() int) int {
		if cur != 0 {
			return cur
		}
		return probe(x, field, fn)
	}
	floatField := func(cur float64, field string, fn func() float64) float64 {
		if cur != 0 {
			return cur
		}
		return probe(x, field, fn)
	}

	sup.Activity.CurrentStreak = intField(sup.Activity.CurrentStreak, "current_streak", func() int { return labelledMetric(doc, "Current Streak") })
	sup.Activity.LongestStreak = intField(sup.Activity.LongestStreak, "longest_streak", func() int { return labelledMetric(doc, "Longest Streak") })
	sup.Activity.TotalActivity = intField(sup.Activity.TotalActivity, "total_activity", func() int { return labelledMetric(doc, "Total Activity") })
	sup.Activity.UniqueDays = intField(sup.Activity.UniqueDays, "unique_days", func() int { return labelledMetric(doc, "Unique Days") })

	sup.BuilderRewards = floatField(sup.BuilderRewards, "builder_rewards", func() float64 { return nearLabel(doc, "Builder Rewards", amountRe) })
	sup.GithubContributions = intField(sup.GithubContributions, "github_contributions", func() int {
		return int(nearLabel(doc, "GitHub Total Contributions", countRe))
	})
	sup.ContractsDeployed = intField(sup.ContractsDeployed, "contracts_deployed", func() int {
		return int(nearLabel(doc, "Contracts Deployed", countRe))
	})
	sup.CreatorCoin.MarketCap = floatField(sup.CreatorCoin.MarketCap, "creator_coin", func() float64 { return nearLabel(doc, "Market Cap", amountRe) })
	sup.CreatorCoin.TotalVolume = floatField(sup.CreatorCoin.TotalVolume, "creator_coin", func() float64 { return nearLabel(doc, "Total Volume", amountRe) })
	sup.CreatorCoin.Holders = intField(sup.CreatorCoin.Holders, "creator_coin", func() int { return int(nearLabel(doc, "Coin Holders", countRe)) })

	sup.Followers = intField(sup.Followers, "followers", func() int { return int(nearLabel(doc, "Followers", followersRe)) })
	sup.Following = intField(sup.Following, "following", func() int { return int(nearLabel(doc, "Following", followingRe)) })
	sup.Rank = intField(sup.Rank, "rank", func() int { return int(nearLabel(doc, "Builder Rank", rankRe)) })
	return sup
}

// labelledMetric finds the innermost element carrying label and returns the
// first number in the element itself or, failing that, in the closest sibling.
func labelledMetric(doc *goquery.Selection, label string) int {
	var value int
	deepest(doc, containsLabel(label)).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		found := false
		for _, near := range closestFirst(el) {
			if n, ok := parseNumber(strings.ReplaceAll(spacedText(near), label, "")); ok {
				value, found = int(n), true
				break
			}
		}
		return !found
	})
	return value
}

// nearLabel applies re to the text around the innermost element carrying
// label and parses the first capture group. Candidates are tried nearest
// first: the element, the element joined with each sibling by distance, and
// finally the whole parent.
func nearLabel(doc *goquery.Selection, label string, re *regexp.Regexp) float64 {
	var value float64
	deepest(doc, containsLabel(label)).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		for _, text := range labelContexts(el) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			value = f
			return false
		}
		return true
	})
	return value
}

// closestFirst returns el followed by its siblings ordered by distance, the
// following sibling before the preceding one at equal distance.
func closestFirst(el *goquery.Selection) []*goquery.Selection {
	next, prev := el.NextAll(), el.PrevAll()
	out := []*goquery.Selection{el}
	for i := 0; i < next.Length() || i < prev.Length(); i++ {
		if i < next.Length() {
			out = append(out, next.Eq(i))
		}
		if i < prev.Length() {
			out = append(out, prev.Eq(i))
		}
	}
	return out
}

func labelContexts(el *goquery.Selection) []string {
	own := spacedText(el)
	out := []string{own}
	for _, sib := range closestFirst(el)[1:] {
		t := spacedText(sib)
		if t == "" {
			continue
		}
		if sib.Index() < el.Index() {
			out = append(out, t+" "+own)
		} else {
			out = append(out, own+" "+t)
		}
	}
	return append(out, spacedText(el.Parent()))
}

// spacedText is the text of sel with a space between adjacent nodes, so
// figures in neighbouring elements never run together.
func spacedText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		var t string
		switch goquery.NodeName(c) {
		case "#text":
			t = normText(c.Text())
		case "#comment", "script", "style", "noscript", "template":
		default:
			t = spacedText(c)
		}
		if t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// scoreRows reads "#<rank> <points> Points" rows from the scores page. The
// score type is the text before the figures, else the preceding sibling.
func scoreRows(doc *goquery.Selection) []model.PageScore {
	out := []model.PageScore{}
	type key struct {
		kind   string
		rank   int
		points int
	}
	seen := map[key]struct{}{}
	deepest(doc, pointsRowRe.MatchString).Each(func(_ int, el *goquery.Selection) {
		row := normText(el.Text())
		loc := pointsRowRe.FindStringSubmatchIndex(row)
		rank, _ := strconv.Atoi(row[loc[2]:loc[3]])
		points, _ := strconv.Atoi(strings.ReplaceAll(row[loc[4]:loc[5]], ",", ""))
		kind := firstNonZero(
			func() string { return strings.TrimSpace(row[:loc[0]]) },
			func() string { return normText(el.Prev().Text()) },
			func() string {
				first := normText(el.Parent().Children().First().Text())
				if pointsRowRe.MatchString(first) {
					return ""
				}
				return first
			},
		)
		k := key{kind, rank, points}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, model.PageScore{Type: kind, Rank: rank, Points: points})
	})
	return out
}
