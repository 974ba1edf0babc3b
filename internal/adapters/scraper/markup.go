package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/wrapped/internal/domain/model"
)

// Candidate selectors, most specific first.
var (
	projectCardSelectors = []string{
		".project-card",
		`[data-testid="project-card"]`,
		`[class*="Project"]`,
		`[class*="project"]`,
		".portfolio-item",
		`[class*="Portfolio"]`,
		`article[class*="project"]`,
		`div[class*="project"][class*="card"]`,
		`a[href*="/project"]`,
	}
	projectTitleSelectors = []string{"h1", "h2", "h3", "h4", ".title", `[class*="title"]`, ".name", `[class*="name"]`}
	projectDescSelectors  = []string{"p", ".description", `[class*="description"]`, ".bio", `[class*="bio"]`}
	projectTagSelector    = `.tag, .badge, [class*="tag"], [class*="tech"]`

	skillSelector       = `[class*="skill"], [class*="tag"], .badge`
	achievementSelector = `[class*="achievement"], [class*="credential"]`
	feedItemSelector    = ".activity-item, .timeline-item, .feed-item"
	statSelector        = `[class*="stat"], [class*="metric"]`
)

const (
	minProjectTitle = 3
	maxSkillLen     = 50
	maxTagLen       = 30
)

func fromMarkup(x *extraction, doc *goquery.Selection) model.Supplement {
	sup := model.EmptySupplement()
	sup.Projects = probe(x, "projects", func() []model.Project { return markupProjects(doc) })
	sup.Skills = probe(x, "skills", func() []string { return markupSkills(doc) })
	sup.Achievements = probe(x, "achievements", func() []model.Achievement { return markupAchievements(doc) })
	sup.RecentActivity = probe(x, "recent_activity", func() []model.ActivityItem { return markupFeed(doc) })

	counters := probe(x, "stat_cards", func() statCards { return markupStatCards(doc) })
	sup.Followers = counters.followers
	sup.Following = counters.following
	sup.ProjectsCount = counters.projects
	return sup
}

func markupProjects(doc *goquery.Selection) []model.Project {
	type key struct{ title, link string }
	out := []model.Project{}
	seen := map[key]struct{}{}
	for _, sel := range projectCardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			p := model.Project{
				Title:       firstText(card, projectTitleSelectors...),
				Description: firstText(card, projectDescSelectors...),
				Link: firstNonZero(
					func() string { return card.Find("a").First().AttrOr("href", "") },
					func() string { return card.AttrOr("href", "") },
				),
				Image: firstNonZero(
					func() string { return card.Find("img").First().AttrOr("src", "") },
					func() string { return card.Find("img").First().AttrOr("data-src", "") },
				),
				Tags: markupTags(card),
			}
			if utf8.RuneCountInString(p.Title) < minProjectTitle {
				return
			}
			k := key{p.Title, p.Link}
			if _, dup := seen[k]; dup {
				return
			}
			seen[k] = struct{}{}
			out = append(out, p)
		})
	}
	return out
}

func markupTags(card *goquery.Selection) []string {
	tags := []string{}
	card.Find(projectTagSelector).Each(func(_ int, t *goquery.Selection) {
		if s := normText(t.Text()); s != "" && utf8.RuneCountInString(s) < maxTagLen {
			tags = append(tags, s)
		}
	})
	return tags
}

func markupSkills(doc *goquery.Selection) []string {
	out := []string{}
	seen := map[string]struct{}{}
	doc.Find(skillSelector).Each(func(_ int, el *goquery.Selection) {
		s := normText(el.Text())
		if s == "" || utf8.RuneCountInString(s) >= maxSkillLen {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}

func markupAchievements(doc *goquery.Selection) []model.Achievement {
	out := []model.Achievement{}
	doc.Find(achievementSelector).Each(func(_ int, el *goquery.Selection) {
		a := model.Achievement{
			Title:       normText(el.Find("h3, h4, strong").First().Text()),
			Description: normText(el.Find("p").First().Text()),
		}
		if a.Title != "" {
			out = append(out, a)
		}
	})
	return out
}

func markupFeed(doc *goquery.Selection) []model.ActivityItem {
	out := []model.ActivityItem{}
	doc.Find(feedItemSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		date := el.Find("time").First()
		item := model.ActivityItem{
			Type:        normText(el.Find(`[class*="type"]`).First().Text()),
			Description: normText(el.Find("p").First().Text()),
			Date: firstNonZero(
				func() string { return date.AttrOr("datetime", "") },
				func() string { return normText(date.Text()) },
				func() string { return normText(el.Find(`[class*="date"]`).First().Text()) },
			),
		}
		if item.Description != "" {
			out = append(out, item)
		}
		return len(out) < recentActivityLimit
	})
	return out
}

type statCards struct {
	followers int
	following int
	projects  int
}

// markupStatCards reads numeric stat cards, attributing each number by the
// wording of its surrounding card.
func markupStatCards(doc *goquery.Selection) statCards {
	var out statCards
	doc.Find(statSelector).Each(func(_ int, el *goquery.Selection) {
		n, ok := parseNumber(el.Text())
		if !ok {
			return
		}
		around := strings.ToLower(el.Parent().Text())
		switch {
		case strings.Contains(around, "following"):
			out.following = int(n)
		case strings.Contains(around, "follower"):
			out.followers = int(n)
		case strings.Contains(around, "project"):
			out.projects = int(n)
		}
	})
	return out
}
