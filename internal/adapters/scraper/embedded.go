package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/okian/wrapped/internal/domain/model"
)

const recentActivityLimit = 20

// embeddedPayload returns the page's embedded state snapshot, or an empty
// result when the page has none or it is not valid JSON.
func embeddedPayload(doc *goquery.Document) gjson.Result {
	raw := strings.TrimSpace(doc.Find(`script#__NEXT_DATA__`).First().Text())
	if raw == "" || !gjson.Valid(raw) {
		return gjson.Result{}
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return gjson.Result{}
	}
	return res
}

// pick returns the first path under r that holds a value of the wanted shape.
func pick(r gjson.Result, want func(gjson.Result) bool, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && want(v) {
			return v
		}
	}
	return gjson.Result{}
}

func isObject(v gjson.Result) bool { return v.IsObject() }
func isArray(v gjson.Result) bool  { return v.IsArray() }
func isScalar(v gjson.Result) bool { return v.Type == gjson.Number || v.Type == gjson.String }

func fromEmbedded(x *extraction, root gjson.Result) model.Supplement {
	props := root.Get("props.pageProps")
	if !props.IsObject() {
		props = root
	}
	profile := pick(props, isObject, "profile", "user", "talent")
	if !profile.Exists() {
		profile = props
	}

	sup := model.EmptySupplement()
	sup.Projects = probe(x, "projects", func() []model.Project {
		list := pick(profile, isArray, "projects", "portfolio", "works")
		if !list.Exists() {
			list = pick(props, isArray, "projects", "portfolio")
		}
		return jsonProjects(list)
	})
	sup.Skills = probe(x, "skills", func() []string {
		return uniqueStrings(pick(profile, isArray, "skills", "tags", "interests"), "name")
	})
	sup.Achievements = probe(x, "achievements", func() []model.Achievement {
		return jsonAchievements(pick(profile, isArray, "achievements", "credentials", "badges"))
	})
	sup.RecentActivity = probe(x, "recent_activity", func() []model.ActivityItem {
		return jsonActivity(pick(profile, isArray, "activities", "events"))
	})

	count := func(field string, keys ...string) int {
		return probe(x, field, func() int { return int(num(pick(profile, isScalar, keys...))) })
	}
	sup.Followers = count("followers", "followers_count", "followersCount", "followers")
	sup.Following = count("following", "following_count", "followingCount", "following")
	sup.ProjectsCount = count("projects_count", "projects_count", "projectsCount")
	sup.Rank = count("rank", "builder_rank", "builderRank", "rank")
	sup.GithubContributions = count("github_contributions", "github_contributions", "githubContributions")
	sup.ContractsDeployed = count("contracts_deployed", "contracts_deployed", "contractsDeployed")
	sup.Activity = model.ActivityCounters{
		CurrentStreak: count("current_streak", "current_streak", "currentStreak"),
		LongestStreak: count("longest_streak", "longest_streak", "longestStreak"),
		TotalActivity: count("total_activity", "total_activity", "totalActivity"),
		UniqueDays:    count("unique_days", "unique_days", "uniqueDays"),
	}
	sup.BuilderRewards = probe(x, "builder_rewards", func() float64 {
		return num(pick(profile, isScalar, "builder_rewards", "builderRewards"))
	})
	sup.CreatorCoin = probe(x, "creator_coin", func() model.CreatorCoin {
		coin := pick(profile, isObject, "creator_coin", "creatorCoin")
		return model.CreatorCoin{
			MarketCap:   num(pick(coin, isScalar, "market_cap", "marketCap")),
			TotalVolume: num(pick(coin, isScalar, "total_volume", "totalVolume")),
			Holders:     int(num(pick(coin, isScalar, "holders", "holders_count", "holdersCount"))),
		}
	})
	return sup
}

func num(v gjson.Result) float64 {
	if v.Type == gjson.Number {
		return v.Float()
	}
	f, _ := parseNumber(v.String())
	return f
}

func text(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := strings.TrimSpace(v.Get(p).String()); s != "" {
			return s
		}
	}
	return ""
}

func jsonProjects(list gjson.Result) []model.Project {
	out := []model.Project{}
	list.ForEach(func(_, p gjson.Result) bool {
		title := text(p, "name", "title")
		if title == "" {
			return true
		}
		created, _ := time.Parse(time.RFC3339, text(p, "created_at", "createdAt"))
		out = append(out, model.Project{
			Title:       title,
			Description: text(p, "description"),
			Link:        text(p, "url", "link"),
			Image:       text(p, "image", "logo", "image_url"),
			Tags:        uniqueStrings(p.Get("tags"), "name"),
			CreatedAt:   created,
		})
		return true
	})
	return out
}

func uniqueStrings(list gjson.Result, field string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	list.ForEach(func(_, v gjson.Result) bool {
		s := v.String()
		if v.IsObject() {
			s = v.Get(field).String()
		}
		s = strings.TrimSpace(s)
		if _, dup := seen[s]; s == "" || dup {
			return true
		}
		seen[s] = struct{}{}
		out = append(out, s)
		return true
	})
	return out
}

func jsonAchievements(list gjson.Result) []model.Achievement {
	out := []model.Achievement{}
	list.ForEach(func(_, v gjson.Result) bool {
		a := model.Achievement{Title: strings.TrimSpace(v.String())}
		if v.IsObject() {
			a = model.Achievement{Title: text(v, "title", "name"), Description: text(v, "description")}
		}
		if a.Title != "" {
			out = append(out, a)
		}
		return true
	})
	return out
}

func jsonActivity(list gjson.Result) []model.ActivityItem {
	out := []model.ActivityItem{}
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, model.ActivityItem{
			Type:        text(v, "type", "event_type"),
			Description: text(v, "description", "title"),
			Date:        text(v, "created_at", "date", "timestamp"),
		})
		return len(out) < recentActivityLimit
	})
	return out
}
