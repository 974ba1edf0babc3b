package talent

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/wrapped/internal/domain/model"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// list returns the items of a response that is either a bare array or an
// envelope holding the array under key.
func list(op string, res gjson.Result, key string) ([]gjson.Result, error) {
	if res.IsArray() {
		return res.Array(), nil
	}
	v := res.Get(key)
	switch {
	case v.IsArray():
		return v.Array(), nil
	case v.Exists() && v.Type == gjson.Null:
		return nil, nil
	}
	return nil, &Error{Op: op, Kind: ErrDecode, Reason: "expected " + key + " array"}
}

// first returns the first existing, non-null value among paths.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func str(r gjson.Result, paths ...string) string {
	return strings.TrimSpace(first(r, paths...).String())
}

// number reads a JSON number or a numeric string.
func number(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f, err == nil
	}
	return 0, false
}

func optNumber(r gjson.Result, paths ...string) *float64 {
	f, ok := number(first(r, paths...))
	if !ok {
		return nil
	}
	return &f
}

func parseTime(v gjson.Result) time.Time {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// strs flattens an array of strings or of objects carrying field.
func strs(v gjson.Result, field string) []string {
	out := []string{}
	v.ForEach(func(_, item gjson.Result) bool {
		s := item.String()
		if item.IsObject() {
			s = item.Get(field).String()
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func parseProfile(r gjson.Result) model.Profile {
	p := model.Profile{
		ID:                  str(r, "id"),
		Name:                str(r, "name"),
		DisplayName:         str(r, "display_name"),
		Bio:                 str(r, "bio"),
		ImageURL:            str(r, "image_url"),
		Location:            str(r, "location"),
		Tags:                strs(r.Get("tags"), "name"),
		HumanCheckmark:      r.Get("human_checkmark").Bool(),
		VerifiedNationality: r.Get("verified_nationality").Bool(),
		CreatedAt:           parseTime(r.Get("created_at")),
		RefreshedAt:         parseTime(r.Get("profile_refreshed_at")),
		TalentProtocolID:    str(r, "talent_protocol_id"),
		RelativePath:        str(r, "relative_path"),
		Scores:              []model.Score{},
		Wallets:             strs(r.Get("wallets"), "address"),
		Socials:             []string{},
	}

	bs := r.Get("builder_score")
	if bs.IsObject() {
		s := parseScore(bs, "builder_score")
		p.BuilderScore = &s
	} else if f, ok := number(bs); ok {
		p.BuilderScore = &model.Score{Slug: "builder_score", Points: f}
	}

	r.Get("scores").ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			p.Scores = append(p.Scores, parseScore(v, ""))
		}
		return true
	})
	return p
}

func parseScore(r gjson.Result, slug string) model.Score {
	s := model.Score{
		Slug:             str(r, "slug"),
		RankPosition:     int(first(r, "rank_position").Int()),
		LastCalculatedAt: parseTime(first(r, "last_calculated_at", "calculated_at")),
	}
	if s.Slug == "" {
		s.Slug = slug
	}
	if f, ok := number(first(r, "points", "score", "value")); ok {
		s.Points = f
	}
	return s
}

func parseCredential(r gjson.Result) model.Credential {
	c := model.Credential{
		Name:             str(r, "name"),
		Slug:             str(r, "slug"),
		Category:         str(r, "category"),
		EarnedAt:         parseTime(r.Get("earned_at")),
		LastCalculatedAt: parseTime(first(r, "last_calculated_at", "created_at")),
	}
	if f, ok := number(first(r, "points", "score")); ok {
		c.Points = f
	}
	return c
}

func parseEvent(r gjson.Result) model.Event {
	return model.Event{
		Type:         str(r, "event_type", "type"),
		Timestamp:    parseTime(first(r, "created_at", "timestamp")),
		NewValue:     optNumber(r, "new_value"),
		PointsChange: optNumber(r, "points_change"),
		Platform:     str(r, "platform", "source"),
		Significance: str(r, "significance"),
		Description:  str(r, "description"),
	}
}

func parseProject(r gjson.Result) model.Project {
	return model.Project{
		Title:       str(r, "name", "title"),
		Description: str(r, "description"),
		Link:        str(r, "url", "link", "website"),
		Image:       str(r, "image_url", "logo_url", "image"),
		Tags:        strs(r.Get("tags"), "name"),
		CreatedAt:   parseTime(first(r, "created_at", "launched_at")),
	}
}

func parseAccount(r gjson.Result) model.Account {
	return model.Account{
		Source:      str(r, "source"),
		Identifier:  str(r, "identifier", "address"),
		Username:    str(r, "username"),
		ConnectedAt: parseTime(first(r, "connected_at", "created_at")),
	}
}

func parseSocial(r gjson.Result) model.Social {
	return model.Social{
		Source:         str(r, "source"),
		Handle:         str(r, "handle", "username", "name"),
		FollowersCount: int(first(r, "followers_count").Int()),
		ProfileURL:     str(r, "profile_url"),
	}
}

// parseFacts reads numeric facts from either a list of {name, value} items
// or a flat object.
func parseFacts(r gjson.Result) model.Facts {
	out := model.Facts{}
	if inner := r.Get("data_points"); inner.Exists() {
		r = inner
	}
	if r.IsArray() {
		r.ForEach(func(_, item gjson.Result) bool {
			name := str(item, "name", "data_point_name", "slug")
			if f, ok := number(first(item, "value", "readable_value")); ok && name != "" {
				out[name] = f
			}
			return true
		})
		return out
	}
	r.ForEach(func(k, v gjson.Result) bool {
		if f, ok := number(v); ok {
			out[k.String()] = f
		}
		return true
	})
	return out
}
