package talent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/okian/wrapped/internal/domain/model"
)

// EventsOptions selects the events page. Zero fields take the API defaults.
type EventsOptions = model.EventsPage

const (
	defaultEventsPage    = 1
	defaultEventsPerPage = 50
)

// SearchProfiles returns the profiles whose name matches identifier exactly.
func (c *Client) SearchProfiles(ctx context.Context, identifier string) ([]model.Profile, error) {
	const op = "SearchProfiles"
	res, err := c.call(ctx, op, http.MethodGet, "/search/advanced/profiles", url.Values{"name": {identifier}}, nil)
	if err != nil {
		return nil, err
	}
	items, err := list(op, res, "profiles")
	if err != nil {
		return nil, err
	}
	out := make([]model.Profile, 0, len(items))
	for _, it := range items {
		out = append(out, parseProfile(it))
	}
	return out, nil
}

// Profile returns the first profile matching identifier, or ErrNotFound.
func (c *Client) Profile(ctx context.Context, identifier string) (model.Profile, error) {
	profiles, err := c.SearchProfiles(ctx, identifier)
	if err != nil {
		return model.Profile{}, err
	}
	if len(profiles) == 0 {
		return model.Profile{}, &Error{Op: "Profile", Kind: ErrNotFound, Reason: "no profile matches " + identifier}
	}
	return profiles[0], nil
}

// Score fetches one score type for identifier.
func (c *Client) Score(ctx context.Context, identifier, slug string) (model.Score, error) {
	const op = "Score"
	res, err := c.call(ctx, op, http.MethodGet, resourcePath("scores", slug, identifier), nil, nil)
	if err != nil {
		return model.Score{}, err
	}
	obj := res.Get("score")
	if !obj.Exists() {
		obj = res
	}
	if !obj.IsObject() {
		return model.Score{}, &Error{Op: op, Kind: ErrDecode, Reason: "expected score object"}
	}
	return parseScore(obj, slug), nil
}

// Scores fetches every configured score type concurrently. The result holds
// each slug that succeeded; an error is returned only when all of them failed.
func (c *Client) Scores(ctx context.Context, identifier string) (map[string]model.Score, error) {
	var (
		mu   sync.Mutex
		out  = make(map[string]model.Score, len(c.scoreSlugs))
		errs []error
		g    errgroup.Group
	)
	for _, slug := range c.scoreSlugs {
		g.Go(func() error {
			s, err := c.Score(ctx, identifier, slug)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			out[slug] = s
			return nil
		})
	}
	_ = g.Wait()

	if len(out) == 0 && len(errs) > 0 {
		return out, fmt.Errorf("every score lookup failed: %w", errors.Join(errs...))
	}
	return out, nil
}

// Credentials lists the credentials of identifier.
func (c *Client) Credentials(ctx context.Context, identifier string) ([]model.Credential, error) {
	const op = "Credentials"
	items, err := c.list(ctx, op, http.MethodGet, resourcePath("credentials", identifier), "credentials", nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Credential, 0, len(items))
	for _, it := range items {
		out = append(out, parseCredential(it))
	}
	return out, nil
}

type eventsQuery struct {
	AccountIdentifier string `json:"account_identifier"`
	Page              int    `json:"page"`
	PerPage           int    `json:"per_page"`
}

// Events returns one page of events for identifier.
func (c *Client) Events(ctx context.Context, identifier string, opts EventsOptions) ([]model.Event, error) {
	const op = "Events"
	q := eventsQuery{AccountIdentifier: identifier, Page: opts.Page, PerPage: opts.PerPage}
	if q.Page <= 0 {
		q.Page = defaultEventsPage
	}
	if q.PerPage <= 0 {
		q.PerPage = defaultEventsPerPage
	}
	items, err := c.list(ctx, op, http.MethodPost, "/search/advanced/events", "events", q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(items))
	for _, it := range items {
		out = append(out, parseEvent(it))
	}
	return out, nil
}

// Accounts lists the connected accounts of identifier.
func (c *Client) Accounts(ctx context.Context, identifier string) ([]model.Account, error) {
	items, err := c.list(ctx, "Accounts", http.MethodGet, resourcePath("accounts", identifier), "accounts", nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(items))
	for _, it := range items {
		out = append(out, parseAccount(it))
	}
	return out, nil
}

// Socials lists the social profiles of identifier.
func (c *Client) Socials(ctx context.Context, identifier string) ([]model.Social, error) {
	items, err := c.list(ctx, "Socials", http.MethodGet, resourcePath("socials", identifier), "socials", nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Social, 0, len(items))
	for _, it := range items {
		out = append(out, parseSocial(it))
	}
	return out, nil
}

// Projects lists the projects of identifier.
func (c *Client) Projects(ctx context.Context, identifier string) ([]model.Project, error) {
	items, err := c.list(ctx, "Projects", http.MethodGet, resourcePath("projects", identifier), "projects", nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(items))
	for _, it := range items {
		out = append(out, parseProject(it))
	}
	return out, nil
}

// HumanCheckmark reports whether identifier passed human verification.
func (c *Client) HumanCheckmark(ctx context.Context, identifier string) (bool, error) {
	const op = "HumanCheckmark"
	res, err := c.call(ctx, op, http.MethodGet, resourcePath("human_checkmark", identifier), nil, nil)
	if err != nil {
		return false, err
	}
	for _, v := range []gjson.Result{res.Get("human_checkmark"), res.Get("data.human_checkmark"), res} {
		if v.IsBool() {
			return v.Bool(), nil
		}
	}
	return false, &Error{Op: op, Kind: ErrDecode, Reason: "expected human_checkmark boolean"}
}

// DataPoints fetches the numeric facts of one data-point set.
func (c *Client) DataPoints(ctx context.Context, identifier, slug string) (model.Facts, error) {
	const op = "DataPoints"
	res, err := c.call(ctx, op, http.MethodGet, resourcePath("data_points", slug, identifier), nil, nil)
	if err != nil {
		return nil, err
	}
	if !res.IsObject() && !res.IsArray() {
		return nil, &Error{Op: op, Kind: ErrDecode, Reason: "expected data points"}
	}
	return parseFacts(res), nil
}

// ActivityDataPoints fetches every configured data-point set concurrently,
// keyed by slug. Like Scores, it fails only when every set failed.
func (c *Client) ActivityDataPoints(ctx context.Context, identifier string) (map[string]model.Facts, error) {
	var (
		mu   sync.Mutex
		out  = make(map[string]model.Facts, len(c.dataPointSlugs))
		errs []error
		g    errgroup.Group
	)
	for _, slug := range c.dataPointSlugs {
		g.Go(func() error {
			facts, err := c.DataPoints(ctx, identifier, slug)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			out[slug] = facts
			return nil
		})
	}
	_ = g.Wait()

	if len(out) == 0 && len(errs) > 0 {
		return out, fmt.Errorf("every data point lookup failed: %w", errors.Join(errs...))
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, op, method, path, key string, body any) ([]gjson.Result, error) {
	res, err := c.call(ctx, op, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	return list(op, res, key)
}
