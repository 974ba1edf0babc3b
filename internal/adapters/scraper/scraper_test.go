package scraper_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/wrapped/internal/adapters/scraper"
	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

// pageServer serves body for every path with the given status and records
// the last request.
func pageServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var last http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestScrapeEmbedded(t *testing.T) {
	srv, req := pageServer(t, http.StatusOK, fixture(t, "embedded.html"))
	s := scraper.New(srv.URL)

	page, err := s.Scrape(context.Background(), "/jo")
	require.NoError(t, err)

	assert.Equal(t, scraper.StrategyEmbedded, page.Strategy)
	assert.Equal(t, srv.URL+"/jo", page.SourceURL)
	assert.Equal(t, "/jo", req.URL.Path)
	assert.Contains(t, req.Header.Get("User-Agent"), "Chrome/")
	assert.Equal(t, "en-US,en;q=0.5", req.Header.Get("Accept-Language"))

	sup := page.Supplement
	require.Len(t, sup.Projects, 1)
	assert.Equal(t, model.Project{
		Title:       "Wrapped",
		Description: "year in review",
		Link:        "https://wrapped.example",
		Image:       "https://img/w.png",
		Tags:        []string{"go", "web3"},
		CreatedAt:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}, sup.Projects[0])
	assert.Equal(t, []string{"Go", "Solidity"}, sup.Skills)
	assert.Equal(t, []model.Achievement{
		{Title: "Early Builder", Description: "joined early"},
		{Title: "Human"},
	}, sup.Achievements)
	assert.Len(t, sup.RecentActivity, 20)
	assert.Equal(t, "activity 0", sup.RecentActivity[0].Description)

	// embedded counters win over the rendered page
	assert.Equal(t, 10, sup.Followers)
	assert.Equal(t, 3, sup.Following)
	assert.Equal(t, 120, sup.Rank)
	assert.Equal(t, 1500.5, sup.CreatorCoin.MarketCap)
	assert.Equal(t, 12, sup.CreatorCoin.Holders)

	// counters absent from the snapshot come from labels
	assert.Equal(t, 7, sup.Activity.CurrentStreak)
	assert.Equal(t, 1204, sup.Activity.TotalActivity)
	assert.Zero(t, sup.Activity.UniqueDays)
	assert.NotNil(t, sup.PageScores)
}

func TestScrapeMarkup(t *testing.T) {
	srv, _ := pageServer(t, http.StatusOK, fixture(t, "markup.html"))
	s := scraper.New(srv.URL + "/")

	page, err := s.Scrape(context.Background(), "jo")
	require.NoError(t, err)
	assert.Equal(t, scraper.StrategyMarkup, page.Strategy)
	assert.Equal(t, srv.URL+"/jo", page.SourceURL)

	sup := page.Supplement

	t.Run("projects are filtered and de-duplicated", func(t *testing.T) {
		require.Len(t, sup.Projects, 2)
		assert.Equal(t, "Wrapped", sup.Projects[0].Title)
		assert.Equal(t, "Year in review for builders", sup.Projects[0].Description)
		assert.Equal(t, "https://wrapped.example", sup.Projects[0].Link)
		assert.Equal(t, "https://img.example/wrapped.png", sup.Projects[0].Image)
		assert.Equal(t, []string{"Go", "Web3"}, sup.Projects[0].Tags)
		assert.Equal(t, "Ledger Tools", sup.Projects[1].Title)
		assert.Equal(t, "Accounting helpers", sup.Projects[1].Description)
		assert.Equal(t, "https://img.example/ledger.png", sup.Projects[1].Image)
		for _, p := range sup.Projects {
			assert.Greater(t, len(p.Title), 2)
		}
	})

	t.Run("skills are unique and short", func(t *testing.T) {
		assert.Equal(t, []string{"Go", "Web3", "Solidity"}, sup.Skills)
	})

	t.Run("achievements need a title", func(t *testing.T) {
		assert.Equal(t, []model.Achievement{{Title: "Top Contributor", Description: "Top 1% on Base"}}, sup.Achievements)
	})

	t.Run("feed items need a description", func(t *testing.T) {
		assert.Equal(t, []model.ActivityItem{
			{Type: "commit", Description: "Pushed 3 commits", Date: "2025-05-01"},
			{Description: "Deployed a contract", Date: "Apr 2"},
		}, sup.RecentActivity)
	})

	t.Run("labelled metrics", func(t *testing.T) {
		assert.Equal(t, model.ActivityCounters{
			CurrentStreak: 12,
			LongestStreak: 30,
			TotalActivity: 1024,
			UniqueDays:    210,
		}, sup.Activity)
		assert.Equal(t, 1250.75, sup.BuilderRewards)
		assert.Equal(t, 2048, sup.GithubContributions)
		assert.Equal(t, 5, sup.ContractsDeployed)
		assert.Equal(t, model.CreatorCoin{MarketCap: 12500, TotalVolume: 3400.5, Holders: 87}, sup.CreatorCoin)
		assert.Equal(t, 1234, sup.Followers)
		assert.Equal(t, 56, sup.Following)
		assert.Equal(t, 42, sup.Rank)
	})

	t.Run("adjacent figures do not run together", func(t *testing.T) {
		srv, _ := pageServer(t, http.StatusOK, `<html><body><main>
<div><span>Rank #12</span><span>42 Followers</span></div>
<div><span>Longest Streak 9</span><span>18</span><span>Following</span></div>
<div><span>5</span><span>Current Streak</span><span>12 days</span></div>
</main></body></html>`)

		page, err := scraper.New(srv.URL).Scrape(context.Background(), "jo")
		require.NoError(t, err)

		sup := page.Supplement
		assert.Equal(t, 42, sup.Followers)
		assert.Equal(t, 18, sup.Following)
		assert.Equal(t, 12, sup.Activity.CurrentStreak)
		assert.Equal(t, 9, sup.Activity.LongestStreak)
	})
}

func TestScrapeInvalidEmbeddedFallsBackToMarkup(t *testing.T) {
	body := `<html><body><script id="__NEXT_DATA__" type="application/json">{not json</script>
<div class="project-card"><h2>Fallback Project</h2></div></body></html>`
	srv, _ := pageServer(t, http.StatusOK, body)

	page, err := scraper.New(srv.URL).Scrape(context.Background(), "/jo")
	require.NoError(t, err)
	assert.Equal(t, scraper.StrategyMarkup, page.Strategy)
	require.Len(t, page.Supplement.Projects, 1)
	assert.Equal(t, "Fallback Project", page.Supplement.Projects[0].Title)
}

func TestScrapeFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   error
	}{
		"server error":   {status: http.StatusInternalServerError, body: "<html><body><p>oops</p></body></html>", want: scraper.ErrUnavailable},
		"not found":      {status: http.StatusNotFound, body: "", want: scraper.ErrUnavailable},
		"empty body":     {status: http.StatusOK, body: "  \n ", want: scraper.ErrUnusable},
		"malformed html": {status: http.StatusOK, body: "<<<>>> <html", want: scraper.ErrUnusable},
		"plain text":     {status: http.StatusOK, body: "Service temporarily unavailable", want: scraper.ErrUnusable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := pageServer(t, tc.status, tc.body)
			page, err := scraper.New(srv.URL).Scrape(context.Background(), "/jo")

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, model.EmptySupplement(), page.Supplement)
			assert.Equal(t, srv.URL+"/jo", page.SourceURL)
		})
	}

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		page, err := scraper.New(srv.URL).Scrape(context.Background(), "/jo")
		assert.ErrorIs(t, err, scraper.ErrUnavailable)
		assert.Equal(t, model.EmptySupplement(), page.Supplement)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		_, err := scraper.New(srv.URL, scraper.WithTimeout(50*time.Millisecond)).Scrape(context.Background(), "/jo")
		assert.ErrorIs(t, err, scraper.ErrUnavailable)
	})
}

func TestScrapeScores(t *testing.T) {
	srv, req := pageServer(t, http.StatusOK, fixture(t, "scores.html"))

	scores, err := scraper.New(srv.URL).ScrapeScores(context.Background(), "/jo")
	require.NoError(t, err)
	assert.Equal(t, "/jo/scores", req.URL.Path)
	assert.Equal(t, []model.PageScore{
		{Type: "Builder Score", Rank: 12, Points: 1345},
		{Type: "Creator Score", Rank: 480, Points: 87},
		{Type: "Base Builder Score", Rank: 7, Points: 2000},
	}, scores)

	t.Run("failure yields an empty list", func(t *testing.T) {
		srv, _ := pageServer(t, http.StatusBadGateway, "")
		scores, err := scraper.New(srv.URL).ScrapeScores(context.Background(), "/jo")
		assert.ErrorIs(t, err, scraper.ErrUnavailable)
		assert.NotNil(t, scores)
		assert.Empty(t, scores)
	})
}

func TestURL(t *testing.T) {
	s := scraper.New("https://talent.app/", scraper.WithUserAgent("probe/1.0"))
	assert.Equal(t, "https://talent.app/jo", s.URL("/jo"))
	assert.Equal(t, "https://talent.app/jo", s.URL("jo"))
	assert.Equal(t, "https://other.example/x", s.URL("https://other.example/x"))
}
