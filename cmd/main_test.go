package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/wrapped/internal/config"
	"github.com/okian/wrapped/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func fakeUpstreams() (*httptest.Server, *httptest.Server) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/search/advanced/profiles" && r.URL.Query().Get("name") == "jo":
			_, _ = w.Write([]byte(`{"profiles":[{"id":"p-1","name":"jo","relative_path":"/jo","builder_score":{"points":90}}]}`))
		case r.URL.Path == "/search/advanced/profiles":
			_, _ = w.Write([]byte(`{"profiles":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	}))
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><main><div><span>12</span><span>Followers</span></div></main></body></html>`))
	}))
	return api, site
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the wired application handler", t, func() {
		api, site := fakeUpstreams()
		defer api.Close()
		defer site.Close()

		cfg := config.New()
		cfg.TalentAPIURL = api.URL
		cfg.TalentWebURL = site.URL
		cfg.UpstreamTimeoutMS = 2000
		cfg.ScrapeTimeoutMS = 2000
		h := newHandler(context.Background(), cfg)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("When requesting a known identifier", func() {
			w := get("/api/wrapped/jo")

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var body struct {
				Success bool `json:"success"`
				Data    struct {
					User struct {
						ID string `json:"id"`
					} `json:"user"`
					Metadata struct {
						DataSources map[string]bool `json:"dataSources"`
					} `json:"metadata"`
					Activity struct {
						Scraped struct {
							Followers int `json:"followers"`
						} `json:"scraped"`
					} `json:"activity"`
				} `json:"data"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(body.Success, convey.ShouldBeTrue)
			convey.So(body.Data.User.ID, convey.ShouldEqual, "p-1")
			convey.So(body.Data.Metadata.DataSources["profile"], convey.ShouldBeTrue)
			convey.So(body.Data.Metadata.DataSources["events"], convey.ShouldBeFalse)
			convey.So(body.Data.Metadata.DataSources["scraping"], convey.ShouldBeTrue)
			convey.So(body.Data.Activity.Scraped.Followers, convey.ShouldEqual, 12)
		})

		convey.Convey("When requesting an unknown identifier", func() {
			convey.So(get("/api/wrapped/ghost").Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("When requesting the ambient routes", func() {
			convey.So(get("/api/health").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestNewHandler_SlowProfileService(t *testing.T) {
	convey.Convey("Given a profile service slower than the upstream timeout", t, func() {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer api.Close()

		cfg := config.New()
		cfg.TalentAPIURL = api.URL
		cfg.UpstreamTimeoutMS = 50
		h := newHandler(context.Background(), cfg)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/wrapped/jo", http.NoBody))

		convey.Convey("Then the boundary reports a gateway timeout without upstream details", func() {
			convey.So(w.Code, convey.ShouldEqual, http.StatusGatewayTimeout)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"success":false`)
			convey.So(w.Body.String(), convey.ShouldNotContainSubstring, api.URL)
			convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "search/advanced")
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
