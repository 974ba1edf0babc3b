package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/internal/domain/aggregate"
	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type stubAggregator struct {
	rec   model.Record
	err   error
	calls []string
}

func (s *stubAggregator) Aggregate(_ context.Context, identifier string) (model.Record, error) {
	s.calls = append(s.calls, identifier)
	if s.err != nil {
		return model.Record{}, s.err
	}
	return s.rec, nil
}

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func sampleRecord() model.Record {
	rec := model.NewRecord("jo.base.eth")
	rec.UserID = "p-1"
	rec.RelativePath = "/jo"
	rec.Human = true
	rec.Profile = model.Profile{Name: "jo", Wallets: []string{"0xabc"}}
	rec.BuilderScore = &model.Score{Slug: "builder_score", Points: 180}
	rec.Scores["builder_score"] = *rec.BuilderScore
	for i := 0; i < 12; i++ {
		rec.Events = append(rec.Events, model.Event{
			Type:         "score_update",
			Timestamp:    time.Date(2025, time.Month(1+i%5), 2, 0, 0, 0, 0, time.UTC),
			NewValue:     ptr(float64(100 + i)),
			PointsChange: ptr(1),
		})
	}
	rec.Credentials = []model.Credential{
		{Name: "Passport", Category: "Identity", EarnedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Old", Category: "skills", EarnedAt: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	rec.Accounts = []model.Account{{Source: "wallet", Identifier: "0xabc"}, {Source: "github", Identifier: "jo"}}
	rec.Socials = []model.Social{{Source: "farcaster", Handle: "jo"}}
	rec.Projects = []model.Project{{Title: "Ledger", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}}
	rec.ProjectsSource = model.ProjectsFromScrape
	rec.SourceURL = "https://talent.app/jo"
	rec.Availability = model.Availability{Profile: true, Events: true, Scraping: true}
	return rec
}

func TestService_Wrapped(t *testing.T) {
	Convey("Given a service over a successful aggregator", t, func() {
		agg := &stubAggregator{rec: sampleRecord()}
		svc := service.New(agg,
			service.WithClock(func() time.Time { return fixedNow }),
			service.WithWebURL("https://talent.app/"),
		)

		Convey("When building the view", func() {
			view, err := svc.Wrapped(context.Background(), "  jo.base.eth ")
			So(err, ShouldBeNil)

			Convey("Then the identifier is trimmed before aggregation", func() {
				So(agg.calls, ShouldResemble, []string{"jo.base.eth"})
			})

			Convey("And the user block carries identity and verification", func() {
				So(view.User.ID, ShouldEqual, "p-1")
				So(view.User.Verified.Human, ShouldBeTrue)
				So(view.User.ProfileURL, ShouldEqual, "https://talent.app/jo")
				So(view.User.Tags, ShouldNotBeNil)
			})

			Convey("And events are summarised", func() {
				So(view.Activity.Events.Total, ShouldEqual, 12)
				So(view.Activity.Events.Recent, ShouldHaveLength, 10)
				So(view.Activity.Events.Timeline, ShouldHaveLength, 12)
			})

			Convey("And the summaries count their slices", func() {
				So(view.Credentials.Count, ShouldEqual, 2)
				So(view.Credentials.ByCategory[model.BucketIdentity], ShouldHaveLength, 1)
				So(view.Credentials.ByCategory[model.BucketSkills], ShouldHaveLength, 1)
				So(view.Connections.TotalConnections, ShouldEqual, 3)
				So(view.Projects.Count, ShouldEqual, 1)
				So(view.Projects.Source, ShouldEqual, model.ProjectsFromScrape)
			})

			Convey("And the year in review uses the injected clock", func() {
				So(view.Metadata.Year, ShouldEqual, 2025)
				So(view.Metadata.GeneratedAt, ShouldEqual, fixedNow)
				So(view.YearInReview.Year, ShouldEqual, 2025)
				So(view.YearInReview.CredentialsEarned, ShouldEqual, 1)
				So(view.YearInReview.ProjectsLaunched, ShouldEqual, 1)
				So(view.Scores.Level, ShouldResemble, model.Level{Name: "Proficient", Index: 4})
			})

			Convey("And the data sources mirror availability", func() {
				So(view.Metadata.DataSources.Events, ShouldBeTrue)
				So(view.Metadata.DataSources.Credentials, ShouldBeFalse)
				So(view.Metadata.SourceURL, ShouldEqual, "https://talent.app/jo")
			})

			Convey("And the counters record the request", func() {
				st := svc.GetStats()
				So(st["requests"], ShouldEqual, int64(1))
				So(st["served"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_WrappedErrors(t *testing.T) {
	Convey("Given invalid identifiers", t, func() {
		agg := &stubAggregator{}
		svc := service.New(agg, service.WithMaxIdentifierLength(8))

		for _, id := range []string{"", "   ", strings.Repeat("x", 9)} {
			_, err := svc.Wrapped(context.Background(), id)
			So(errors.Is(err, service.ErrInvalidIdentifier), ShouldBeTrue)
		}
		So(agg.calls, ShouldBeEmpty)
		So(svc.GetStats()["failed"], ShouldEqual, int64(3))
	})

	Convey("Given an aggregator reporting not found", t, func() {
		agg := &stubAggregator{err: fmt.Errorf("resolve %q: %w", "ghost", model.ErrNotFound)}
		svc := service.New(agg)

		_, err := svc.Wrapped(context.Background(), "ghost")
		So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		So(svc.GetStats()["notFound"], ShouldEqual, int64(1))
	})

	Convey("Given an aggregator reporting an unavailable profile", t, func() {
		agg := &stubAggregator{err: fmt.Errorf("resolve: %w", aggregate.ErrProfileUnavailable)}
		svc := service.New(agg)

		_, err := svc.Wrapped(context.Background(), "jo")
		So(errors.Is(err, service.ErrProfileUnavailable), ShouldBeTrue)
		So(svc.GetStats()["failed"], ShouldEqual, int64(1))
	})
}
