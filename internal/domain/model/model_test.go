package model_test

import (
	"testing"
	"time"

	"github.com/okian/wrapped/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBucketFor(t *testing.T) {
	Convey("Given credential categories", t, func() {
		Convey("Known categories map to their bucket regardless of case", func() {
			So(model.BucketFor("identity"), ShouldEqual, model.BucketIdentity)
			So(model.BucketFor(" Activity "), ShouldEqual, model.BucketActivity)
			So(model.BucketFor("SKILLS"), ShouldEqual, model.BucketSkills)
		})

		Convey("Anything else falls into the other bucket", func() {
			for _, c := range []string{"", "social", "reputation", "skill", "identities"} {
				So(model.BucketFor(c), ShouldEqual, model.BucketOther)
			}
		})

		Convey("The bucket set is fixed and ordered", func() {
			So(model.Buckets, ShouldResemble, []model.Bucket{
				model.BucketIdentity, model.BucketActivity, model.BucketSkills, model.BucketOther,
			})
		})
	})
}

func TestCredentialEarned(t *testing.T) {
	Convey("Given a credential", t, func() {
		calc := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		c := model.Credential{LastCalculatedAt: calc}

		Convey("Without an earned date the last calculation is used", func() {
			So(c.Earned(), ShouldEqual, calc)
		})

		Convey("With an earned date it wins", func() {
			earned := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
			c.EarnedAt = earned
			So(c.Earned(), ShouldEqual, earned)
		})
	})
}

func TestEventAccessors(t *testing.T) {
	Convey("Given events with and without numbers", t, func() {
		v, d := 42.5, -3.0
		So(model.Event{}.Value(), ShouldEqual, 0)
		So(model.Event{}.Delta(), ShouldEqual, 0)
		So(model.Event{NewValue: &v, PointsChange: &d}.Value(), ShouldEqual, 42.5)
		So(model.Event{NewValue: &v, PointsChange: &d}.Delta(), ShouldEqual, -3)
	})
}

func TestProfileWithConnections(t *testing.T) {
	Convey("Given a profile with one wallet", t, func() {
		p := model.Profile{ID: "p1", Wallets: []string{"0xabc"}}

		Convey("When connections are attached", func() {
			out := p.WithConnections(
				[]model.Account{
					{Source: "wallet", Identifier: "0xabc"},
					{Source: "wallet", Identifier: "0xdef"},
					{Source: "github", Identifier: "octo"},
				},
				[]model.Social{{Source: "farcaster", Handle: "jo"}, {Source: "x", Handle: ""}},
			)

			Convey("Then wallets are de-duplicated and socials collected", func() {
				So(out.Wallets, ShouldResemble, []string{"0xabc", "0xdef"})
				So(out.Socials, ShouldResemble, []string{"jo"})
				So(out.Tags, ShouldNotBeNil)
				So(out.Scores, ShouldNotBeNil)
			})

			Convey("And the original profile is untouched", func() {
				So(p.Wallets, ShouldResemble, []string{"0xabc"})
				So(p.Socials, ShouldBeNil)
			})
		})
	})
}

func TestEmptySupplement(t *testing.T) {
	Convey("Given the empty supplement", t, func() {
		s := model.EmptySupplement()

		Convey("Every collection is present and empty", func() {
			So(s.Skills, ShouldNotBeNil)
			So(s.Achievements, ShouldNotBeNil)
			So(s.RecentActivity, ShouldNotBeNil)
			So(s.Projects, ShouldNotBeNil)
			So(s.PageScores, ShouldNotBeNil)
			So(s.Skills, ShouldBeEmpty)
			So(s.Followers, ShouldEqual, 0)
			So(s.Activity, ShouldResemble, model.ActivityCounters{})
		})

		Convey("Normalize restores nil collections", func() {
			n := model.Supplement{Followers: 4}.Normalize()
			So(n.Followers, ShouldEqual, 4)
			So(n.Projects, ShouldNotBeNil)
			So(n.PageScores, ShouldNotBeNil)
		})

		Convey("A new record starts from it", func() {
			r := model.NewRecord("jo")
			So(r.Identifier, ShouldEqual, "jo")
			So(r.Supplement, ShouldResemble, s)
			So(r.Events, ShouldNotBeNil)
			So(r.Scores, ShouldNotBeNil)
		})
	})
}
