package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		filesystem.SetMemMapFs()
		h := New("/history/" + t.Name() + ".json")
		clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		h.now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}

		series := content.Record{ID: "s1", Title: "Squid Game", Type: content.Series, Genres: []string{"Thriller"}, EpisodeCount: 9}
		film := content.Record{ID: "m1", Title: "Parasite", Type: content.Movie, Genres: []string{"Thriller", "Drame"}, Directors: []string{"Bong Joon-ho"}}

		entries, err := h.List()
		So(err, ShouldBeNil)
		So(entries, ShouldBeEmpty)

		Convey("When saving progress", func() {
			So(h.Save(NewEntry(series, 50, 4)), ShouldBeNil)
			So(h.Save(NewEntry(film, 90, 0)), ShouldBeNil)

			Convey("Then entries are listed newest first", func() {
				entries, err := h.List()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ContentID, ShouldEqual, "m1")
				So(entries[1].Title, ShouldEqual, "Squid Game")
			})

			Convey("Then progress never goes backwards", func() {
				So(h.Save(NewEntry(film, 10, 0)), ShouldBeNil)
				saved, _ := h.Get()
				So(saved["m1"].Percentage, ShouldEqual, 90)
			})

			Convey("Then episodes only move forward", func() {
				So(h.Save(NewEntry(series, 100, 9)), ShouldBeNil)
				So(h.Save(NewEntry(series, 20, 2)), ShouldBeNil)
				saved, _ := h.Get()
				So(saved["s1"].LastEpisode, ShouldEqual, 9)
				So(saved["s1"].Percentage, ShouldEqual, 100)
			})

			Convey("Then a reopened history sees them", func() {
				reopened := New("/history/" + t.Name() + ".json")
				saved, err := reopened.Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "s1")
			})

			Convey("Then the profile carries their traits", func() {
				profile, err := h.Profile()
				So(err, ShouldBeNil)
				So(profile.Genres["thriller"], ShouldEqual, 2)
				So(profile.Directors["bong joon-ho"], ShouldEqual, 1)
				So(profile.Watched["s1"].LastEpisode, ShouldEqual, 4)
				So(profile.HasSignal(), ShouldBeTrue)
			})

			Convey("And removing one", func() {
				So(h.Remove("m1"), ShouldBeNil)
				So(h.Remove("unknown"), ShouldBeNil)
				saved, _ := h.Get()
				So(saved, ShouldHaveLength, 1)
				So(saved, ShouldNotContainKey, "m1")
			})
		})
	})
}
