package rank

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/content"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func ids(scored []Scored) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Record.ID
	}
	return out
}

func TestWeights(t *testing.T) {
	Convey("Given weights", t, func() {
		Convey("The defaults are valid and sum to 1", func() {
			So(DefaultWeights().Validate(), ShouldBeNil)
			So(DefaultWeights().Sum(), ShouldAlmostEqual, 1)
		})

		Convey("Sums below 1 are accepted", func() {
			So(Weights{Genre: 0.5}.Validate(), ShouldBeNil)
			So(Weights{Genre: 0.7, Actor: 0.2, Director: 0.1}.Validate(), ShouldBeNil)
		})

		Convey("Negative weights are rejected", func() {
			err := Weights{Genre: 0.5, Actor: -0.1}.Validate()
			So(errors.Is(err, ErrNegativeWeight), ShouldBeTrue)
		})

		Convey("Sums above 1 are rejected", func() {
			err := Weights{Genre: 0.6, Actor: 0.5}.Validate()
			So(errors.Is(err, ErrWeightSum), ShouldBeTrue)
		})

		Convey("ScoreForUser refuses invalid weights", func() {
			_, err := New().ScoreForUser(nil, NewProfile(), Weights{Genre: 2})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRecency(t *testing.T) {
	Convey("Recency decays with age", t, func() {
		So(Recency(2026, 2026), ShouldEqual, 1)
		So(Recency(2027, 2026), ShouldEqual, 1)
		So(Recency(2025, 2026), ShouldEqual, 1)
		So(Recency(2024, 2026), ShouldAlmostEqual, 0.6)
		So(Recency(2023, 2026), ShouldAlmostEqual, 0.2)
		So(Recency(1990, 2026), ShouldEqual, 0.2)
		So(Recency(0, 2026), ShouldEqual, 0.2)
	})
}

func TestScoreForUser(t *testing.T) {
	engine := New(WithClock(fixedClock))

	Convey("Given a user without history", t, func() {
		profile := NewProfile()

		Convey("Candidates are ranked by popularity alone", func() {
			scored, err := engine.ScoreForUser([]content.Record{
				{ID: "a", Popularity: 10, Genres: []string{"Drame"}},
				{ID: "b", Popularity: 50},
				{ID: "c"},
			}, profile, DefaultWeights())
			So(err, ShouldBeNil)
			So(ids(scored), ShouldResemble, []string{"b", "a", "c"})
			So(scored[0].Score.Final, ShouldEqual, 1)
			So(scored[1].Score.Final, ShouldAlmostEqual, 0.2)
			So(scored[0].Score.Components, ShouldHaveLength, 1)
		})

		Convey("Ratings stand in when no popularity is known", func() {
			scored, _ := engine.ScoreForUser([]content.Record{
				{ID: "a", Rating: 6},
				{ID: "b", Rating: 8},
			}, profile, DefaultWeights())
			So(ids(scored), ShouldResemble, []string{"b", "a"})
			So(scored[0].Score.Final, ShouldAlmostEqual, 0.8)
		})
	})

	Convey("Given a user who liked romances with actor X", t, func() {
		profile := NewProfile()
		profile.Observe(content.Record{Genres: []string{"Romance", "Drame"}, Actors: []string{"X"}})
		profile.Observe(content.Record{Genres: []string{"romance"}})

		scored, err := engine.ScoreForUser([]content.Record{
			{ID: "old", Genres: []string{"Drame"}, Year: 2010},
			{ID: "match", Genres: []string{"Romance"}, Actors: []string{"X"}, Year: 2026},
		}, profile, DefaultWeights())
		So(err, ShouldBeNil)

		Convey("Affinity and recency drive the order", func() {
			So(ids(scored), ShouldResemble, []string{"match", "old"})
			So(scored[0].Score.Final, ShouldAlmostEqual, 0.8)
			So(scored[1].Score.Final, ShouldAlmostEqual, 0.24)
		})

		Convey("Every component is normalized", func() {
			for _, s := range scored {
				So(s.Score.Components, ShouldHaveLength, 5)
				for _, v := range s.Score.Components {
					So(v, ShouldBeBetweenOrEqual, 0.0, 1.0)
				}
			}
			So(scored[1].Score.Components[FactorGenre], ShouldAlmostEqual, 0.5)
		})

		Convey("Identical records always score the same and fall back to id order", func() {
			weights := Weights{Genre: 0.37, Actor: 0.23, Director: 0.11, Recency: 0.17, Popularity: 0.12}
			twin := func(id string) content.Record {
				return content.Record{ID: id, Genres: []string{"Romance", "Drame"}, Actors: []string{"X", "Y"}, Year: 2025, Popularity: 3}
			}
			candidates := []content.Record{twin("b"), twin("a"), {ID: "c", Popularity: 7}}

			first, err := engine.ScoreForUser(candidates, profile, weights)
			So(err, ShouldBeNil)
			for i := 0; i < 200; i++ {
				again, _ := engine.ScoreForUser(candidates, profile, weights)
				So(again[0].Score.Final, ShouldEqual, again[1].Score.Final)
				So(again[0].Score.Final, ShouldEqual, first[0].Score.Final)
				So(ids(again)[:2], ShouldResemble, []string{"a", "b"})
			}
		})
	})

	Convey("Given a user with watch history", t, func() {
		profile := NewProfile()
		profile.Watch(WatchState{ContentID: "done", Percentage: 95})
		profile.Watch(WatchState{ContentID: "half", Percentage: 40})
		profile.Watch(WatchState{ContentID: "renewed", Percentage: 100, LastEpisode: 10})
		profile.Watch(WatchState{ContentID: "finished", Percentage: 100, LastEpisode: 12})

		scored, err := engine.ScoreForUser([]content.Record{
			{ID: "done"},
			{ID: "half"},
			{ID: "renewed", EpisodeCount: 12},
			{ID: "finished", EpisodeCount: 12},
			{ID: "new"},
		}, profile, DefaultWeights())
		So(err, ShouldBeNil)

		Convey("Watched records are hidden unless new episodes exist", func() {
			So(ids(scored), ShouldNotContain, "done")
			So(ids(scored), ShouldNotContain, "finished")
			So(ids(scored), ShouldContain, "half")
			So(ids(scored), ShouldContain, "renewed")
			So(ids(scored), ShouldContain, "new")
		})

		Convey("The threshold is configurable", func() {
			strict := New(WithClock(fixedClock), WithWatchedThreshold(99))
			So(strict.Watched(content.Record{ID: "done"}, profile), ShouldBeFalse)
		})

		Convey("Progress never goes backwards", func() {
			profile.Watch(WatchState{ContentID: "done", Percentage: 10})
			So(profile.Watched["done"].Percentage, ShouldEqual, 95)
		})
	})
}

func TestScoreKeywords(t *testing.T) {
	engine := New()

	Convey("Tokenize drops stop words and duplicates", t, func() {
		So(Tokenize("Le Film, le FILM et the Matrix"), ShouldResemble, []string{"film", "matrix"})
		So(Tokenize("le la les"), ShouldBeEmpty)
	})

	Convey("Given a free-text wish", t, func() {
		candidates := []content.Record{
			{ID: "1", Title: "Robots", Genres: []string{"Science-Fiction"}, Type: content.Movie},
			{ID: "2", Title: "Le Robot Sauvage", Genres: []string{"Animation"}, Description: "un film d'animation"},
			{ID: "3", Title: "Amélie", Genres: []string{"Comédie"}},
		}
		scored := engine.ScoreKeywords(candidates, "Je veux un film de science-fiction avec des robots")

		Convey("Title hits outweigh genre and text hits", func() {
			So(ids(scored), ShouldResemble, []string{"1", "2"})
			So(scored[0].Score.Final, ShouldEqual, 10)
			So(scored[0].Score.Components[FactorTitle], ShouldEqual, 3)
			So(scored[0].Score.Components[FactorGenre], ShouldEqual, 4)
			So(scored[0].Score.Components[FactorExact], ShouldEqual, 3)
			So(scored[1].Score.Final, ShouldEqual, 2)
		})

		Convey("A text of stop words matches nothing", func() {
			So(engine.ScoreKeywords(candidates, "the and le"), ShouldBeEmpty)
		})
	})
}
