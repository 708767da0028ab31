package categorize

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/content"
)

func TestNormalizeGenres(t *testing.T) {
	Convey("Given raw genre labels", t, func() {
		raw := []string{"sci-fi", "Drama", " Science  Fiction ", "drame", "Cyberpunk", "", "COMEDY"}
		out := NormalizeGenres(raw)

		Convey("Synonyms map to canonical names and duplicates collapse", func() {
			So(out, ShouldResemble, []string{"Science-Fiction", "Drame", "Cyberpunk", "Comédie"})
		})

		Convey("Normalization is idempotent", func() {
			So(NormalizeGenres(out), ShouldResemble, out)
			for canonical := range genreSynonyms {
				So(NormalizeGenre(canonical), ShouldEqual, canonical)
			}
		})
	})
}

func TestDetectType(t *testing.T) {
	Convey("DetectType", t, func() {
		Convey("Explicit labels win", func() {
			So(DetectType(RawItem{Type: "TV Show"}), ShouldEqual, content.Series)
			So(DetectType(RawItem{Type: "Série"}), ShouldEqual, content.Series)
			So(DetectType(RawItem{Type: "documentaire"}), ShouldEqual, content.Documentary)
			So(DetectType(RawItem{Type: "anime"}), ShouldEqual, content.Anime)
			So(DetectType(RawItem{Type: "émission"}), ShouldEqual, content.Show)
		})

		Convey("Keywords in the text are used next", func() {
			So(DetectType(RawItem{Title: "Planète Terre", Tags: []string{"Documentaire"}}), ShouldEqual, content.Documentary)
			So(DetectType(RawItem{Title: "Lupin", Description: "Saison 2 disponible"}), ShouldEqual, content.Series)
		})

		Convey("Keywords match whole words only", func() {
			So(DetectType(RawItem{Title: "Showdown", Duration: "1h50"}), ShouldEqual, content.Movie)
		})

		Convey("Durations decide when nothing else does", func() {
			So(DetectType(RawItem{Title: "X", Duration: "45 min"}), ShouldEqual, content.Series)
			So(DetectType(RawItem{Title: "X", Duration: "2:05"}), ShouldEqual, content.Movie)
			So(DetectType(RawItem{Title: "X", Duration: "PT1H30M"}), ShouldEqual, content.Movie)
			So(DetectType(RawItem{Title: "X", Duration: "60"}), ShouldEqual, content.Movie)
		})

		Convey("Episode counts imply a series", func() {
			So(DetectType(RawItem{Title: "X", EpisodeCount: 10}), ShouldEqual, content.Series)
		})

		Convey("Items without signal are movies", func() {
			So(DetectType(RawItem{Title: "Parasite"}), ShouldEqual, content.Movie)
		})
	})
}

func TestParseDuration(t *testing.T) {
	Convey("ParseDuration", t, func() {
		cases := map[string]int{
			"45":                45,
			"45 min":            45,
			"45mn":              45,
			"1h30":              90,
			"1h 30min":          90,
			"2h":                120,
			"1 hour 30 minutes": 90,
			"1:30":              90,
			"1:30:15":           90,
			"PT1H30M":           90,
			"pt45m":             45,
		}
		for in, want := range cases {
			got, ok := ParseDuration(in)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}

		for _, bad := range []string{"", "soon", "PT", "1:75"} {
			_, ok := ParseDuration(bad)
			So(ok, ShouldBeFalse)
		}
	})
}

func TestDetectOrigin(t *testing.T) {
	Convey("DetectOrigin", t, func() {
		Convey("Explicit values are normalized", func() {
			So(DetectOrigin(RawItem{Origin: "Corée du Sud"}), ShouldEqual, content.Korea)
			So(DetectOrigin(RawItem{Origin: "États-Unis"}), ShouldEqual, content.USA)
		})

		Convey("Keywords in the text are used next", func() {
			So(DetectOrigin(RawItem{Title: "Devdas", Tags: []string{"Bollywood"}}), ShouldEqual, content.India)
		})

		Convey("Title shapes are the last evidence", func() {
			So(DetectOrigin(RawItem{Title: "Kuch Kuch Hota Hai"}), ShouldEqual, content.Origin(""))
			So(DetectOrigin(RawItem{Title: "Mohabbat Ki Kahani"}), ShouldEqual, content.India)
			So(DetectOrigin(RawItem{Title: "Kaguya-sama: Love is War"}), ShouldEqual, content.Japan)
			So(DetectOrigin(RawItem{Title: "Shingeki no Kyojin"}), ShouldEqual, content.Japan)
		})

		Convey("Without evidence the origin stays unknown", func() {
			So(DetectOrigin(RawItem{Title: "Parasite"}), ShouldBeEmpty)
		})
	})
}

func TestMainCategory(t *testing.T) {
	Convey("MainCategory follows its precedence", t, func() {
		So(MainCategory(content.Series, content.Korea, []string{"Drame"}), ShouldEqual, "series-korea")
		So(MainCategory(content.Movie, "", []string{"Science-Fiction"}), ShouldEqual, "movie-science-fiction")
		So(MainCategory(content.Movie, "", nil), ShouldEqual, "movie")
		So(MainCategory("", "", []string{"Comédie"}), ShouldEqual, "comédie")
		So(MainCategory("", "", nil), ShouldEqual, "uncategorized")
	})
}

func TestSuggest(t *testing.T) {
	Convey("Given candidate categories", t, func() {
		candidates := []string{"series-korea", "movie-korea", "series-japan", "documentary", "movie-comédie"}

		Convey("Exact token overlaps rank first", func() {
			So(Suggest("series korea", candidates, 3), ShouldResemble, []string{"series-korea", "movie-korea", "series-japan"})
		})

		Convey("Substring overlaps still count", func() {
			So(Suggest("docu", candidates, 0), ShouldResemble, []string{"documentary"})
		})

		Convey("Nothing in common gives nothing", func() {
			So(Suggest("western", candidates, 5), ShouldBeEmpty)
		})
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given a raw scraped item", t, func() {
		at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		c := New(func() time.Time { return at })
		raw := RawItem{
			Title:       "  Squid   Game ",
			Genres:      []string{"Thriller", "drama", "suspense"},
			Origin:      "South Korea",
			Description: "<p>Des joueurs &amp; <b>456</b>\n   participants</p><script>x()</script>",
			Duration:    "55 min",
			Year:        2021,
			Rating:      12,
			Actors:      []string{"Lee Jung-jae", " Lee Jung-jae", ""},
			URL:         "https://site.tld/series/squid-game",
			SourceName:  "site",
			Sources: []content.VideoSource{
				{URL: "https://cdn/a.m3u8"},
				{URL: "https://cdn/a.m3u8"},
			},
		}
		record := c.Categorize(raw)

		Convey("The record is canonical", func() {
			So(record.Title, ShouldEqual, "Squid Game")
			So(record.Type, ShouldEqual, content.Series)
			So(record.Origin, ShouldEqual, content.Korea)
			So(record.Genres, ShouldResemble, []string{"Thriller", "Drame"})
			So(record.Category, ShouldEqual, "series-korea")
			So(record.Rating, ShouldEqual, 10)
			So(record.DurationMinutes, ShouldEqual, 55)
			So(record.Actors, ShouldResemble, []string{"Lee Jung-jae"})
			So(record.Sources, ShouldHaveLength, 1)
			So(record.ScrapedAt, ShouldEqual, at)
		})

		Convey("Descriptions lose their markup", func() {
			So(record.Description, ShouldEqual, "Des joueurs & 456 participants")
		})

		Convey("The id is stable", func() {
			So(record.ID, ShouldEqual, content.NewID("site", "https://site.tld/series/squid-game"))
			So(c.Categorize(raw).ID, ShouldEqual, record.ID)
		})
	})
}
