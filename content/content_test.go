package content

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewID(t *testing.T) {
	Convey("Given a provider and a page", t, func() {
		a := NewID("site", "https://site.tld/films/parasite")

		Convey("The id is stable across calls", func() {
			So(NewID("site", "https://site.tld/films/parasite"), ShouldEqual, a)
			So(NewID(" SITE ", "https://site.tld/films/parasite"), ShouldEqual, a)
		})

		Convey("Different keys give different ids", func() {
			So(NewID("site", "https://site.tld/films/other"), ShouldNotEqual, a)
			So(NewID("other", "https://site.tld/films/parasite"), ShouldNotEqual, a)
		})
	})
}

func TestClone(t *testing.T) {
	Convey("Given a record", t, func() {
		r := Record{
			ID:      "1",
			Genres:  []string{"Drame"},
			Images:  map[string]string{"poster": "p.jpg"},
			Sources: []VideoSource{{URL: "a.mp4"}},
		}

		Convey("Mutating a clone leaves the original intact", func() {
			c := r.Clone()
			c.Genres[0] = "Comédie"
			c.Images["poster"] = "q.jpg"
			c.Sources[0].URL = "b.mp4"
			So(r.Genres[0], ShouldEqual, "Drame")
			So(r.Images["poster"], ShouldEqual, "p.jpg")
			So(r.Sources[0].URL, ShouldEqual, "a.mp4")
		})

		Convey("Genre checks ignore case", func() {
			So(r.HasGenre("drame"), ShouldBeTrue)
			So(r.PrimaryGenre(), ShouldEqual, "Drame")
		})
	})
}

func TestUniqueSources(t *testing.T) {
	Convey("UniqueSources keeps the first occurrence", t, func() {
		out := UniqueSources([]VideoSource{
			{URL: "a", Quality: "720p"},
			{URL: "b"},
			{URL: "a", Quality: "1080p"},
		})
		So(out, ShouldHaveLength, 2)
		So(out[0].Quality, ShouldEqual, "720p")
	})
}

func TestParseType(t *testing.T) {
	Convey("ParseType", t, func() {
		typ, ok := ParseType(" Anime ")
		So(ok, ShouldBeTrue)
		So(typ, ShouldEqual, Anime)
		_, ok = ParseType("cartoon")
		So(ok, ShouldBeFalse)
	})
}

func TestNoProvider(t *testing.T) {
	Convey("NoProvider always fails", t, func() {
		_, err := NoProvider{}.Records(context.Background())
		So(err, ShouldEqual, ErrNoProvider)
	})
}
