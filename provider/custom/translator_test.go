package custom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/extract"
	lua "github.com/yuin/gopher-lua"
)

func TestItemFromTable(t *testing.T) {
	Convey("itemFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract an item from a valid Lua table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("title", lua.LString("Parasite"))
			tbl.RawSetString("url", lua.LString("https://example.com/parasite"))
			tbl.RawSetString("poster", lua.LString("https://example.com/poster.jpg"))
			tbl.RawSetString("year", lua.LString("2019"))
			tbl.RawSetString("rating", lua.LNumber(8.5))
			tbl.RawSetString("duration", lua.LNumber(132))

			item, err := itemFromTable(tbl)
			So(err, ShouldBeNil)
			So(item.Title, ShouldEqual, "Parasite")
			So(item.URL, ShouldEqual, "https://example.com/parasite")
			So(item.Images["poster"], ShouldEqual, "https://example.com/poster.jpg")
			So(item.Year, ShouldEqual, 2019)
			So(item.Rating, ShouldEqual, 8.5)
			So(item.Duration, ShouldEqual, "132 min")
		})

		Convey("Should fail when the title is missing", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com"))

			_, err := itemFromTable(tbl)
			So(err, ShouldNotBeNil)
		})

		Convey("Should accept lists as strings or tables", func() {
			tbl := L.NewTable()
			tbl.RawSetString("title", lua.LString("Naruto"))
			tbl.RawSetString("genres", lua.LString("Action, Aventure, , Fantastique"))

			actors := L.NewTable()
			actors.Append(lua.LString("Junko Takeuchi"))
			actors.Append(lua.LNumber(3))
			tbl.RawSetString("actors", actors)

			item, err := itemFromTable(tbl)
			So(err, ShouldBeNil)
			So(item.Genres, ShouldResemble, []string{"Action", "Aventure", "Fantastique"})
			So(item.Actors, ShouldResemble, []string{"Junko Takeuchi"})
		})

		Convey("Should read sources and infer their type", func() {
			tbl := L.NewTable()
			tbl.RawSetString("title", lua.LString("Live"))

			hls := L.NewTable()
			hls.RawSetString("url", lua.LString("https://cdn.example.com/live/index.m3u8"))
			hls.RawSetString("quality", lua.LString("1080p"))
			broken := L.NewTable()
			broken.RawSetString("quality", lua.LString("720p"))

			sources := L.NewTable()
			sources.Append(hls)
			sources.Append(broken)
			tbl.RawSetString("sources", sources)

			item, err := itemFromTable(tbl)
			So(err, ShouldBeNil)
			So(item.Sources, ShouldHaveLength, 1)
			So(item.Sources[0].MimeType, ShouldEqual, extract.MimeHLS)
			So(item.Sources[0].Quality, ShouldEqual, "1080p")
		})
	})
}
