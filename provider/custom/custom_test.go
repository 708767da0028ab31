package custom

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/filesystem"
)

type fakeScraper struct {
	calls atomic.Int32
	pages map[string]string
}

func (f *fakeScraper) Scrape(_ context.Context, url string, opts fetch.Options) (*fetch.Result, error) {
	f.calls.Add(1)
	page, ok := f.pages[url]
	if !ok {
		return nil, &fetch.FetchError{URL: url, Attempts: 3, Err: errors.New("unreachable")}
	}

	result := &fetch.Result{URL: url, Status: 200, Content: page, Attempts: 1}
	if opts.Selector != "" {
		doc, err := extract.ParseString(page)
		if err != nil {
			return nil, err
		}
		result.Elements, err = extract.Select(doc, opts.Selector)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

const catalogScript = `
function Catalog()
	local items = {}
	for i, el in ipairs(scrape.select("https://example.com/list", "li")) do
		items[i] = { title = el:gsub("<[^>]+>", ""), genres = "sci-fi, drame", type = "film", year = 2020 }
	end

	local video = scrape.video("https://example.com/watch")
	table.insert(items, { title = video.title, sources = video.sources, episodes = 12 })
	table.insert(items, { url = "https://example.com/untitled" })
	return items
end
`

func writeScript(path, script string) {
	So(filesystem.API().WriteFile(path, []byte(script), 0o644), ShouldBeNil)
	forget(path)
}

func TestLoad(t *testing.T) {
	Convey("Given a Lua provider script", t, func() {
		filesystem.SetMemMapFs()
		scraper := &fakeScraper{pages: map[string]string{
			"https://example.com/list":  `<ul><li>Dune</li><li>Arrival</li></ul>`,
			"https://example.com/watch": `<html><head><title>Série Live</title></head><body><video src="/v/ep1.mp4"></video></body></html>`,
		}}

		Convey("When it defines the catalog function", func() {
			writeScript("/providers/demo.lua", catalogScript)
			provider, err := Load("/providers/demo.lua", scraper, categorize.New(nil))
			So(err, ShouldBeNil)
			defer provider.Close()

			So(provider.Name(), ShouldEqual, "demo")
			So(provider.ID(), ShouldEqual, "demo custom")

			Convey("Then its items become categorized records", func() {
				records, err := provider.Records(context.Background())
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)

				So(records[0].Title, ShouldEqual, "Dune")
				So(records[0].Type, ShouldEqual, content.Movie)
				So(records[0].Genres, ShouldResemble, []string{"Science-Fiction", "Drame"})
				So(records[0].SourceName, ShouldEqual, "demo")
				So(records[0].ID, ShouldNotBeEmpty)

				So(records[2].Title, ShouldEqual, "Série Live")
				So(records[2].Sources, ShouldHaveLength, 1)
				So(records[2].Sources[0].URL, ShouldEqual, "https://example.com/v/ep1.mp4")
				So(records[2].Type, ShouldEqual, content.Series)
			})
		})

		Convey("When the catalog function is missing", func() {
			writeScript("/providers/empty.lua", `function Search() return {} end`)
			_, err := Load("/providers/empty.lua", scraper, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("When the script does not compile", func() {
			writeScript("/providers/broken.lua", `function Catalog(`)
			_, err := Load("/providers/broken.lua", scraper, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("When a scrape fails inside the script", func() {
			writeScript("/providers/failing.lua", `function Catalog() return { { title = scrape.get("https://down.example.com").content } } end`)
			provider, err := Load("/providers/failing.lua", scraper, nil)
			So(err, ShouldBeNil)
			defer provider.Close()

			_, err = provider.Records(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unreachable")
		})
	})
}
