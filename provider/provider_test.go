package provider

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/filesystem"
)

type fakeScraper struct {
	mu       sync.Mutex
	pages    map[string]string
	inFlight atomic.Int32
	peak     atomic.Int32
	parses   atomic.Int32
	delay    time.Duration
}

func (f *fakeScraper) Scrape(_ context.Context, url string, opts fetch.Options) (*fetch.Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	page, ok := f.pages[url]
	f.mu.Unlock()
	if !ok {
		return nil, &fetch.FetchError{URL: url, Attempts: 3, Err: &fetch.HTTPStatusError{URL: url, StatusCode: 503}}
	}

	result := &fetch.Result{URL: url, Status: 200, Content: page, Attempts: 1}
	if opts.IncludeMetadata || opts.ParseContent || opts.Selector != "" {
		f.parses.Add(1)
	}
	if opts.IncludeMetadata {
		doc, err := extract.ParseString(page)
		if err != nil {
			return nil, err
		}
		meta := extract.ExtractMetadata(doc)
		result.Metadata = &meta
	}
	return result, nil
}

func (f *fakeScraper) set(url, page string) {
	f.mu.Lock()
	f.pages[url] = page
	f.mu.Unlock()
}

func TestRegistry(t *testing.T) {
	Convey("Given a providers directory", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/providers", 0o755), ShouldBeNil)
		So(fs.WriteFile("/providers/zulu.lua", []byte("function Catalog() return {} end"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/providers/alpha.lua", []byte("function Catalog() return {} end"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/providers/notes.txt", []byte("ignored"), 0o644), ShouldBeNil)

		Convey("Customs lists the Lua scripts by name", func() {
			customs, err := Customs("/providers")
			So(err, ShouldBeNil)
			So(customs, ShouldHaveLength, 2)
			So(customs[0].Name, ShouldEqual, "alpha")
			So(customs[0].ID, ShouldEqual, "alpha custom")
			So(customs[1].Path, ShouldEqual, "/providers/zulu.lua")
		})

		Convey("Get finds builtins and customs", func() {
			d, ok := Get("/providers", "demo")
			So(ok, ShouldBeTrue)
			So(d.IsCustom, ShouldBeFalse)

			d, ok = Get("/providers", "zulu")
			So(ok, ShouldBeTrue)
			So(d.IsCustom, ShouldBeTrue)

			_, ok = Get("/providers", "kek")
			So(ok, ShouldBeFalse)
		})

		Convey("Resolve suggests the closest name", func() {
			_, err := Resolve("/providers", []string{"dem"}, Deps{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `did you mean "demo"`)
		})

		Convey("Resolve merges several providers", func() {
			p, err := Resolve("/providers", []string{"demo", "alpha"}, Deps{})
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "demo+alpha")
		})

		Convey("Resolve without names or pages has no provider", func() {
			p, err := Resolve("/providers", nil, Deps{})
			So(err, ShouldBeNil)
			_, err = p.Records(context.Background())
			So(errors.Is(err, content.ErrNoProvider), ShouldBeTrue)
		})

		Convey("A scaffolded script loads and runs", func() {
			var buf bytes.Buffer
			So(Scaffold(&buf, "Cinéma", "https://example.com", "tester"), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "function Catalog()")
			So(buf.String(), ShouldContainSubstring, "-- @url     https://example.com")

			So(fs.WriteFile("/providers/cinema.lua", buf.Bytes(), 0o644), ShouldBeNil)
			d, ok := Get("/providers", "cinema")
			So(ok, ShouldBeTrue)
			p, err := Open(d, Deps{Scraper: &fakeScraper{pages: map[string]string{}}})
			So(err, ShouldBeNil)
			records, err := p.Records(context.Background())
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}

func TestWeb(t *testing.T) {
	page := func(title, video string) string {
		return `<html><head><title>` + title + `</title>
<meta property="og:type" content="video.tv_show">
<meta property="og:video:release_date" content="2021-09-17">
<meta property="og:image" content="https://img.example.com/poster.jpg">
<meta name="keywords" content="thriller, corée">
</head><body><video src="` + video + `"></video></body></html>`
	}

	Convey("Given configured pages", t, func() {
		scraper := &fakeScraper{pages: map[string]string{
			"https://a.example.com/show": page("Squid Game", "/v/1.m3u8"),
			"https://b.example.com/show": page("Kingdom", "//cdn.example.com/k.mp4"),
		}}

		Convey("Each page becomes a categorized record", func() {
			web := NewWeb(WebConfig{Scraper: scraper, Pages: []string{
				"https://a.example.com/show",
				"https://b.example.com/show",
				"https://a.example.com/show",
			}})
			records, err := web.Records(context.Background())
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)

			r := records[0]
			So(r.Title, ShouldEqual, "Squid Game")
			So(r.Type, ShouldEqual, content.Series)
			So(r.Origin, ShouldEqual, content.Korea)
			So(r.Year, ShouldEqual, 2021)
			So(r.Images["poster"], ShouldEqual, "https://img.example.com/poster.jpg")
			So(r.Sources[0].URL, ShouldEqual, "https://a.example.com/v/1.m3u8")
			So(r.Sources[0].MimeType, ShouldEqual, extract.MimeHLS)
			So(r.SourceName, ShouldEqual, WebID)
			So(records[1].Sources[0].URL, ShouldEqual, "https://cdn.example.com/k.mp4")
		})

		Convey("Pages are fetched raw and parsed only by the provider", func() {
			web := NewWeb(WebConfig{Scraper: scraper, Pages: []string{"https://a.example.com/show"}})
			records, err := web.Records(context.Background())
			So(err, ShouldBeNil)
			So(scraper.parses.Load(), ShouldEqual, 0)
			So(records[0].Year, ShouldEqual, 2021)
			So(records[0].Origin, ShouldEqual, content.Korea)
		})

		Convey("A failing page does not stop the others", func() {
			web := NewWeb(WebConfig{Scraper: scraper, Pages: []string{
				"https://down.example.com",
				"https://b.example.com/show",
			}})
			records, err := web.Records(context.Background())
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Title, ShouldEqual, "Kingdom")
		})

		Convey("An error is returned when every page fails", func() {
			web := NewWeb(WebConfig{Scraper: scraper, Pages: []string{"https://down.example.com"}})
			_, err := web.Records(context.Background())
			So(err, ShouldNotBeNil)

			var status *fetch.HTTPStatusError
			So(errors.As(err, &status), ShouldBeTrue)
		})

		Convey("Pages run one at a time by default", func() {
			scraper.delay = 5 * time.Millisecond
			pages := make([]string, 0, 6)
			for _, host := range []string{"c", "d", "e", "f", "g", "h"} {
				url := "https://" + host + ".example.com"
				scraper.set(url, page(host, "/v.mp4"))
				pages = append(pages, url)
			}

			_, err := NewWeb(WebConfig{Scraper: scraper, Pages: pages}).Records(context.Background())
			So(err, ShouldBeNil)
			So(scraper.peak.Load(), ShouldEqual, 1)

			Convey("And up to the configured concurrency otherwise", func() {
				scraper.peak.Store(0)
				_, err := NewWeb(WebConfig{Scraper: scraper, Pages: pages, Concurrency: 3}).Records(context.Background())
				So(err, ShouldBeNil)
				So(scraper.peak.Load(), ShouldBeBetweenOrEqual, 1, 3)
			})
		})
	})
}

func TestMulti(t *testing.T) {
	Convey("Given several providers", t, func() {
		first := content.ProviderFunc{ID: "first", Fn: func(context.Context) ([]content.Record, error) {
			return []content.Record{{ID: "1", Title: "from first"}, {ID: "2"}}, nil
		}}
		broken := content.ProviderFunc{ID: "broken", Fn: func(context.Context) ([]content.Record, error) {
			return nil, errors.New("boom")
		}}
		second := content.ProviderFunc{ID: "second", Fn: func(context.Context) ([]content.Record, error) {
			return []content.Record{{ID: "1", Title: "from second"}, {ID: "3"}}, nil
		}}

		Convey("Records are merged by id, first wins", func() {
			records, err := NewMulti(first, broken, second).Records(context.Background())
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 3)
			So(records[0].Title, ShouldEqual, "from first")
			So(records[2].ID, ShouldEqual, "3")
		})

		Convey("Every provider failing is an error", func() {
			_, err := NewMulti(broken, broken).Records(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "broken: boom")
		})

		Convey("A cancelled context stops the run", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := NewMulti(first).Records(ctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestDemo(t *testing.T) {
	Convey("The demo catalog is categorized", t, func() {
		records, err := NewDemo(nil).Records(context.Background())
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 12)

		byID := make(map[string]content.Record)
		for _, r := range records {
			So(r.SourceName, ShouldEqual, DemoID)
			byID[r.ID] = r
		}

		So(byID["demo-squid-game"].Category, ShouldEqual, "series-korea")
		So(byID["demo-parasite"].Category, ShouldEqual, "movie-korea")
		So(byID["demo-parasite"].DurationMinutes, ShouldEqual, 132)
		So(byID["demo-attack-on-titan"].Type, ShouldEqual, content.Anime)
		So(byID["demo-koh-lanta"].Type, ShouldEqual, content.Show)
		So(byID["demo-dune"].Genres, ShouldContain, "Science-Fiction")
	})
}

func TestInstall(t *testing.T) {
	Convey("Given a remote script", t, func() {
		filesystem.SetMemMapFs()
		script := "function Catalog() return {} end"
		scraper := &fakeScraper{pages: map[string]string{"https://example.com/raw/films.lua": script}}

		Convey("It is installed once", func() {
			target, updated, err := Install(context.Background(), scraper, "https://example.com/raw/films.lua", "/providers")
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)
			So(target, ShouldEqual, "/providers/films.lua")

			data, err := filesystem.API().ReadFile(target)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, script)

			_, updated, err = Install(context.Background(), scraper, "https://example.com/raw/films.lua", "/providers")
			So(err, ShouldBeNil)
			So(updated, ShouldBeFalse)

			Convey("And updated when it changes", func() {
				scraper.set("https://example.com/raw/films.lua", script+"\n")
				_, updated, err := Install(context.Background(), scraper, "https://example.com/raw/films.lua", "/providers")
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
			})
		})

		Convey("Non Lua URLs are refused", func() {
			_, _, err := Install(context.Background(), scraper, "https://example.com/raw/films.txt", "/providers")
			So(err, ShouldNotBeNil)
		})
	})
}
