package extract

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/content"
)

const page = `<!doctype html>
<html><head>
<title> Parasite </title>
<meta name="description" content="Une famille pauvre s'infiltre.">
<meta name="keywords" content="thriller, drame, ,corée">
<meta property="og:image" content="/img/poster.jpg">
<meta property="og:title" content="Parasite (2019)">
<meta property="og:title" content="ignored duplicate">
</head><body>
<video src="/media/main.mp4" data-quality="1080">
  <source src="/media/main.webm" type="video/webm" label="720p">
  <source src="/media/main.mp4">
</video>
<iframe src="//player.example.net/embed/42"></iframe>
<embed src="about:blank">
<script>
  var hls = "https://cdn.example.net/hls/master.m3u8?token=abc";
  var alt = '//cdn.example.net/files/trailer.mp4';
  var again = "https://site.tld/media/main.mp4";
  var signed = "https://cdn.example.net/files/signed.mp4?token=1#t=5";
  var other = "https://cdn.example.net/page.html";
</script>
</body></html>`

func TestExtractMetadata(t *testing.T) {
	Convey("Given a page with meta tags", t, func() {
		doc, err := ParseString(page)
		So(err, ShouldBeNil)
		meta := ExtractMetadata(doc)

		Convey("Title and description are read", func() {
			So(meta.Title, ShouldEqual, "Parasite")
			So(meta.Description, ShouldEqual, "Une famille pauvre s'infiltre.")
		})

		Convey("Keywords are split and trimmed", func() {
			So(meta.Keywords, ShouldResemble, []string{"thriller", "drame", "corée"})
		})

		Convey("og properties are collected, first wins", func() {
			So(meta.OpenGraph["og:title"], ShouldEqual, "Parasite (2019)")
			So(meta.OpenGraph["og:image"], ShouldEqual, "/img/poster.jpg")
		})
	})
}

func TestExtractVideoInfo(t *testing.T) {
	Convey("Given a page with videos, frames and scripts", t, func() {
		doc, err := ParseString(page)
		So(err, ShouldBeNil)
		info := ExtractVideoInfo(doc, "https://site.tld/films/parasite")

		Convey("Sources follow discovery precedence", func() {
			So(info.Sources, ShouldResemble, []content.VideoSource{
				{URL: "https://site.tld/media/main.mp4", MimeType: MimeMP4, Quality: "1080p"},
				{URL: "https://site.tld/media/main.webm", MimeType: MimeWebM, Quality: "720p"},
				{URL: "https://player.example.net/embed/42", MimeType: content.MimeEmbed},
				{URL: "https://cdn.example.net/hls/master.m3u8?token=abc", MimeType: MimeHLS},
				{URL: "https://cdn.example.net/files/trailer.mp4", MimeType: MimeMP4},
				{URL: "https://cdn.example.net/files/signed.mp4?token=1", MimeType: MimeMP4},
			})
			So(info.Err(), ShouldBeNil)
		})

		Convey("No two sources share a URL", func() {
			seen := map[string]bool{}
			for _, s := range info.Sources {
				So(seen[s.URL], ShouldBeFalse)
				seen[s.URL] = true
			}
		})

		Convey("The thumbnail is resolved", func() {
			So(info.Thumbnail, ShouldEqual, "https://site.tld/img/poster.jpg")
			So(info.Title, ShouldEqual, "Parasite")
		})
	})

	Convey("Given a page without sources", t, func() {
		doc, _ := ParseString(`<html><head><title>Empty</title></head></html>`)
		info := ExtractVideoInfo(doc, "https://site.tld/")
		So(info.Sources, ShouldBeEmpty)
		So(info.Err(), ShouldEqual, ErrNoSourceAvailable)
	})
}

func TestSelect(t *testing.T) {
	Convey("Given a document", t, func() {
		doc, _ := ParseString(`<ul><li class="a">one</li><li>two</li><li class="a">three</li></ul>`)

		Convey("Matches are rendered as outer HTML in order", func() {
			out, err := Select(doc, "li.a")
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []string{`<li class="a">one</li>`, `<li class="a">three</li>`})
		})

		Convey("Invalid selectors are rejected", func() {
			_, err := Select(doc, "li[")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestInferMIME(t *testing.T) {
	Convey("InferMIME follows the extension table", t, func() {
		cases := map[string]string{
			"https://a/b.mp4":          MimeMP4,
			"https://a/b.WEBM":         MimeWebM,
			"https://a/b.ogv":          MimeOgg,
			"https://a/b.ogg":          MimeOgg,
			"https://a/b.m3u8?x=1":     MimeHLS,
			"https://a/b.m3u8/seg1.ts": MimeHLS,
			"https://a/manifest.mpd":   MimeDASH,
			"https://a/stream":         MimeMP4,
		}
		for in, want := range cases {
			So(InferMIME(in), ShouldEqual, want)
		}
	})
}

func TestIsScriptVideo(t *testing.T) {
	Convey("Script URLs are judged on their path", t, func() {
		for raw, want := range map[string]bool{
			"https://cdn/x.mp4":              true,
			"https://cdn/x.MP4?token=1":      true,
			"//cdn/x.mp4#t=10":               true,
			"https://cdn/master.m3u8?sig=a":  true,
			"https://cdn/play?file=x.m3u8":   true,
			"https://cdn/x.mp4/page.html":    false,
			"https://cdn/watch?v=x.mp4.html": false,
			"https://cdn/page.html":          false,
		} {
			So(isScriptVideo(raw), ShouldEqual, want)
		}
	})
}
