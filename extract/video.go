package extract

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/streamdex/streamdex/content"
)

// ErrNoSourceAvailable reports a page without any playable source. It is a
// warning: the rest of the record is still usable.
var ErrNoSourceAvailable = errors.New("no playable source found")

// VideoInfo is what a page says about the video it hosts.
type VideoInfo struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Thumbnail   string                `json:"thumbnail"`
	Sources     []content.VideoSource `json:"sources"`
}

// Err returns ErrNoSourceAvailable when no source was discovered.
func (v VideoInfo) Err() error {
	if len(v.Sources) == 0 {
		return ErrNoSourceAvailable
	}
	return nil
}

var (
	scriptURL       = regexp.MustCompile(`(?:https?:)?//[^\s"'<>\\()]+`)
	qualityAttrs    = []string{"label", "res", "size", "data-quality"}
	unplayableLinks = []string{"javascript:", "data:", "about:", "mailto:"}
)

// ExtractVideoInfo collects the title, description, thumbnail and playable
// sources of doc. Sources come from video elements, then frames and embeds,
// then URLs found in scripts. Relative URLs are resolved against baseURL and
// duplicates are dropped, keeping the first occurrence.
func ExtractVideoInfo(doc *Document, baseURL string) VideoInfo {
	meta := ExtractMetadata(doc)
	info := VideoInfo{
		Title:       meta.Title,
		Description: meta.Description,
	}

	base, _ := url.Parse(baseURL)
	if thumb := meta.OpenGraph["og:image"]; thumb != "" {
		info.Thumbnail = resolve(base, thumb)
	}

	c := collector{base: base, seen: make(map[string]struct{})}

	doc.Find("video").Each(func(_ int, video *goquery.Selection) {
		if src, ok := video.Attr("src"); ok {
			c.add(src, video.AttrOr("type", ""), quality(video))
		}
		video.Find("source").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok {
				c.add(src, s.AttrOr("type", ""), quality(s))
			}
		})
	})

	doc.Find("iframe[src], frame[src], embed[src]").Each(func(_ int, s *goquery.Selection) {
		c.add(s.AttrOr("src", ""), content.MimeEmbed, "")
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		for _, found := range scriptURL.FindAllString(s.Text(), -1) {
			if isScriptVideo(found) {
				c.add(found, "", "")
			}
		}
	})

	info.Sources = c.sources
	return info
}

// isScriptVideo accepts URLs whose path ends in .mp4, signed or not, and any
// URL mentioning an HLS playlist.
func isScriptVideo(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, ".m3u8") {
		return true
	}
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	return strings.HasSuffix(lower, ".mp4")
}

type collector struct {
	base    *url.URL
	seen    map[string]struct{}
	sources []content.VideoSource
}

func (c *collector) add(raw, mime, quality string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	lower := strings.ToLower(raw)
	for _, prefix := range unplayableLinks {
		if strings.HasPrefix(lower, prefix) {
			return
		}
	}

	resolved := resolve(c.base, raw)
	if resolved == "" {
		return
	}
	if _, dup := c.seen[resolved]; dup {
		return
	}
	c.seen[resolved] = struct{}{}

	if mime == "" {
		mime = InferMIME(resolved)
	}
	c.sources = append(c.sources, content.VideoSource{
		URL:      resolved,
		MimeType: mime,
		Quality:  quality,
	})
}

// resolve makes raw absolute against base. Scheme-relative URLs without a
// base default to https.
func resolve(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ref.Fragment = ""

	if base != nil && base.IsAbs() {
		return base.ResolveReference(ref).String()
	}
	if ref.Scheme == "" && ref.Host != "" {
		ref.Scheme = "https"
	}
	return ref.String()
}

func quality(s *goquery.Selection) string {
	for _, attr := range qualityAttrs {
		v := strings.TrimSpace(s.AttrOr(attr, ""))
		if v == "" {
			continue
		}
		if isDigits(v) {
			return v + "p"
		}
		return v
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
