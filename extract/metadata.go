package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// Metadata is the page-level information a scrape can report.
type Metadata struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Keywords    []string          `json:"keywords,omitempty"`
	OpenGraph   map[string]string `json:"openGraph,omitempty"`
}

// ExtractMetadata reads the title, description, keywords and every og:* property.
// The first occurrence of a repeated og:* property wins.
func ExtractMetadata(doc *Document) Metadata {
	meta := Metadata{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaContent(doc, "name", "description"),
		OpenGraph:   make(map[string]string),
	}

	if kw := metaContent(doc, "name", "keywords"); kw != "" {
		meta.Keywords = lo.FilterMap(strings.Split(kw, ","), func(k string, _ int) (string, bool) {
			k = strings.TrimSpace(k)
			return k, k != ""
		})
	}

	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop := strings.ToLower(strings.TrimSpace(s.AttrOr("property", "")))
		if !strings.HasPrefix(prop, "og:") {
			return
		}
		if _, seen := meta.OpenGraph[prop]; seen {
			return
		}
		meta.OpenGraph[prop] = strings.TrimSpace(s.AttrOr("content", ""))
	})

	return meta
}

func metaContent(doc *Document, attr, name string) string {
	var value string
	doc.Find("meta[" + attr + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr(attr, "")), name) {
			return true
		}
		value = strings.TrimSpace(s.AttrOr("content", ""))
		return false
	})
	return value
}
