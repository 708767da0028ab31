// Package categorize normalizes scraped items into canonical catalog records.
package categorize

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/util"
)

// RawItem is an item as a provider found it, before normalization.
type RawItem struct {
	ID           string                `json:"id,omitempty"`
	Title        string                `json:"title"`
	Type         string                `json:"type,omitempty"`
	Origin       string                `json:"origin,omitempty"`
	Genres       []string              `json:"genres,omitempty"`
	Tags         []string              `json:"tags,omitempty"`
	Description  string                `json:"description,omitempty"`
	Duration     string                `json:"duration,omitempty"`
	Year         int                   `json:"year,omitempty"`
	Rating       float64               `json:"rating,omitempty"`
	Actors       []string              `json:"actors,omitempty"`
	Directors    []string              `json:"directors,omitempty"`
	EpisodeCount int                   `json:"episodeCount,omitempty"`
	Popularity   float64               `json:"popularity,omitempty"`
	Images       map[string]string     `json:"images,omitempty"`
	Sources      []content.VideoSource `json:"sources,omitempty"`
	URL          string                `json:"url,omitempty"`
	SourceName   string                `json:"sourceName,omitempty"`
	ScrapedAt    time.Time             `json:"scrapedAt,omitempty"`
}

// text is the searchable body used for keyword detection.
func (r RawItem) text() string {
	return strings.Join(append([]string{r.Title, r.Description}, r.Tags...), " ")
}

// Categorizer turns raw items into records.
type Categorizer struct {
	now       func() time.Time
	sanitizer *bluemonday.Policy
}

// New returns a Categorizer. A nil clock defaults to time.Now.
func New(now func() time.Time) *Categorizer {
	if now == nil {
		now = time.Now
	}
	return &Categorizer{now: now, sanitizer: bluemonday.StrictPolicy()}
}

// Categorize builds the canonical record of raw.
func (c *Categorizer) Categorize(raw RawItem) content.Record {
	record := content.Record{
		ID:           raw.ID,
		Title:        util.CollapseSpace(raw.Title),
		Type:         DetectType(raw),
		Origin:       DetectOrigin(raw),
		Genres:       NormalizeGenres(raw.Genres),
		Year:         validYear(raw.Year),
		Rating:       util.Clamp(raw.Rating, 0, 10),
		Actors:       names(raw.Actors),
		Directors:    names(raw.Directors),
		EpisodeCount: max(raw.EpisodeCount, 0),
		Popularity:   max(raw.Popularity, 0),
		Description:  c.SanitizeDescription(raw.Description),
		Images:       raw.Images,
		Sources:      content.UniqueSources(raw.Sources),
		ScrapedAt:    raw.ScrapedAt,
		SourceName:   raw.SourceName,
		URL:          raw.URL,
	}

	if minutes, ok := ParseDuration(raw.Duration); ok {
		record.DurationMinutes = minutes
	}
	if record.ScrapedAt.IsZero() {
		record.ScrapedAt = c.now()
	}
	if record.ID == "" {
		record.ID = content.NewID(raw.SourceName, lo.Ternary(raw.URL != "", raw.URL, record.Title))
	}
	record.Category = MainCategory(record.Type, record.Origin, record.Genres)

	return record
}

// SanitizeDescription strips markup and entities and folds whitespace.
func (c *Categorizer) SanitizeDescription(s string) string {
	return util.CollapseSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
}

// MainCategory derives the composite label: type-origin, else type-genre,
// else type, else genre, else "uncategorized".
func MainCategory(t content.Type, origin content.Origin, genres []string) string {
	var primary string
	if len(genres) > 0 {
		primary = slug(genres[0])
	}

	switch {
	case t != "" && origin != "":
		return string(t) + "-" + string(origin)
	case t != "" && primary != "":
		return string(t) + "-" + primary
	case t != "":
		return string(t)
	case primary != "":
		return primary
	default:
		return "uncategorized"
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(util.CollapseSpace(s)), " ", "-")
}

func validYear(year int) int {
	if year < 1870 || year > 2200 {
		return 0
	}
	return year
}

func names(in []string) []string {
	out := lo.Uniq(lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = util.CollapseSpace(s)
		return s, s != ""
	}))
	if len(out) == 0 {
		return nil
	}
	return out
}
