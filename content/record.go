// Package content defines catalog records and the upstream provider port.
package content

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Type is the canonical kind of a catalog item.
type Type string

const (
	Movie       Type = "movie"
	Series      Type = "series"
	Anime       Type = "anime"
	Documentary Type = "documentary"
	Show        Type = "show"
)

// Types lists every canonical type.
func Types() []Type {
	return []Type{Movie, Series, Anime, Documentary, Show}
}

// ParseType accepts a canonical type name, case-insensitively.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	return t, lo.Contains(Types(), t)
}

// Origin is the country or region a title comes from. Empty means unknown.
type Origin string

const (
	France       Origin = "france"
	USA          Origin = "usa"
	UK           Origin = "uk"
	Japan        Origin = "japan"
	Korea        Origin = "korea"
	China        Origin = "china"
	India        Origin = "india"
	Spain        Origin = "spain"
	Turkey       Origin = "turkey"
	LatinAmerica Origin = "latam"
)

// Record is one catalog item.
type Record struct {
	// ID is stable across fetches and never rewritten once assigned.
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Type            Type              `json:"type"`
	Category        string            `json:"category"`
	Genres          []string          `json:"genres"`
	Origin          Origin            `json:"origin,omitempty"`
	Year            int               `json:"year,omitempty"`
	Rating          float64           `json:"rating,omitempty"`
	Actors          []string          `json:"actors,omitempty"`
	Directors       []string          `json:"directors,omitempty"`
	DurationMinutes int               `json:"durationMinutes,omitempty"`
	EpisodeCount    int               `json:"episodeCount,omitempty"`
	Popularity      float64           `json:"popularity,omitempty"`
	Description     string            `json:"description,omitempty"`
	Images          map[string]string `json:"images,omitempty"`
	Sources         []VideoSource     `json:"sources,omitempty"`
	ScrapedAt       time.Time         `json:"scrapedAt"`
	SourceName      string            `json:"sourceName"`
	URL             string            `json:"url,omitempty"`
}

func (r Record) String() string {
	return r.Title
}

// Clone returns a deep copy, so callers can never mutate a shared snapshot.
func (r Record) Clone() Record {
	c := r
	c.Genres = cloneSlice(r.Genres)
	c.Actors = cloneSlice(r.Actors)
	c.Directors = cloneSlice(r.Directors)
	c.Sources = cloneSlice(r.Sources)
	if r.Images != nil {
		c.Images = make(map[string]string, len(r.Images))
		for k, v := range r.Images {
			c.Images[k] = v
		}
	}
	return c
}

// HasGenre reports whether g is one of the genres, case-insensitively.
func (r Record) HasGenre(g string) bool {
	return lo.ContainsBy(r.Genres, func(x string) bool { return strings.EqualFold(x, g) })
}

// PrimaryGenre returns the first genre or "".
func (r Record) PrimaryGenre() string {
	if len(r.Genres) == 0 {
		return ""
	}
	return r.Genres[0]
}

// CloneAll deep-copies every record.
func CloneAll(records []Record) []Record {
	return lo.Map(records, func(r Record, _ int) Record { return r.Clone() })
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
