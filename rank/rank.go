// Package rank scores catalog records for a user profile or a free-text
// description.
package rank

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/util"
)

// DefaultWatchedThreshold is the completion percentage from which a record
// counts as watched.
const DefaultWatchedThreshold = 80

// Score is computed per call and never persisted.
type Score struct {
	ContentID  string             `json:"contentId"`
	Components map[Factor]float64 `json:"components"`
	Final      float64            `json:"final"`
}

// Scored pairs a record with its score.
type Scored struct {
	Record content.Record `json:"record"`
	Score  Score          `json:"score"`
}

// Engine ranks records. It holds no state between calls.
type Engine struct {
	now       func() time.Time
	threshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock recency is measured against.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithWatchedThreshold sets the completion percentage from which a record is
// hidden from recommendations.
func WithWatchedThreshold(percentage float64) Option {
	return func(e *Engine) {
		if percentage > 0 {
			e.threshold = percentage
		}
	}
}

// New returns an Engine using the system clock and DefaultWatchedThreshold
// unless opts say otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now, threshold: DefaultWatchedThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScoreForUser ranks candidates for profile, best first. Watched records are
// dropped unless they have episodes past the last one watched. A profile
// without signal is ranked by popularity alone.
func (e *Engine) ScoreForUser(candidates []content.Record, profile Profile, weights Weights) ([]Scored, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	pool := lo.Filter(candidates, func(r content.Record, _ int) bool {
		return !e.Watched(r, profile)
	})
	popularity := popularityNormalizer(pool)
	cold := !profile.HasSignal()
	currentYear := e.now().Year()

	out := make([]Scored, 0, len(pool))
	for _, r := range pool {
		var s Score
		if cold {
			p := popularity(r)
			s = Score{
				ContentID:  r.ID,
				Components: map[Factor]float64{FactorPopularity: p},
				Final:      p,
			}
		} else {
			components := map[Factor]float64{
				FactorGenre:      meanAffinity(profile.Genres, r.Genres),
				FactorActor:      meanAffinity(profile.Actors, r.Actors),
				FactorDirector:   maxAffinity(profile.Directors, r.Directors),
				FactorRecency:    Recency(r.Year, currentYear),
				FactorPopularity: popularity(r),
			}
			byFactor := weights.byFactor()
			var final float64
			for _, f := range personalFactors {
				final += byFactor[f] * components[f]
			}
			s = Score{ContentID: r.ID, Components: components, Final: final}
		}
		out = append(out, Scored{Record: r, Score: s})
	}

	sortScored(out)
	return out, nil
}

// Watched reports whether r is completed for profile and has no newer episode.
func (e *Engine) Watched(r content.Record, profile Profile) bool {
	state, ok := profile.Watched[r.ID]
	if !ok || state.Percentage < e.threshold {
		return false
	}
	return r.EpisodeCount <= state.LastEpisode
}

// Recency is 1 for releases less than a year old, decays linearly to 0.2 at
// three years and stays there. Unknown years score 0.2.
func Recency(year, currentYear int) float64 {
	if year <= 0 {
		return 0.2
	}
	age := currentYear - year
	switch {
	case age < 1:
		return 1
	case age <= 3:
		return 1 - 0.8*float64(age-1)/2
	default:
		return 0.2
	}
}

// popularityNormalizer divides by the pool maximum, or uses rating/10 when no
// record carries a popularity.
func popularityNormalizer(pool []content.Record) func(content.Record) float64 {
	top := util.Max(lo.Map(pool, func(r content.Record, _ int) float64 { return r.Popularity })...)
	if top <= 0 {
		return func(r content.Record) float64 {
			return util.Clamp(r.Rating/10, 0, 1)
		}
	}
	return func(r content.Record) float64 {
		return util.Clamp(r.Popularity/top, 0, 1)
	}
}

func sortScored(items []Scored) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score.Final != items[j].Score.Final {
			return items[i].Score.Final > items[j].Score.Final
		}
		return items[i].Record.ID < items[j].Record.ID
	})
}
