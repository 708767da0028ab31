package rank

import (
	"strings"

	"github.com/streamdex/streamdex/content"
)

// WatchState is how far a user got into a record.
type WatchState struct {
	ContentID   string  `json:"contentId"`
	Percentage  float64 `json:"percentage"`
	LastEpisode int     `json:"lastEpisode"`
}

// Profile holds the preference signal of one user. Frequency tables are keyed
// by lowercase value.
type Profile struct {
	Genres    map[string]int
	Actors    map[string]int
	Directors map[string]int
	Watched   map[string]WatchState
}

// NewProfile returns an empty profile.
func NewProfile() Profile {
	return Profile{
		Genres:    make(map[string]int),
		Actors:    make(map[string]int),
		Directors: make(map[string]int),
		Watched:   make(map[string]WatchState),
	}
}

// Observe counts the genres and people of a record the user engaged with.
func (p *Profile) Observe(r content.Record) {
	count(&p.Genres, r.Genres)
	count(&p.Actors, r.Actors)
	count(&p.Directors, r.Directors)
}

// Watch records a watch state, keeping the furthest progress.
func (p *Profile) Watch(state WatchState) {
	if p.Watched == nil {
		p.Watched = make(map[string]WatchState)
	}
	if prev, ok := p.Watched[state.ContentID]; ok {
		if prev.Percentage > state.Percentage {
			state.Percentage = prev.Percentage
		}
		if prev.LastEpisode > state.LastEpisode {
			state.LastEpisode = prev.LastEpisode
		}
	}
	p.Watched[state.ContentID] = state
}

// HasSignal is false for a user without preference or watch history.
func (p Profile) HasSignal() bool {
	return len(p.Genres) > 0 || len(p.Actors) > 0 || len(p.Directors) > 0 || len(p.Watched) > 0
}

func count(table *map[string]int, values []string) {
	if *table == nil {
		*table = make(map[string]int)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		k := strings.ToLower(strings.TrimSpace(v))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		(*table)[k]++
	}
}

func maxFrequency(table map[string]int) int {
	var m int
	for _, n := range table {
		if n > m {
			m = n
		}
	}
	return m
}

// meanAffinity averages freq/maxFreq over values.
func meanAffinity(table map[string]int, values []string) float64 {
	top := maxFrequency(table)
	if top == 0 || len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(table[strings.ToLower(strings.TrimSpace(v))]) / float64(top)
	}
	return sum / float64(len(values))
}

// maxAffinity is the best freq/maxFreq over values.
func maxAffinity(table map[string]int, values []string) float64 {
	top := maxFrequency(table)
	if top == 0 {
		return 0
	}
	var best float64
	for _, v := range values {
		if a := float64(table[strings.ToLower(strings.TrimSpace(v))]) / float64(top); a > best {
			best = a
		}
	}
	return best
}
