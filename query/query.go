// Package query remembers search queries and suggests them back.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/key"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

// Queries is a ranked registry of past searches.
type Queries struct {
	mu          sync.Mutex
	cacher      *gache.Cache[map[string]*record]
	suggestions map[string][]*record
}

// New opens the registry stored at path.
func New(path string) *Queries {
	return &Queries{
		cacher: gache.New[map[string]*record](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		suggestions: make(map[string][]*record),
	}
}

// Remember records q or raises its rank by weight.
func (q *Queries) Remember(query string, weight int) error {
	query = sanitize(query)
	if query == "" {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	cached, expired, err := q.cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[query]; ok {
		r.Rank += weight
	} else {
		cached[query] = &record{Rank: weight, Query: query}
	}

	clear(q.suggestions)
	return q.cacher.Set(cached)
}

// Suggest returns the best suggestion for a partial input.
func (q *Queries) Suggest(query string) mo.Option[string] {
	suggestions := q.SuggestMany(query)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the remembered queries fuzzy-matching the input,
// highest rank first.
func (q *Queries) SuggestMany(query string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	query = sanitize(query)

	q.mu.Lock()
	defer q.mu.Unlock()

	records, ok := q.suggestions[query]
	if !ok {
		cached, expired, err := q.cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, r := range cached {
			if fuzzy.Match(query, r.Query) {
				records = append(records, r)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		q.suggestions[query] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
