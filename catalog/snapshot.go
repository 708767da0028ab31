package catalog

import (
	"strings"
	"time"

	"github.com/streamdex/streamdex/content"
)

// Origin tells where a snapshot came from.
type Origin string

const (
	FromUpstream Origin = "upstream"
	FromStore    Origin = "store"
	FromFallback Origin = "fallback"
)

// snapshot is an immutable record set with its indexes. It is replaced as a
// whole, never patched.
type snapshot struct {
	records    []content.Record
	byID       map[string]int
	byType     map[content.Type][]int
	byCategory map[string][]int
	fetchedAt  time.Time
	origin     Origin
	stale      bool
}

func newSnapshot(records []content.Record, fetchedAt time.Time, origin Origin) *snapshot {
	s := &snapshot{
		records:    make([]content.Record, 0, len(records)),
		byID:       make(map[string]int, len(records)),
		byType:     make(map[content.Type][]int),
		byCategory: make(map[string][]int),
		fetchedAt:  fetchedAt,
		origin:     origin,
	}

	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if _, dup := s.byID[r.ID]; dup {
			continue
		}
		i := len(s.records)
		s.records = append(s.records, r.Clone())
		s.byID[r.ID] = i
		s.byType[r.Type] = append(s.byType[r.Type], i)
		category := strings.ToLower(r.Category)
		s.byCategory[category] = append(s.byCategory[category], i)
	}

	return s
}

// markStale returns a copy flagged stale. Indexes are shared.
func (s *snapshot) markStale() *snapshot {
	c := *s
	c.stale = true
	return &c
}

func (s *snapshot) pick(indexes []int) []content.Record {
	out := make([]content.Record, len(indexes))
	for i, idx := range indexes {
		out[i] = s.records[idx].Clone()
	}
	return out
}
