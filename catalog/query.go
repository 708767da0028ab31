package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/content"
)

// Filters narrow Search. Zero fields match everything; set fields must all match.
type Filters struct {
	Type     content.Type
	Category string
	Year     int
}

func (f Filters) match(r content.Record) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
		return false
	}
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	return true
}

// TrendingScore is year*10 + rating.
func TrendingScore(r content.Record) float64 {
	return float64(r.Year)*10 + r.Rating
}

// GetTrending returns at most limit records by decreasing TrendingScore,
// ties broken by id.
func (m *Manager) GetTrending(ctx context.Context, limit int) ([]content.Record, error) {
	records, err := m.GetAll(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := TrendingScore(records[i]), TrendingScore(records[j])
		if a != b {
			return a > b
		}
		return records[i].ID < records[j].ID
	})
	return take(records, limit), nil
}

// GetNewReleases returns at most limit records, newest year first, then most
// recently scraped, then by id.
func (m *Manager) GetNewReleases(ctx context.Context, limit int) ([]content.Record, error) {
	records, err := m.GetAll(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if !a.ScrapedAt.Equal(b.ScrapedAt) {
			return a.ScrapedAt.After(b.ScrapedAt)
		}
		return a.ID < b.ID
	})
	return take(records, limit), nil
}

// SimilarityScore sums the shared traits of a and b: same type +2, same
// category +3, +2 per shared genre, +2 per shared actor, a shared director
// +3 and release years at most three apart +1.
func SimilarityScore(a, b content.Record) int {
	var score int
	if a.Type != "" && a.Type == b.Type {
		score += 2
	}
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		score += 3
	}
	score += 2 * sharedCount(a.Genres, b.Genres)
	score += 2 * sharedCount(a.Actors, b.Actors)
	if sharedCount(a.Directors, b.Directors) > 0 {
		score += 3
	}
	if a.Year != 0 && b.Year != 0 && abs(a.Year-b.Year) <= 3 {
		score++
	}
	return score
}

// GetSimilar returns at most limit records resembling reference, best first.
// The reference itself and records sharing nothing are never included.
func (m *Manager) GetSimilar(ctx context.Context, reference content.Record, limit int) ([]content.Record, error) {
	records, err := m.GetAll(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}

	type scored struct {
		record content.Record
		score  int
	}
	candidates := lo.FilterMap(records, func(r content.Record, _ int) (scored, bool) {
		if r.ID == reference.ID {
			return scored{}, false
		}
		s := SimilarityScore(reference, r)
		return scored{record: r, score: s}, s > 0
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].record.ID < candidates[j].record.ID
	})

	out := lo.Map(candidates, func(s scored, _ int) content.Record { return s.record })
	return take(out, limit), nil
}

// Relevance scores r against a lowercase query: exact title +10, title
// containing the query +5, category containing it +3, any genre containing
// it +2.
func Relevance(r content.Record, query string) int {
	if query == "" {
		return 0
	}

	var score int
	title := strings.ToLower(r.Title)
	if title == query {
		score += 10
	}
	if strings.Contains(title, query) {
		score += 5
	}
	if strings.Contains(strings.ToLower(r.Category), query) {
		score += 3
	}
	if lo.ContainsBy(r.Genres, func(g string) bool { return strings.Contains(strings.ToLower(g), query) }) {
		score += 2
	}
	return score
}

// Search returns at most limit records matching query and filters, most
// relevant first. The query is matched case-insensitively against the title,
// category, type, genres, people, year and description.
func (m *Manager) Search(ctx context.Context, query string, filters Filters, limit int) ([]content.Record, error) {
	records, err := m.GetAll(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	type scored struct {
		record content.Record
		score  int
	}
	var hits []scored
	for _, r := range records {
		if !filters.match(r) || !strings.Contains(haystack(r), query) {
			continue
		}
		hits = append(hits, scored{record: r, score: Relevance(r, query)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := lo.Map(hits, func(s scored, _ int) content.Record { return s.record })
	return take(out, limit), nil
}

func haystack(r content.Record) string {
	parts := []string{r.Title, r.Category, string(r.Type)}
	parts = append(parts, r.Genres...)
	parts = append(parts, r.Actors...)
	parts = append(parts, r.Directors...)
	if r.Year != 0 {
		parts = append(parts, strconv.Itoa(r.Year))
	}
	parts = append(parts, r.Description)
	return strings.ToLower(strings.Join(parts, " "))
}

func sharedCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[strings.ToLower(v)] = struct{}{}
	}
	var n int
	for _, v := range lo.Uniq(lo.Map(a, func(s string, _ int) string { return strings.ToLower(s) })) {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}

func take[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	if items == nil {
		return []T{}
	}
	return items
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
