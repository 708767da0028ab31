package categorize

import (
	"sort"
	"strings"
	"unicode"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
)

// Suggest ranks candidates by token overlap with category: +2 for each
// category token the candidate contains exactly, +1 for each one that only
// overlaps a candidate token as a substring. Ties go to the closest edit
// distance, then alphabetical order. Candidates scoring zero are dropped and
// at most n are returned (all when n <= 0).
func Suggest(category string, candidates []string, n int) []string {
	query := tokens(category)
	if len(query) == 0 {
		return nil
	}

	type scored struct {
		name     string
		score    int
		distance int
	}

	var ranked []scored
	for _, candidate := range candidates {
		score := overlap(query, tokens(candidate))
		if score == 0 {
			continue
		}
		ranked = append(ranked, scored{
			name:     candidate,
			score:    score,
			distance: levenshtein.Distance(strings.ToLower(category), strings.ToLower(candidate)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.name < b.name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}
	return out
}

func overlap(query, candidate []string) int {
	var score int
	for _, q := range query {
		exact, partial := false, false
		for _, c := range candidate {
			if c == q {
				exact = true
				break
			}
			if strings.Contains(c, q) || strings.Contains(q, c) {
				partial = true
			}
		}
		switch {
		case exact:
			score += 2
		case partial:
			score++
		}
	}
	return score
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
