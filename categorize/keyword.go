package categorize

import (
	"regexp"
	"strings"
)

// matcher finds whole-word keywords in lowercase text.
type matcher struct {
	patterns []*regexp.Regexp
}

func newMatcher(keywords ...string) matcher {
	m := matcher{patterns: make([]*regexp.Regexp, 0, len(keywords))}
	for _, k := range keywords {
		m.patterns = append(m.patterns, regexp.MustCompile(
			`(?:^|[^\p{L}\p{N}])`+regexp.QuoteMeta(strings.ToLower(k))+`(?:$|[^\p{L}\p{N}])`,
		))
	}
	return m
}

func (m matcher) match(lower string) bool {
	for _, p := range m.patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// rule associates a value with its keywords. Rules are tried in order.
type rule[T any] struct {
	value   T
	matcher matcher
}

func firstMatch[T any](rules []rule[T], text string) (T, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matcher.match(lower) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}
