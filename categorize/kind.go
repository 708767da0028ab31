package categorize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/util"
)

// typeRules are ordered so multi-word labels such as "tv show" resolve
// before their shorter keywords.
var typeRules = []rule[content.Type]{
	{content.Documentary, newMatcher("documentaire", "documentaires", "documentary", "docu-série", "docuseries")},
	{content.Anime, newMatcher("anime", "animes", "animé", "japanimation")},
	{content.Series, newMatcher("tv show", "tv series", "série", "séries", "serie", "series", "saison", "season", "épisode", "episode", "feuilleton")},
	{content.Show, newMatcher("émission", "emission", "show", "talk-show", "talk show", "téléréalité", "télé-réalité", "reality", "spectacle")},
	{content.Movie, newMatcher("film", "films", "movie", "movies", "long-métrage", "long métrage", "court-métrage", "cinéma")},
}

var (
	isoDuration   = regexp.MustCompile(`(?i)^PT(?:(?P<h>\d+)H)?(?:(?P<m>\d+)M)?(?:\d+S)?$`)
	clockDuration = regexp.MustCompile(`^(?P<h>\d+):(?P<m>[0-5]\d)(?::[0-5]\d)?$`)
	hourDuration  = regexp.MustCompile(`(?i)^(?P<h>\d+)\s*h(?:eures?|ours?|rs?)?\s*(?:(?P<m>\d+)\s*(?:m|min|mins|minutes?|mn)?)?$`)
	minDuration   = regexp.MustCompile(`(?i)^(?P<m>\d+)\s*(?:m|min|mins|minutes?|mn)?$`)
)

// ParseDuration reads "45", "45 min", "1h30", "1:30" or "PT1H30M" as minutes.
func ParseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	for _, re := range []*regexp.Regexp{isoDuration, clockDuration, hourDuration, minDuration} {
		if !re.MatchString(s) {
			continue
		}
		groups := util.ReGroups(re, s)
		h, _ := strconv.Atoi(groups["h"])
		m, _ := strconv.Atoi(groups["m"])
		total := h*60 + m
		return total, total > 0
	}
	return 0, false
}

// DetectType resolves the content type of raw: the explicit label first,
// then keywords in the title, description and tags, then the episode count
// and duration. Items without any signal are movies.
func DetectType(raw RawItem) content.Type {
	if raw.Type != "" {
		if t, ok := content.ParseType(raw.Type); ok {
			return t
		}
		if t, ok := firstMatch(typeRules, raw.Type); ok {
			return t
		}
	}

	if t, ok := firstMatch(typeRules, raw.text()); ok {
		return t
	}

	if raw.EpisodeCount > 1 {
		return content.Series
	}

	if minutes, ok := ParseDuration(raw.Duration); ok {
		switch {
		case minutes < 60:
			return content.Series
		case minutes > 60:
			return content.Movie
		}
	}

	return content.Movie
}
