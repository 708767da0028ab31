package categorize

import (
	"regexp"

	"github.com/streamdex/streamdex/content"
)

var originRules = []rule[content.Origin]{
	{content.France, newMatcher("france", "français", "française", "francais", "francaise", "french")},
	{content.USA, newMatcher("usa", "états-unis", "etats-unis", "united states", "american", "américain", "américaine", "hollywood")},
	{content.UK, newMatcher("uk", "royaume-uni", "united kingdom", "british", "britannique", "england", "bbc")},
	{content.Japan, newMatcher("japan", "japon", "japonais", "japonaise", "japanese")},
	{content.Korea, newMatcher("korea", "south korea", "corée", "coree", "coréen", "coréenne", "korean", "k-drama", "kdrama")},
	{content.China, newMatcher("china", "chine", "chinois", "chinoise", "chinese", "c-drama", "cdrama", "wuxia")},
	{content.India, newMatcher("india", "inde", "indien", "indienne", "indian", "bollywood", "tollywood", "hindi")},
	{content.Spain, newMatcher("spain", "espagne", "espagnol", "espagnole", "spanish")},
	{content.Turkey, newMatcher("turkey", "turquie", "turc", "turque", "turkish")},
	{content.LatinAmerica, newMatcher("latam", "mexique", "mexico", "mexican", "mexicain", "brésil", "brazil", "argentine", "argentina", "colombie", "colombia", "telenovela", "novela")},
}

// titleShapes are evidence from how a title is built.
var titleShapes = []struct {
	origin  content.Origin
	pattern *regexp.Regexp
}{
	{content.India, regexp.MustCompile(`(?:^|\s)\p{Lu}\p{L}*\s+(?:Ki|Ka|Ke)\s+\p{Lu}\p{L}*`)},
	{content.Japan, regexp.MustCompile(`(?i)\p{L}+-(?:kun|chan|sama|senpai)(?:$|[^\p{L}])`)},
	{content.Japan, regexp.MustCompile(`(?:^|\s)\p{Lu}\p{L}+\s+no\s+\p{Lu}\p{L}+`)},
}

// DetectOrigin resolves the origin of raw from the explicit value, then
// keywords, then the title shape. It returns "" when there is no evidence.
func DetectOrigin(raw RawItem) content.Origin {
	if raw.Origin != "" {
		if o, ok := firstMatch(originRules, raw.Origin); ok {
			return o
		}
	}

	if o, ok := firstMatch(originRules, raw.text()); ok {
		return o
	}

	for _, shape := range titleShapes {
		if shape.pattern.MatchString(raw.Title) {
			return shape.origin
		}
	}

	return ""
}
