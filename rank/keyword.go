package rank

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/content"
)

var stopWords = lo.SliceToMap([]string{
	// french
	"le", "la", "les", "un", "une", "des", "du", "de", "d", "l", "et", "ou",
	"en", "au", "aux", "a", "à", "ce", "ces", "cet", "cette", "qui", "que",
	"quoi", "dans", "par", "pour", "sur", "avec", "sans", "est", "sont", "je",
	"tu", "il", "elle", "on", "nous", "vous", "ils", "elles", "mon", "ma",
	"mes", "son", "sa", "ses", "pas", "plus", "ne", "se", "y",
	// english
	"the", "an", "and", "or", "of", "to", "in", "on", "at", "for", "with",
	"without", "is", "are", "was", "were", "be", "it", "this", "that", "i",
	"you", "he", "she", "we", "they", "my", "me", "about", "like", "some",
	"want", "watch", "something",
}, func(w string) (string, struct{}) { return w, struct{}{} })

// Tokenize lowercases text, splits it on anything but letters and digits and
// drops stop words and duplicates.
func Tokenize(text string) []string {
	return lo.Uniq(lo.Filter(words(text), func(w string, _ int) bool {
		_, stop := stopWords[w]
		return !stop
	}))
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

type field struct {
	factor Factor
	weight float64
	text   string
	words  map[string]struct{}
}

func newField(factor Factor, weight float64, parts ...string) field {
	text := strings.ToLower(strings.Join(parts, " "))
	return field{
		factor: factor,
		weight: weight,
		text:   text,
		words:  lo.SliceToMap(words(text), func(w string) (string, struct{}) { return w, struct{}{} }),
	}
}

// ScoreKeywords ranks candidates against a free-text description: every
// token found in the title scores 3, in a genre 2 and in any other field 1,
// with one more point for each field where it is a whole word. Records
// matching no token are left out.
func (e *Engine) ScoreKeywords(candidates []content.Record, text string) []Scored {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []Scored{}
	}

	out := make([]Scored, 0)
	for _, r := range candidates {
		fields := []field{
			newField(FactorTitle, 3, r.Title),
			newField(FactorGenre, 2, r.Genres...),
			newField(FactorText, 1, append(append([]string{r.Description, r.Category, string(r.Type), string(r.Origin)}, r.Actors...), r.Directors...)...),
		}

		components := make(map[Factor]float64)
		var final float64
		for _, token := range tokens {
			for _, f := range fields {
				if !strings.Contains(f.text, token) {
					continue
				}
				components[f.factor] += f.weight
				final += f.weight
				if _, ok := f.words[token]; ok {
					components[FactorExact]++
					final++
				}
			}
		}

		if final == 0 {
			continue
		}
		out = append(out, Scored{
			Record: r,
			Score:  Score{ContentID: r.ID, Components: components, Final: final},
		})
	}

	sortScored(out)
	return out
}
