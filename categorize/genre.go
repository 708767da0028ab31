package categorize

import (
	"strings"

	"github.com/streamdex/streamdex/util"
)

// genreSynonyms maps each canonical genre to the labels found in the wild.
var genreSynonyms = map[string][]string{
	"Action":          {"action", "action & adventure"},
	"Aventure":        {"adventure", "aventures"},
	"Animation":       {"animated", "cartoon", "dessin animé", "dessins animés"},
	"Comédie":         {"comedy", "comedie", "comique", "sitcom"},
	"Drame":           {"drama", "dramatique"},
	"Horreur":         {"horror", "épouvante", "epouvante", "épouvante-horreur"},
	"Thriller":        {"suspense"},
	"Science-Fiction": {"sci-fi", "scifi", "sf", "science fiction", "sci-fi & fantasy"},
	"Fantastique":     {"fantasy", "fantastic"},
	"Romance":         {"romantic", "romantique", "romcom"},
	"Policier":        {"crime", "polar", "detective", "enquête"},
	"Mystère":         {"mystery", "mystere"},
	"Documentaire":    {"documentary", "docu"},
	"Famille":         {"family", "familial"},
	"Guerre":          {"war", "war & politics"},
	"Western":         {"far west"},
	"Musical":         {"music", "musique", "comédie musicale"},
	"Historique":      {"history", "histoire", "historical"},
	"Biopic":          {"biography", "biographie", "biographical"},
	"Sport":           {"sports"},
	"Jeunesse":        {"kids", "enfants", "children"},
	"Téléréalité":     {"reality", "reality-tv", "télé-réalité", "tele-realite"},
}

var genreIndex = buildGenreIndex()

func buildGenreIndex() map[string]string {
	index := make(map[string]string)
	for canonical, synonyms := range genreSynonyms {
		index[genreKey(canonical)] = canonical
		for _, s := range synonyms {
			index[genreKey(s)] = canonical
		}
	}
	return index
}

func genreKey(s string) string {
	return strings.ToLower(util.CollapseSpace(s))
}

// NormalizeGenre maps a label to its canonical genre. Unknown labels are
// returned trimmed but otherwise unchanged.
func NormalizeGenre(genre string) string {
	if canonical, ok := genreIndex[genreKey(genre)]; ok {
		return canonical
	}
	return util.CollapseSpace(genre)
}

// NormalizeGenres maps every label and drops duplicates, keeping the first
// occurrence. Applying it twice gives the same result as applying it once.
func NormalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		n := NormalizeGenre(g)
		if n == "" {
			continue
		}
		k := strings.ToLower(n)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}
