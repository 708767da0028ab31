package content

import "github.com/samber/lo"

// VideoSource is a playable reference.
type VideoSource struct {
	URL string `json:"url"`
	// MimeType is a media type or "embed" for frame references.
	MimeType string `json:"mimeType"`
	// Quality label (e.g. "1080p"), empty when undeclared.
	Quality string `json:"quality,omitempty"`
}

// MimeEmbed tags sources discovered in iframes and embeds.
const MimeEmbed = "embed"

func (v VideoSource) String() string {
	if v.Quality != "" {
		return v.Quality
	}
	return v.URL
}

// UniqueSources drops later sources whose URL was already seen.
func UniqueSources(sources []VideoSource) []VideoSource {
	return lo.UniqBy(sources, func(s VideoSource) string { return s.URL })
}
