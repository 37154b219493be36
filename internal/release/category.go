package release

import (
	"strings"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

// categoryLabels follows the Torznab numbering: 2000-range for movie
// subtypes, 5000-range for TV subtypes.
var categoryLabels = map[int]string{
	2000: "Movies",
	2010: "Movies/Foreign",
	2020: "Movies/Other",
	2030: "Movies/SD",
	2040: "Movies/HD",
	2045: "Movies/UHD",
	2050: "Movies/BluRay",
	2060: "Movies/3D",
	5000: "TV",
	5010: "TV/WEB-DL",
	5020: "TV/Foreign",
	5030: "TV/SD",
	5040: "TV/HD",
	5045: "TV/UHD",
	5050: "TV/Other",
	5060: "TV/Sport",
	5070: "TV/Anime",
}

// MapCategory resolves a candidate's category identifiers to a label. The
// first recognized identifier wins; an empty list yields "Unknown" and a
// non-empty list with no recognized identifier yields "Other".
func MapCategory(categories []domain.CategoryRef) string {
	if len(categories) == 0 {
		return "Unknown"
	}
	for _, category := range categories {
		if label, ok := categoryLabels[category.ID]; ok {
			return label
		}
	}
	return "Other"
}

// IsTVCategory reports whether a category label marks TV content.
func IsTVCategory(label string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(label)), "TV")
}

// IsMovieCategory reports whether a category label marks movie content.
func IsMovieCategory(label string) bool {
	return strings.Contains(strings.ToLower(label), "movie")
}
