package release

import (
	"fmt"
	"strings"
)

var (
	seasonPackPhrases    = buildSeasonPackPhrases()
	singleEpisodeMarkers = buildSingleEpisodeMarkers()

	// Episode ranges contain episode markers as substrings, so they are
	// checked before the marker exclusion in IsSeasonPack.
	seasonRangePhrases = []string{
		"season 1-",
		"season 2-",
		"s01e01-e",
	}

	seriesPackPhrases = []string{
		"complete series",
		"full series",
		"series pack",
		"complete collection",
	}
)

func buildSeasonPackPhrases() []string {
	phrases := []string{
		"complete season",
		"full season",
		"season pack",
	}
	for season := 1; season <= 5; season++ {
		phrases = append(phrases, fmt.Sprintf("season %02d", season))
	}
	return phrases
}

func buildSingleEpisodeMarkers() []string {
	markers := make([]string, 0, 32)
	for season := 1; season <= 2; season++ {
		for episode := 1; episode <= 2; episode++ {
			markers = append(markers, fmt.Sprintf("s%02de%02d", season, episode))
		}
	}
	markers = append(markers, "episode 1", "episode 2")
	for episode := 1; episode <= 26; episode++ {
		markers = append(markers, fmt.Sprintf("e%02d", episode))
	}
	return markers
}

// normalizeSeparators lowercases a release title and flattens the scene
// separators so phrase matching works on dotted names like
// "Show.Name.Complete.Season.Pack". Hyphens stay intact: the range phrases
// ("season 1-", "s01e01-e") depend on them.
func normalizeSeparators(title string) string {
	lower := strings.ToLower(title)
	lower = strings.NewReplacer(".", " ", "_", " ").Replace(lower)
	return strings.Join(strings.Fields(lower), " ")
}

func containsAny(value string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(value, phrase) {
			return true
		}
	}
	return false
}

// IsSeasonPack reports whether a title looks like a full-season bundle: it
// carries a season-pack phrase and no single-episode marker.
func IsSeasonPack(title string) bool {
	normalized := normalizeSeparators(title)
	if containsAny(normalized, seasonRangePhrases) {
		return true
	}
	return containsAny(normalized, seasonPackPhrases) && !containsAny(normalized, singleEpisodeMarkers)
}

// IsSingleEpisode reports whether a title carries a single-episode marker.
func IsSingleEpisode(title string) bool {
	return containsAny(normalizeSeparators(title), singleEpisodeMarkers)
}

// IsSeriesPack reports whether a title looks like a complete-series bundle.
func IsSeriesPack(title string) bool {
	return containsAny(normalizeSeparators(title), seriesPackPhrases)
}
