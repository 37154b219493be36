package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
	"github.com/Noamcelermajer/TorTrack/internal/release"
)

// maxResults caps the filtered/sorted set to bound downstream enrichment.
const maxResults = 100

// ApplyFilters applies the user-supplied filters, ranks the survivors, and
// caps the result set. The input slice is never mutated; the output is always
// a subset of the input.
func ApplyFilters(results []domain.Torrent, spec domain.FilterSpec) []domain.Torrent {
	minSize, hasMinSize := ParseSize(spec.MinSize)
	minSeeders, hasMinSeeders := parseMinSeeders(spec.MinSeeders)
	seasonType := domain.NormalizeSeasonType(spec.SeasonType)
	quality := strings.TrimSpace(spec.Quality)
	category := strings.ToLower(strings.TrimSpace(spec.Category))

	filtered := make([]domain.Torrent, 0, len(results))
	for _, item := range results {
		if quality != "" && !strings.EqualFold(string(item.Quality), quality) {
			continue
		}
		if hasMinSize && minSize > 0 && item.SizeBytes < minSize {
			continue
		}
		if hasMinSeeders && item.Seeders < minSeeders {
			continue
		}
		if category != "" && !strings.HasPrefix(strings.ToLower(item.Category), category) {
			continue
		}
		if !matchesSeasonType(item, seasonType) {
			continue
		}
		filtered = append(filtered, item)
	}

	sortResults(filtered, domain.NormalizeSortBy(spec.SortBy))

	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	return filtered
}

// matchesSeasonType constrains TV content only; results outside TV categories
// pass through regardless of the selector.
func matchesSeasonType(item domain.Torrent, seasonType domain.SeasonType) bool {
	if seasonType == domain.SeasonTypeAny || !release.IsTVCategory(item.Category) {
		return true
	}
	switch seasonType {
	case domain.SeasonTypeFullSeason:
		return release.IsSeasonPack(item.Title)
	case domain.SeasonTypeSingleEpisode:
		return release.IsSingleEpisode(item.Title) && !release.IsSeasonPack(item.Title)
	case domain.SeasonTypeCompleteSeries:
		return release.IsSeriesPack(item.Title)
	default:
		return true
	}
}

// RankScore is the default ordering weight: seed count dominates, quality
// tier breaks up results with similar seeding.
func RankScore(item domain.Torrent) int {
	return item.Seeders*10 + release.QualityScore(item.Quality)
}

func sortResults(items []domain.Torrent, sortBy domain.SortBy) {
	// Stable sort keeps the original indexer order for exact ties.
	sort.SliceStable(items, func(i, j int) bool {
		left, right := items[i], items[j]
		switch sortBy {
		case domain.SortBySeeders:
			return left.Seeders > right.Seeders
		case domain.SortBySize:
			return left.SizeBytes > right.SizeBytes
		case domain.SortByDate:
			// Lexical comparison of the raw publish date; correct only for
			// ISO-8601-style strings, which is what Prowlarr emits.
			return left.PublishDate > right.PublishDate
		default:
			return RankScore(left) > RankScore(right)
		}
	})
}

func parseMinSeeders(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
