package release

import (
	"strings"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

// qualityRules are evaluated in order; the first keyword hit wins, so a title
// carrying both "1080p" and "bluray" classifies as 1080p.
var qualityRules = []struct {
	keywords []string
	tier     domain.Quality
}{
	{keywords: []string{"2160p", "4k", "uhd"}, tier: domain.Quality4K},
	{keywords: []string{"1080p"}, tier: domain.Quality1080p},
	{keywords: []string{"720p"}, tier: domain.Quality720p},
	{keywords: []string{"480p"}, tier: domain.Quality480p},
	{keywords: []string{"hdtv"}, tier: domain.QualityHDTV},
	{keywords: []string{"webrip", "web-rip"}, tier: domain.QualityWEBRip},
	{keywords: []string{"webdl", "web-dl"}, tier: domain.QualityWEBDL},
	{keywords: []string{"bluray", "blu-ray"}, tier: domain.QualityBluRay},
	{keywords: []string{"dvdrip"}, tier: domain.QualityDVDRip},
}

// ExtractQuality maps a raw release title to its quality tier. Total: every
// input yields exactly one tier.
func ExtractQuality(title string) domain.Quality {
	lower := strings.ToLower(title)
	for _, rule := range qualityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.tier
			}
		}
	}
	return domain.QualityUnknown
}

// QualityScore is the ranking weight of a tier; seed count dominates it by a
// factor of ten in the default ordering.
func QualityScore(tier domain.Quality) int {
	switch tier {
	case domain.Quality4K:
		return 100
	case domain.Quality1080p:
		return 80
	case domain.QualityBluRay:
		return 70
	case domain.QualityWEBDL:
		return 60
	case domain.Quality720p:
		return 50
	case domain.QualityWEBRip:
		return 40
	case domain.QualityHDTV:
		return 30
	case domain.Quality480p:
		return 20
	case domain.QualityDVDRip:
		return 10
	default:
		return 0
	}
}
