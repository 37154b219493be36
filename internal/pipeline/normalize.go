package pipeline

import (
	"fmt"
	"strings"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
	"github.com/Noamcelermajer/TorTrack/internal/release"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// Normalize converts a raw indexer candidate into the canonical result shape.
// Candidates with no actionable download locator (neither magnet nor download
// URL) are dropped; that is the only filtering rule applied here.
func Normalize(raw domain.RawCandidate) (domain.Torrent, bool) {
	magnet := strings.TrimSpace(raw.MagnetURL)
	downloadURL := strings.TrimSpace(raw.DownloadURL)
	if magnet == "" && downloadURL == "" {
		return domain.Torrent{}, false
	}

	return domain.Torrent{
		Title:       raw.Title,
		Indexer:     raw.Indexer,
		Size:        FormatBytes(raw.Size),
		SizeBytes:   raw.Size,
		Seeders:     clampNonNegative(raw.Seeders),
		Leechers:    clampNonNegative(raw.Leechers),
		MagnetLink:  magnet,
		DownloadURL: downloadURL,
		InfoURL:     strings.TrimSpace(raw.InfoURL),
		PublishDate: raw.PublishDate,
		Category:    release.MapCategory(raw.Categories),
		Quality:     release.ExtractQuality(raw.Title),
		GUID:        raw.GUID,
	}, true
}

// FormatBytes renders a byte count as a human string, dividing by 1024 until
// the value drops below one unit (or PB is reached).
func FormatBytes(size int64) string {
	value := float64(size)
	for _, unit := range sizeUnits[:len(sizeUnits)-1] {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[len(sizeUnits)-1])
}

func clampNonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
