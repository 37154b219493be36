package pipeline

import (
	"testing"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

func TestNormalizeDropsCandidateWithoutLocator(t *testing.T) {
	_, ok := Normalize(domain.RawCandidate{Title: "No Way To Get This", Seeders: 500})
	if ok {
		t.Fatalf("candidate without magnet or download url must be dropped")
	}
	_, ok = Normalize(domain.RawCandidate{Title: "Whitespace Only", MagnetURL: "   "})
	if ok {
		t.Fatalf("whitespace-only magnet must count as absent")
	}
}

func TestNormalizeKeepsDownloadURLOnlyCandidate(t *testing.T) {
	item, ok := Normalize(domain.RawCandidate{
		Title:       "Some.Release.1080p",
		DownloadURL: "https://indexer.example/dl/42",
	})
	if !ok {
		t.Fatalf("candidate with download url must survive")
	}
	if item.MagnetLink != "" || item.DownloadURL == "" {
		t.Fatalf("unexpected locators: %#v", item)
	}
}

func TestNormalizePopulatesDerivedFields(t *testing.T) {
	item, ok := Normalize(domain.RawCandidate{
		Title:       "The.Matrix.1999.1080p.BluRay.x264",
		Indexer:     "mock-indexer",
		Size:        1073741824,
		Seeders:     -3,
		Leechers:    7,
		MagnetURL:   "magnet:?xt=urn:btih:abc",
		PublishDate: "2024-01-15T00:00:00Z",
		Categories:  []domain.CategoryRef{{ID: 2040}},
		GUID:        "guid-1",
	})
	if !ok {
		t.Fatalf("expected candidate to survive")
	}
	if item.Size != "1.00 GB" {
		t.Fatalf("expected size %q, got %q", "1.00 GB", item.Size)
	}
	if item.SizeBytes != 1073741824 {
		t.Fatalf("expected raw size preserved, got %d", item.SizeBytes)
	}
	if item.Seeders != 0 {
		t.Fatalf("negative seeders must clamp to zero, got %d", item.Seeders)
	}
	if item.Leechers != 7 {
		t.Fatalf("expected leechers=7, got %d", item.Leechers)
	}
	if item.Category != "Movies/HD" {
		t.Fatalf("expected category %q, got %q", "Movies/HD", item.Category)
	}
	if item.Quality != domain.Quality1080p {
		t.Fatalf("expected quality 1080p, got %q", item.Quality)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
		{1099511627776, "1.00 TB"},
		{1125899906842624, "1.00 PB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.size); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}
