package pipeline

import (
	"fmt"
	"testing"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

func torrentFixture(title string, quality domain.Quality, seeders int, size int64, category string) domain.Torrent {
	return domain.Torrent{
		Title:      title,
		Quality:    quality,
		Seeders:    seeders,
		SizeBytes:  size,
		Category:   category,
		MagnetLink: "magnet:?xt=urn:btih:" + title,
	}
}

func TestApplyFiltersQualityExactMatch(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("a", domain.Quality1080p, 10, 0, "Movies"),
		torrentFixture("b", domain.Quality720p, 20, 0, "Movies"),
		torrentFixture("c", domain.Quality1080p, 5, 0, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{Quality: "1080p"})
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for _, item := range out {
		if item.Quality != domain.Quality1080p {
			t.Fatalf("unexpected quality %q", item.Quality)
		}
	}
}

func TestApplyFiltersMinSize(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("small", domain.QualityUnknown, 1, 500<<20, "Movies"),
		torrentFixture("large", domain.QualityUnknown, 1, 2<<30, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{MinSize: "1GB"})
	if len(out) != 1 || out[0].Title != "large" {
		t.Fatalf("expected only the large result, got %#v", out)
	}
}

func TestApplyFiltersMinSeeders(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("dead", domain.QualityUnknown, 2, 0, "Movies"),
		torrentFixture("alive", domain.QualityUnknown, 50, 0, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{MinSeeders: "10"})
	if len(out) != 1 || out[0].Title != "alive" {
		t.Fatalf("expected only the seeded result, got %#v", out)
	}

	// Garbage in the selector disables the constraint.
	out = ApplyFilters(input, domain.FilterSpec{MinSeeders: "lots"})
	if len(out) != 2 {
		t.Fatalf("unparseable min seeders must not filter, got %d results", len(out))
	}
}

func TestApplyFiltersCategoryPrefix(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("movie", domain.QualityUnknown, 1, 0, "Movies/HD"),
		torrentFixture("tv", domain.QualityUnknown, 1, 0, "TV/HD"),
	}
	out := ApplyFilters(input, domain.FilterSpec{Category: "movies"})
	if len(out) != 1 || out[0].Title != "movie" {
		t.Fatalf("expected only the movie result, got %#v", out)
	}
}

func TestApplyFiltersSeasonTypeIgnoresNonTV(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("The Matrix 1999 1080p", domain.Quality1080p, 1, 0, "Movies/HD"),
		torrentFixture("Show.S01E05.720p", domain.Quality720p, 1, 0, "TV/HD"),
		torrentFixture("Show Complete Season 1080p", domain.Quality1080p, 1, 0, "TV/HD"),
	}
	out := ApplyFilters(input, domain.FilterSpec{SeasonType: "full_season"})
	if len(out) != 2 {
		t.Fatalf("expected movie plus season pack, got %d results", len(out))
	}
	for _, item := range out {
		if item.Title == "Show.S01E05.720p" {
			t.Fatalf("single episode must not pass a full_season filter")
		}
	}
}

func TestApplyFiltersSeasonTypeSingleEpisode(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("Show.S01E05.720p", domain.Quality720p, 1, 0, "TV/HD"),
		torrentFixture("Show Complete Season Pack", domain.QualityUnknown, 1, 0, "TV/HD"),
	}
	out := ApplyFilters(input, domain.FilterSpec{SeasonType: "single_episode"})
	if len(out) != 1 || out[0].Title != "Show.S01E05.720p" {
		t.Fatalf("expected only the single episode, got %#v", out)
	}
}

func TestApplyFiltersDefaultRanking(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("few seeds high quality", domain.Quality4K, 1, 0, "Movies"),
		torrentFixture("many seeds low quality", domain.Quality480p, 100, 0, "Movies"),
		torrentFixture("mid", domain.Quality1080p, 50, 0, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{})
	if out[0].Title != "many seeds low quality" {
		t.Fatalf("seeders must dominate ranking, got %q first", out[0].Title)
	}
	if out[2].Title != "few seeds high quality" {
		t.Fatalf("expected low-seed result last, got %q", out[2].Title)
	}
}

func TestApplyFiltersQualityBreaksTies(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("hdtv", domain.QualityHDTV, 10, 0, "Movies"),
		torrentFixture("bluray", domain.QualityBluRay, 10, 0, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{})
	if out[0].Title != "bluray" {
		t.Fatalf("equal seeders must rank by quality tier, got %q first", out[0].Title)
	}
}

func TestApplyFiltersStableOnExactTies(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("first", domain.Quality1080p, 10, 0, "Movies"),
		torrentFixture("second", domain.Quality1080p, 10, 0, "Movies"),
		torrentFixture("third", domain.Quality1080p, 10, 0, "Movies"),
	}
	out := ApplyFilters(input, domain.FilterSpec{})
	if out[0].Title != "first" || out[1].Title != "second" || out[2].Title != "third" {
		t.Fatalf("exact ties must keep input order, got %#v", out)
	}
}

func TestApplyFiltersSortOverrides(t *testing.T) {
	input := []domain.Torrent{
		{Title: "a", Seeders: 1, SizeBytes: 300, PublishDate: "2024-03-01T00:00:00Z", MagnetLink: "m"},
		{Title: "b", Seeders: 3, SizeBytes: 100, PublishDate: "2024-01-01T00:00:00Z", MagnetLink: "m"},
		{Title: "c", Seeders: 2, SizeBytes: 200, PublishDate: "2024-02-01T00:00:00Z", MagnetLink: "m"},
	}

	bySeeders := ApplyFilters(input, domain.FilterSpec{SortBy: "seeders"})
	if bySeeders[0].Title != "b" || bySeeders[2].Title != "a" {
		t.Fatalf("seeders sort wrong: %q %q %q", bySeeders[0].Title, bySeeders[1].Title, bySeeders[2].Title)
	}

	bySize := ApplyFilters(input, domain.FilterSpec{SortBy: "size"})
	if bySize[0].Title != "a" || bySize[2].Title != "b" {
		t.Fatalf("size sort wrong: %q %q %q", bySize[0].Title, bySize[1].Title, bySize[2].Title)
	}

	byDate := ApplyFilters(input, domain.FilterSpec{SortBy: "date"})
	if byDate[0].Title != "a" || byDate[2].Title != "b" {
		t.Fatalf("date sort wrong: %q %q %q", byDate[0].Title, byDate[1].Title, byDate[2].Title)
	}
}

func TestApplyFiltersCapsResults(t *testing.T) {
	input := make([]domain.Torrent, 0, 150)
	for i := 0; i < 150; i++ {
		input = append(input, torrentFixture(fmt.Sprintf("t%03d", i), domain.QualityUnknown, i, 0, "Movies"))
	}
	out := ApplyFilters(input, domain.FilterSpec{})
	if len(out) != 100 {
		t.Fatalf("expected cap at 100, got %d", len(out))
	}
	// The cap applies after ranking, so the best-seeded items survive.
	if out[0].Seeders != 149 {
		t.Fatalf("expected top seeder first, got %d", out[0].Seeders)
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	input := []domain.Torrent{
		torrentFixture("z", domain.QualityUnknown, 1, 0, "Movies"),
		torrentFixture("a", domain.QualityUnknown, 9, 0, "Movies"),
	}
	ApplyFilters(input, domain.FilterSpec{SortBy: "seeders"})
	if input[0].Title != "z" {
		t.Fatalf("input slice must stay untouched")
	}
}
