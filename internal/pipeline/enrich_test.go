package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

type fakeMetadataClient struct {
	mu      sync.Mutex
	calls   []string
	respond func(title, contentType string) (*domain.Metadata, error)
}

func (f *fakeMetadataClient) SearchMetadata(_ context.Context, title, contentType string, _ int) (*domain.Metadata, error) {
	f.mu.Lock()
	f.calls = append(f.calls, title)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(title, contentType)
}

func (f *fakeMetadataClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func moviesFixture(n int) []domain.Torrent {
	items := make([]domain.Torrent, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Torrent{
			Title:      "Movie." + string(rune('A'+i)) + ".2020.1080p.BluRay",
			Category:   "Movies/HD",
			MagnetLink: "magnet:?xt=urn:btih:x",
		})
	}
	return items
}

func TestEnrichPreservesOrderAndSize(t *testing.T) {
	client := &fakeMetadataClient{}
	enricher := NewEnricher(client, nil, nil)
	input := moviesFixture(5)
	out := enricher.Enrich(context.Background(), input)
	if len(out) != len(input) {
		t.Fatalf("expected %d results, got %d", len(input), len(out))
	}
	for i := range input {
		if out[i].Title != input[i].Title {
			t.Fatalf("order broken at slot %d", i)
		}
	}
}

func TestEnrichLimitsExternalLookups(t *testing.T) {
	client := &fakeMetadataClient{}
	enricher := NewEnricher(client, nil, nil)
	out := enricher.Enrich(context.Background(), moviesFixture(20))
	if got := client.callCount(); got != maxMetadataLookups {
		t.Fatalf("expected %d lookups, got %d", maxMetadataLookups, got)
	}
	// Items past the lookup window still carry placeholder metadata.
	tail := out[len(out)-1]
	if tail.TMDBYear != placeholderYear || tail.TMDBOverview != placeholderOverview {
		t.Fatalf("expected placeholder metadata on tail item, got %#v", tail)
	}
}

func TestEnrichDeduplicatesSharedLookups(t *testing.T) {
	client := &fakeMetadataClient{
		respond: func(title, _ string) (*domain.Metadata, error) {
			return &domain.Metadata{Title: "Canonical", Year: "1999"}, nil
		},
	}
	enricher := NewEnricher(client, nil, nil)
	// Identical title and category share one cache key and one call.
	input := []domain.Torrent{
		{Title: "The.Matrix.1999.1080p", Category: "Movies/HD", MagnetLink: "m"},
		{Title: "The.Matrix.1999.1080p", Category: "Movies/HD", MagnetLink: "m"},
		{Title: "The.Matrix.1999.1080p", Category: "Movies/HD", MagnetLink: "m"},
	}
	out := enricher.Enrich(context.Background(), input)
	if got := client.callCount(); got != 1 {
		t.Fatalf("expected a single lookup for identical items, got %d", got)
	}
	for i, item := range out {
		if item.TMDBTitle != "Canonical" || item.TMDBYear != "1999" {
			t.Fatalf("slot %d missing shared metadata: %#v", i, item)
		}
	}
}

func TestEnrichLookupFailureFallsBackToPlaceholder(t *testing.T) {
	client := &fakeMetadataClient{
		respond: func(title, _ string) (*domain.Metadata, error) {
			return nil, errors.New("upstream down")
		},
	}
	enricher := NewEnricher(client, nil, nil)
	input := moviesFixture(3)
	out := enricher.Enrich(context.Background(), input)
	for i, item := range out {
		if item.TMDBTitle != input[i].Title {
			t.Fatalf("placeholder title must echo the release title, got %q", item.TMDBTitle)
		}
		if item.TMDBYear != placeholderYear || item.TMDBOverview != placeholderOverview {
			t.Fatalf("slot %d missing placeholders: %#v", i, item)
		}
	}
}

func TestEnrichContentTypeFollowsCategory(t *testing.T) {
	var mu sync.Mutex
	contentTypes := map[string]string{}
	client := &fakeMetadataClient{
		respond: func(title, contentType string) (*domain.Metadata, error) {
			mu.Lock()
			contentTypes[title] = contentType
			mu.Unlock()
			return nil, nil
		},
	}
	enricher := NewEnricher(client, nil, nil)
	out := enricher.Enrich(context.Background(), []domain.Torrent{
		{Title: "Breaking.Bad.S01.1080p", Category: "TV/HD", MagnetLink: "m"},
		{Title: "The.Matrix.1999.1080p", Category: "Movies/HD", MagnetLink: "m"},
		{Title: "Mystery.Release.1080p", Category: "Unknown", MagnetLink: "m"},
	})

	mu.Lock()
	if contentTypes["Breaking Bad"] != "tv" {
		t.Fatalf("TV category must query the tv index, got %q", contentTypes["Breaking Bad"])
	}
	if contentTypes["The Matrix"] != "movie" {
		t.Fatalf("movie category must query the movie index, got %q", contentTypes["The Matrix"])
	}
	mu.Unlock()

	// Placeholder content type: anything not a movie category reads as tv.
	if out[0].ContentType != "tv" || out[1].ContentType != "movie" || out[2].ContentType != "tv" {
		t.Fatalf("unexpected content types: %q %q %q", out[0].ContentType, out[1].ContentType, out[2].ContentType)
	}
}

func TestEnrichNilClientYieldsPlaceholders(t *testing.T) {
	enricher := NewEnricher(nil, nil, nil)
	out := enricher.Enrich(context.Background(), moviesFixture(2))
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for _, item := range out {
		if item.TMDBYear != placeholderYear {
			t.Fatalf("expected placeholder metadata, got %#v", item)
		}
	}
}
