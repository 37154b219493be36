package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
	"github.com/Noamcelermajer/TorTrack/internal/metrics"
	"github.com/Noamcelermajer/TorTrack/internal/release"
)

const (
	// Only the top-ranked results are looked up externally; everything past
	// this index gets placeholder metadata without a network call.
	maxMetadataLookups = 15
	lookupConcurrency  = 15
	lookupTimeout      = 3 * time.Second
	cacheKeyTitleLen   = 30

	placeholderYear     = "Unknown"
	placeholderOverview = "No overview available."
)

// MetadataClient is the descriptive-metadata collaborator contract. A nil
// result with a nil error means "no match". Year 0 means no year hint.
type MetadataClient interface {
	SearchMetadata(ctx context.Context, title, contentType string, year int) (*domain.Metadata, error)
}

// Enricher attaches descriptive metadata to ranked results.
type Enricher struct {
	client  MetadataClient
	cleaner *release.Cleaner
	logger  *slog.Logger
}

func NewEnricher(client MetadataClient, cleaner *release.Cleaner, logger *slog.Logger) *Enricher {
	if cleaner == nil {
		cleaner = release.NewCleaner(release.GrammarParser{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{client: client, cleaner: cleaner, logger: logger}
}

// Enrich preserves order and size of the input. Lookups for the eligible
// prefix run through a bounded pool and are reassembled by slot; any lookup
// failure leaves the placeholder in its own slot and never aborts the batch.
func (e *Enricher) Enrich(ctx context.Context, results []domain.Torrent) []domain.EnrichedTorrent {
	enriched := make([]domain.EnrichedTorrent, len(results))
	for i, item := range results {
		enriched[i] = placeholderFor(item)
	}
	if e.client == nil || len(results) == 0 {
		return enriched
	}

	eligible := len(results)
	if eligible > maxMetadataLookups {
		eligible = maxMetadataLookups
	}

	// The lookup cache is scoped to this batch: slots sharing a cache key are
	// grouped up front, so each distinct title/category prefix triggers at
	// most one external call.
	type lookupGroup struct {
		title    string
		category string
		slots    []int
	}
	groups := make(map[string]*lookupGroup, eligible)
	order := make([]string, 0, eligible)
	for i := 0; i < eligible; i++ {
		key := lookupCacheKey(results[i])
		group, ok := groups[key]
		if !ok {
			group = &lookupGroup{title: results[i].Title, category: results[i].Category}
			groups[key] = group
			order = append(order, key)
		}
		group.slots = append(group.slots, i)
	}

	sem := semaphore.NewWeighted(lookupConcurrency)
	var wg sync.WaitGroup
	for _, key := range order {
		group := groups[key]
		wg.Add(1)
		go func(g *lookupGroup) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			meta, contentType := e.lookup(ctx, g.title, g.category)
			if meta == nil {
				return
			}
			for _, slot := range g.slots {
				enriched[slot] = withMetadata(results[slot], meta, contentType)
			}
		}(group)
	}
	wg.Wait()

	return enriched
}

func (e *Enricher) lookup(ctx context.Context, title, category string) (*domain.Metadata, string) {
	contentType := "movie"
	if mentionsTV(category) {
		contentType = "tv"
	}

	clean, year := e.cleaner.CleanTitle(title)
	if len([]rune(clean)) < 2 {
		metrics.MetadataLookupsTotal.WithLabelValues("skipped").Inc()
		return nil, contentType
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	startedAt := time.Now()
	meta, err := e.client.SearchMetadata(lookupCtx, clean, contentType, year)
	metrics.MetadataLookupDuration.Observe(time.Since(startedAt).Seconds())
	if err != nil {
		metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
		e.logger.Debug("metadata lookup failed",
			slog.String("title", clean),
			slog.String("contentType", contentType),
			slog.String("error", err.Error()),
		)
		return nil, contentType
	}
	if meta == nil {
		metrics.MetadataLookupsTotal.WithLabelValues("nomatch").Inc()
		return nil, contentType
	}
	metrics.MetadataLookupsTotal.WithLabelValues("match").Inc()
	return meta, contentType
}

func lookupCacheKey(item domain.Torrent) string {
	title := item.Title
	if runes := []rune(title); len(runes) > cacheKeyTitleLen {
		title = string(runes[:cacheKeyTitleLen])
	}
	return title + "|" + item.Category
}

func mentionsTV(category string) bool {
	lower := strings.ToLower(category)
	return strings.Contains(lower, "tv") || strings.Contains(lower, "show")
}

func placeholderFor(item domain.Torrent) domain.EnrichedTorrent {
	contentType := "tv"
	if release.IsMovieCategory(item.Category) {
		contentType = "movie"
	}
	return domain.EnrichedTorrent{
		Torrent:      item,
		TMDBTitle:    item.Title,
		TMDBYear:     placeholderYear,
		TMDBOverview: placeholderOverview,
		ContentType:  contentType,
	}
}

func withMetadata(item domain.Torrent, meta *domain.Metadata, contentType string) domain.EnrichedTorrent {
	out := domain.EnrichedTorrent{
		Torrent:      item,
		TMDBTitle:    meta.Title,
		TMDBYear:     meta.Year,
		TMDBOverview: meta.Overview,
		TMDBPoster:   meta.Poster,
		TMDBID:       meta.TMDBID,
		ContentType:  contentType,
	}
	if out.TMDBTitle == "" {
		out.TMDBTitle = item.Title
	}
	if out.TMDBYear == "" {
		out.TMDBYear = placeholderYear
	}
	if out.TMDBOverview == "" {
		out.TMDBOverview = placeholderOverview
	}
	return out
}
