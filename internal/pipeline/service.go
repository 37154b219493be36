package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

var ErrEmptyQuery = errors.New("no search query provided")

// Indexer is the search collaborator contract. Implementations query the
// external aggregator and may return an empty slice; errors crossing this
// boundary are absorbed by the service and degrade to empty results.
type Indexer interface {
	Search(ctx context.Context, query, category string) ([]domain.RawCandidate, error)
}

// Service runs the search pipeline: raw candidates through normalization,
// filtering/ranking, and metadata enrichment. Nothing is kept between
// requests.
type Service struct {
	indexer  Indexer
	enricher *Enricher
	logger   *slog.Logger
}

func NewService(indexer Indexer, enricher *Enricher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if enricher == nil {
		enricher = NewEnricher(nil, nil, logger)
	}
	return &Service{indexer: indexer, enricher: enricher, logger: logger}
}

func (s *Service) Search(ctx context.Context, query string, filters domain.FilterSpec) (domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResponse{}, ErrEmptyQuery
	}

	startedAt := time.Now()

	var raw []domain.RawCandidate
	if s.indexer != nil {
		candidates, err := s.indexer.Search(ctx, query, filters.Category)
		if err != nil {
			s.logger.Warn("indexer search failed, returning empty result set",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
		} else {
			raw = candidates
		}
	}

	torrents := make([]domain.Torrent, 0, len(raw))
	for _, candidate := range raw {
		if torrent, ok := Normalize(candidate); ok {
			torrents = append(torrents, torrent)
		}
	}
	dropped := len(raw) - len(torrents)

	torrents = ApplyFilters(torrents, filters)
	enriched := s.enricher.Enrich(ctx, torrents)

	s.logger.Info("search completed",
		slog.String("query", query),
		slog.Int("rawCandidates", len(raw)),
		slog.Int("droppedNoLocator", dropped),
		slog.Int("results", len(enriched)),
		slog.Int64("elapsedMs", time.Since(startedAt).Milliseconds()),
	)

	return domain.SearchResponse{Results: enriched, Count: len(enriched)}, nil
}
