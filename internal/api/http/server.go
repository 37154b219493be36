package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
	"github.com/Noamcelermajer/TorTrack/internal/pipeline"
)

const maxQueryLength = 500

type SearchService interface {
	Search(ctx context.Context, query string, filters domain.FilterSpec) (domain.SearchResponse, error)
}

// Downloader forwards an accepted magnet to the download client. The boolean
// reports acceptance; message is relayed to the caller either way.
type Downloader interface {
	Enqueue(ctx context.Context, magnet, category, title string) (bool, string)
}

type Server struct {
	search     SearchService
	downloader Downloader
	logger     *slog.Logger
	rps        float64
	burst      int
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithDownloader(downloader Downloader) ServerOption {
	return func(s *Server) {
		s.downloader = downloader
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		s.rps = rps
		s.burst = burst
	}
}

func NewServer(searchService SearchService, options ...ServerOption) *Server {
	server := &Server{
		search: searchService,
		logger: slog.Default(),
		rps:    10,
		burst:  20,
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/download", s.handleDownload)
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "tortrack",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/api/health"
		}),
	)
	return recoveryMiddleware(s.logger, rateLimitMiddleware(s.rps, s.burst, metricsMiddleware(traced)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/search" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	var request domain.SearchRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := strings.TrimSpace(request.Query)
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query too long (max 500 characters)")
		return
	}

	response, err := s.search.Search(r.Context(), query, request.Filters)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search request failed",
			slog.String("query", truncate(query, 80)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/download" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.downloader == nil {
		writeError(w, http.StatusInternalServerError, "download client is not configured")
		return
	}

	var request domain.DownloadRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(request.Magnet) == "" {
		writeError(w, http.StatusBadRequest, "no magnet link provided")
		return
	}

	ok, message := s.downloader.Enqueue(r.Context(), request.Magnet, request.Category, request.Title)
	if !ok {
		s.logger.Warn("download enqueue rejected",
			slog.String("title", truncate(request.Title, 80)),
			slog.String("message", message),
		)
	}
	writeJSON(w, http.StatusOK, domain.DownloadResponse{Success: ok, Message: message})
}

func decodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
