package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apihttp "github.com/Noamcelermajer/TorTrack/internal/api/http"
	"github.com/Noamcelermajer/TorTrack/internal/app"
	"github.com/Noamcelermajer/TorTrack/internal/metrics"
	"github.com/Noamcelermajer/TorTrack/internal/pipeline"
	"github.com/Noamcelermajer/TorTrack/internal/providers/prowlarr"
	"github.com/Noamcelermajer/TorTrack/internal/providers/qbittorrent"
	"github.com/Noamcelermajer/TorTrack/internal/providers/tmdb"
	"github.com/Noamcelermajer/TorTrack/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "tortrack")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "tortrack"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Duration("requestTimeout", cfg.RequestTimeout),
		slog.String("prowlarrURL", cfg.ProwlarrURL),
		slog.Bool("hasProwlarrKey", cfg.ProwlarrAPIKey != ""),
		slog.Bool("hasTMDBKey", cfg.TMDBAPIKey != ""),
		slog.String("qbittorrentURL", cfg.QBittorrentURL),
		slog.Bool("hasRedis", strings.TrimSpace(cfg.RedisURL) != ""),
	)

	prowlarrHTTP := &http.Client{Timeout: cfg.RequestTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	indexer := prowlarr.NewClient(prowlarr.Config{
		BaseURL:   cfg.ProwlarrURL,
		APIKey:    cfg.ProwlarrAPIKey,
		UserAgent: cfg.UserAgent,
		Client:    prowlarrHTTP,
	})

	var metadataClient pipeline.MetadataClient
	if tmdbClient := buildTMDBClient(cfg, logger); tmdbClient != nil {
		metadataClient = tmdbClient
	}
	enricher := pipeline.NewEnricher(metadataClient, nil, logger)
	searchService := pipeline.NewService(indexer, enricher, logger)

	downloader := qbittorrent.NewClient(qbittorrent.Config{
		BaseURL:  cfg.QBittorrentURL,
		Username: cfg.QBittorrentUsername,
		Password: cfg.QBittorrentPassword,
		Client:   &http.Client{Timeout: 15 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	})

	handler := apihttp.NewServer(searchService,
		apihttp.WithLogger(logger),
		apihttp.WithDownloader(downloader),
		apihttp.WithRateLimit(float64(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
	).Handler()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("tortrack service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Duration("timeout", cfg.RequestTimeout),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("tortrack service stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildTMDBClient(cfg app.Config, logger *slog.Logger) *tmdb.Client {
	apiKey := strings.TrimSpace(cfg.TMDBAPIKey)
	if apiKey == "" {
		logger.Info("tmdb api key not configured, metadata enrichment disabled")
		return nil
	}

	var redisClient *redis.Client
	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("invalid redis url, tmdb cache disabled", slog.String("error", err.Error()))
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				logger.Warn("redis not reachable, tmdb cache disabled", slog.String("error", err.Error()))
				redisClient = nil
			} else {
				logger.Info("redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	client := tmdb.NewClient(tmdb.Config{
		APIKey:   apiKey,
		BaseURL:  cfg.TMDBBaseURL,
		Client:   &http.Client{Timeout: 10 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Redis:    redisClient,
		CacheTTL: cfg.TMDBCacheTTL,
	})
	logger.Info("tmdb client initialized", slog.Bool("enabled", client.Enabled()))
	return client
}
