package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	UserAgent      string

	ProwlarrURL    string
	ProwlarrAPIKey string

	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBCacheTTL time.Duration

	QBittorrentURL      string
	QBittorrentUsername string
	QBittorrentPassword string

	RedisURL string

	RateLimitPerSecond int
	RateLimitBurst     int
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":5000"),
		RequestTimeout: time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:      getEnv("SEARCH_USER_AGENT", "tortrack/1.0"),

		ProwlarrURL:    getEnv("PROWLARR_URL", "http://localhost:9696"),
		ProwlarrAPIKey: strings.TrimSpace(os.Getenv("PROWLARR_API_KEY")),

		TMDBAPIKey:   strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		TMDBBaseURL:  getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBCacheTTL: time.Duration(getEnvInt("TMDB_CACHE_TTL_DAYS", 7)) * 24 * time.Hour,

		QBittorrentURL:      getEnv("QBITTORRENT_URL", "http://localhost:8080"),
		QBittorrentUsername: getEnv("QBITTORRENT_USERNAME", "admin"),
		QBittorrentPassword: strings.TrimSpace(os.Getenv("QBITTORRENT_PASSWORD")),

		RedisURL: getEnv("REDIS_URL", ""),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
