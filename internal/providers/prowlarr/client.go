package prowlarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
	"github.com/Noamcelermajer/TorTrack/internal/metrics"
)

const (
	defaultBaseURL   = "http://localhost:9696"
	defaultUserAgent = "tortrack/1.0"
	maxResponseBytes = 8 * 1024 * 1024
)

// categoryIDs maps the coarse UI category selector to Torznab category
// roots sent to Prowlarr.
var categoryIDs = map[string]string{
	"movies": "2000",
	"tv":     "5000",
}

type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Client    *http.Client
}

// Client queries a Prowlarr instance's aggregated search endpoint and maps
// releases into raw candidates for the pipeline.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	userAgent string
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		userAgent: userAgent,
	}
}

// Search runs one aggregated query. The category filter is optional; an
// unrecognized label searches all categories.
func (c *Client) Search(ctx context.Context, query, category string) ([]domain.RawCandidate, error) {
	uri, err := url.Parse(c.baseURL + "/api/v1/search")
	if err != nil {
		return nil, fmt.Errorf("invalid prowlarr url: %w", err)
	}
	params := uri.Query()
	params.Set("query", strings.TrimSpace(query))
	params.Set("type", "search")
	if ids, ok := categoryIDs[normalizeCategory(category)]; ok {
		params.Set("categories", ids)
	}
	uri.RawQuery = params.Encode()

	startedAt := time.Now()
	var candidates []domain.RawCandidate
	err = retryWithBackoff(ctx, func() error {
		var fetchErr error
		candidates, fetchErr = c.fetch(ctx, uri.String())
		return fetchErr
	})
	metrics.IndexerRequestDuration.Observe(time.Since(startedAt).Seconds())
	if err != nil {
		metrics.IndexerRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.IndexerRequestsTotal.WithLabelValues("ok").Inc()
	return candidates, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]domain.RawCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("prowlarr HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	var candidates []domain.RawCandidate
	if err := json.Unmarshal(payload, &candidates); err != nil {
		return nil, fmt.Errorf("unexpected prowlarr payload: %w", err)
	}
	return candidates, nil
}

func normalizeCategory(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	// Subtype labels such as "Movies/HD" still select the category root.
	if idx := strings.IndexByte(value, '/'); idx > 0 {
		value = value[:idx]
	}
	return value
}
