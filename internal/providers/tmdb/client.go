package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Noamcelermajer/TorTrack/internal/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"
	redisKeyPrefix = "tortrack:tmdb:"
)

type Config struct {
	APIKey   string
	BaseURL  string
	Client   *http.Client
	Redis    *redis.Client
	CacheTTL time.Duration
}

// Client looks up descriptive metadata from TMDb. Responses are optionally
// cached in Redis across requests; the client itself is stateless.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	redis    *redis.Client
	cacheTTL time.Duration
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Overview     string `json:"overview,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 7 * 24 * time.Hour
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		redis:    cfg.Redis,
		cacheTTL: cacheTTL,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SearchMetadata returns the top-ranked match for a cleaned title, or nil
// when nothing matches. contentType selects the TMDb search index ("tv" or
// "movie"); year 0 means no hint.
func (c *Client) SearchMetadata(ctx context.Context, title, contentType string, year int) (*domain.Metadata, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if contentType != "tv" {
		contentType = "movie"
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%d", redisKeyPrefix, contentType, strings.ToLower(strings.TrimSpace(title)), year)
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	params := url.Values{
		"api_key": {c.apiKey},
		"query":   {strings.TrimSpace(title)},
	}
	if year > 0 {
		if contentType == "tv" {
			params.Set("first_air_date_year", strconv.Itoa(year))
		} else {
			params.Set("year", strconv.Itoa(year))
		}
	}

	reqURL := c.baseURL + "/search/" + contentType + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tmdb HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}
	var parsed searchResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Results) == 0 {
		c.cacheSet(ctx, cacheKey, nil)
		return nil, nil
	}

	meta := toMetadata(parsed.Results[0])
	c.cacheSet(ctx, cacheKey, &meta)
	return &meta, nil
}

func toMetadata(result searchResult) domain.Metadata {
	title := result.Title
	if title == "" {
		title = result.Name
	}
	date := result.ReleaseDate
	if date == "" {
		date = result.FirstAirDate
	}
	year := ""
	if len(date) >= 4 {
		year = date[:4]
	}
	poster := ""
	if result.PosterPath != "" {
		poster = posterBaseURL + result.PosterPath
	}
	return domain.Metadata{
		Title:    title,
		Year:     year,
		Overview: result.Overview,
		Poster:   poster,
		TMDBID:   result.ID,
	}
}

// cachedLookup distinguishes a cached miss from an absent cache entry.
type cachedLookup struct {
	Found bool             `json:"found"`
	Meta  *domain.Metadata `json:"meta,omitempty"`
}

func (c *Client) cacheGet(ctx context.Context, key string) (*domain.Metadata, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var entry cachedLookup
	if json.Unmarshal(data, &entry) != nil {
		return nil, false
	}
	if !entry.Found {
		return nil, true
	}
	return entry.Meta, true
}

func (c *Client) cacheSet(ctx context.Context, key string, meta *domain.Metadata) {
	if c.redis == nil {
		return
	}
	entry := cachedLookup{Found: meta != nil, Meta: meta}
	if data, err := json.Marshal(entry); err == nil {
		_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
	}
}
