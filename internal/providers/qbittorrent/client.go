package qbittorrent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Noamcelermajer/TorTrack/internal/metrics"
)

const defaultBaseURL = "http://localhost:8080"

type Config struct {
	BaseURL  string
	Username string
	Password string
	Client   *http.Client
}

// Client pushes magnets onto a qBittorrent download queue. Each enqueue is a
// full login, add, best-effort logout sequence; no session survives a call.
type Client struct {
	http     *http.Client
	baseURL  string
	username string
	password string
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Enqueue adds a magnet under the given category. The returned message is
// user-facing; ok is false for any failure along the way. Logout failures
// are swallowed.
func (c *Client) Enqueue(ctx context.Context, magnet, category, title string) (bool, string) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(magnet)), "magnet:?") {
		metrics.EnqueueTotal.WithLabelValues("invalid").Inc()
		return false, "not a magnet link"
	}

	sess, err := c.login(ctx)
	if err != nil {
		metrics.EnqueueTotal.WithLabelValues("login_failed").Inc()
		return false, fmt.Sprintf("download client login failed: %v", err)
	}
	defer c.logout(ctx, sess)

	form := url.Values{
		"urls":     {strings.TrimSpace(magnet)},
		"category": {sanitizeCategory(category)},
	}
	if err := c.post(ctx, sess, "/api/v2/torrents/add", form); err != nil {
		metrics.EnqueueTotal.WithLabelValues("error").Inc()
		return false, fmt.Sprintf("failed to queue download: %v", err)
	}

	metrics.EnqueueTotal.WithLabelValues("ok").Inc()
	message := "Download started"
	if strings.TrimSpace(title) != "" {
		message = fmt.Sprintf("Download started: %s", strings.TrimSpace(title))
	}
	return true, message
}

// session is a per-enqueue cookie scope.
type session struct {
	client *http.Client
}

func (c *Client) login(ctx context.Context) (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	scoped := &http.Client{
		Timeout:   c.http.Timeout,
		Transport: c.http.Transport,
		Jar:       jar,
	}
	s := &session{client: scoped}

	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}
	body, err := c.doPost(ctx, s, "/api/v2/auth/login", form)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(body), "ok.") {
		return nil, fmt.Errorf("credentials rejected")
	}
	return s, nil
}

func (c *Client) logout(ctx context.Context, s *session) {
	// Best effort: a failed logout only leaks a short-lived server session.
	_, _ = c.doPost(ctx, s, "/api/v2/auth/logout", url.Values{})
}

func (c *Client) post(ctx context.Context, s *session, path string, form url.Values) error {
	_, err := c.doPost(ctx, s, path, form)
	return err
}

func (c *Client) doPost(ctx context.Context, s *session, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.baseURL)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("qbittorrent HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return string(payload), nil
}

func sanitizeCategory(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "Unknown"
	}
	// qBittorrent treats "/" in category names as subcategory nesting.
	return strings.ReplaceAll(value, "/", "-")
}
