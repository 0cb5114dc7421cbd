package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of an error response ends up in APIError.Message
const maxErrorBody = 512

// Config configures the content API client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	RateLimit int // requests per second, 0 disables throttling
}

// Client talks to the episode REST API
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a new content API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "PodcastrPages/1.0"
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return c
}

// BaseURL returns the API root the client sends requests to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get makes a GET request to the content API and returns the raw body
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	fullURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, NewAPIError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// ListEpisodes fetches episode summaries, e.g. the most recent ones
func (c *Client) ListEpisodes(ctx context.Context, params ListParams) ([]EpisodeSummary, error) {
	data, err := c.Get(ctx, "/episodes", params.query())
	if err != nil {
		return nil, err
	}

	var episodes []EpisodeSummary
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("decoding episode list: %w", err)
	}

	return episodes, nil
}

// GetEpisode fetches a single episode record by id
func (c *Client) GetEpisode(ctx context.Context, id string) (*EpisodeRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("episode id is required")
	}

	data, err := c.Get(ctx, "/episodes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var record EpisodeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding episode %s: %w", id, err)
	}

	return &record, nil
}
