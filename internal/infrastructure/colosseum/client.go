// Package colosseum is a thin client for the public contest platform used to
// publish project metadata and forum posts about the swarm. Nothing in the
// coordination core depends on it.
package colosseum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

const defaultBaseURL = "https://agents.colosseum.com/api"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *logger.Logger
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        cfg.Logger,
	}
}

type ForumPost struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

func (c *Client) GetStatus(ctx context.Context) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, "/agents/status", nil)
}

func (c *Client) CreateProject(ctx context.Context, project map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, "/my-project", project)
}

func (c *Client) UpdateProject(ctx context.Context, project map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPut, "/my-project", project)
}

func (c *Client) SubmitProject(ctx context.Context) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, "/my-project/submit", nil)
}

func (c *Client) CreateForumPost(ctx context.Context, post ForumPost) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, "/forum/posts", post)
}

func (c *Client) GetForumPosts(ctx context.Context, params map[string]string) (map[string]any, error) {
	endpoint := "/forum/posts"
	if len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		endpoint += "?" + query.Encode()
	}
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.log != nil {
			c.log.Warnw("colosseum_request_failed", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		}
		return nil, fmt.Errorf("colosseum api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var result map[string]any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return result, nil
}
