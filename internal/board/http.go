package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient implements Client against the tracker's REST API
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds configuration for the HTTP board client
type Config struct {
	// BaseURL is the tracker API root
	BaseURL string

	// Token is the bearer token for the tracker
	Token string
}

// NewHTTPClient creates a board client for the tracker's REST API
func NewHTTPClient(cfg *Config) (*HTTPClient, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("board base URL is required")
	}

	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ListIssues returns candidate issues for a board
func (c *HTTPClient) ListIssues(ctx context.Context, boardID string) ([]Issue, error) {
	if boardID == "" {
		return nil, fmt.Errorf("board ID is required")
	}

	endpoint := fmt.Sprintf("%s/boards/%s/issues", c.baseURL, url.PathEscape(boardID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list issues: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("unmarshal issues: %w", err)
	}

	return issues, nil
}

// SetStoryPoints writes a final point value back to an issue
func (c *HTTPClient) SetStoryPoints(ctx context.Context, issueKey string, points int) error {
	if issueKey == "" {
		return fmt.Errorf("issue key is required")
	}

	body, err := json.Marshal(map[string]int{"points": points})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/issues/%s/points", c.baseURL, url.PathEscape(issueKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("set story points: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("set story points: unexpected status %d", resp.StatusCode)
	}

	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
