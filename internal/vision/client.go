package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SubscriptionKeyHeader carries the vision API key
const SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// Config holds the vision service connection settings
type Config struct {
	Endpoint   string // e.g. https://westeurope.api.cognitive.microsoft.com
	APIKey     string
	APIVersion string // e.g. v3.2
}

// Client requests object detection from the Computer Vision REST API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new vision client
func NewClient(cfg Config) *Client {
	return NewClientWithHTTPClient(cfg, &http.Client{})
}

// NewClientWithHTTPClient creates a new vision client with a custom HTTP client
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v3.2"
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

type detectRequest struct {
	URL string `json:"url"`
}

// DetectObjects asks the service to detect objects in the image at resourceURL
// and returns the raw JSON response
func (c *Client) DetectObjects(ctx context.Context, resourceURL string) (json.RawMessage, error) {
	body, err := json.Marshal(detectRequest{URL: resourceURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/vision/%s/detect", strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SubscriptionKeyHeader, c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return json.RawMessage(respBody), nil
}
