// Package gmail is a thin REST client for the Gmail API, covering the
// label, read, send and reply operations the assistant exposes.
package gmail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// TokenService is the key under which the Google OAuth token is stored.
const TokenService = "google"

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// New wraps an OAuth-authenticated HTTP client.
func New(httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// NewWithBaseURL overrides the API endpoint, for tests.
func NewWithBaseURL(httpClient *http.Client, baseURL string, logger *zap.Logger) *Client {
	c := New(httpClient, logger)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gmail api returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gmail response: %w", err)
	}
	return nil
}
