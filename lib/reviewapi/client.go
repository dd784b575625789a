// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package reviewapi is the HTTP client for the review service. It
// speaks the toggle contract the UI depends on: each toggle call flips
// one server-side flag and returns the flag's new value, which the
// caller trusts as ground truth.
package reviewapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the review service address (e.g. "http://localhost:5000").
	BaseURL string
	// HTTPClient is used for all requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// Logger is used for structured logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Client talks to the review service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and returns a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("reviewapi: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("reviewapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// APIError is a non-2xx response from the review service. The message
// comes from the service's {"error": ...} body when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("reviewapi: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("reviewapi: HTTP %d: %s", e.StatusCode, e.Message)
}

// ToggleAudit flips the audited flag for a pair and returns its new
// value. The service clears the irrelevant flag as a side effect.
func (c *Client) ToggleAudit(ctx context.Context, pairID int64) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/toggle_audit/%d", pairID), nil)
	if err != nil {
		return false, fmt.Errorf("reviewapi: toggling audit for pair %d: %w", pairID, err)
	}
	var response struct {
		IsAudited bool `json:"is_audited"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("reviewapi: parsing toggle_audit response: %w", err)
	}
	return response.IsAudited, nil
}

// ToggleIrrelevant flips the irrelevant flag for a pair and returns
// its new value. The service clears the audited flag as a side effect.
func (c *Client) ToggleIrrelevant(ctx context.Context, pairID int64) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/toggle_irrelevant/%d", pairID), nil)
	if err != nil {
		return false, fmt.Errorf("reviewapi: toggling irrelevant for pair %d: %w", pairID, err)
	}
	var response struct {
		IsIrrelevant bool `json:"is_irrelevant"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("reviewapi: parsing toggle_irrelevant response: %w", err)
	}
	return response.IsIrrelevant, nil
}

// UpdateAnswer replaces a pair's answer text. The service marks the
// pair audited.
func (c *Client) UpdateAnswer(ctx context.Context, pairID int64, answer string) error {
	request := map[string]string{"answer": answer}
	_, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/update_answer/%d", pairID), request)
	if err != nil {
		return fmt.Errorf("reviewapi: updating answer for pair %d: %w", pairID, err)
	}
	return nil
}

// StatsResponse is the aggregate count payload from /api/stats.
type StatsResponse struct {
	TotalPairs      int            `json:"total_pairs"`
	AuditedCount    int            `json:"audited_count"`
	IrrelevantCount int            `json:"irrelevant_count"`
	ByDirection     map[string]int `json:"by_direction"`
	BySource        map[string]int `json:"by_source"`
}

// Stats fetches the aggregate counters.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("reviewapi: fetching stats: %w", err)
	}
	var response StatsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("reviewapi: parsing stats response: %w", err)
	}
	return &response, nil
}

// Ping checks that the service is reachable and healthy.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil); err != nil {
		return fmt.Errorf("reviewapi: health check: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request and returns the response body.
// On 2xx, returns the body. On anything else, returns an *APIError
// carrying the status code and the service's error message.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// Error responses carry {"error": "..."}; fall back to the raw
	// body for anything else.
	var errorBody struct {
		Error string `json:"error"`
	}
	message := strings.TrimSpace(string(responseBody))
	if json.Unmarshal(responseBody, &errorBody) == nil && errorBody.Error != "" {
		message = errorBody.Error
	}
	return nil, &APIError{StatusCode: response.StatusCode, Message: message}
}
