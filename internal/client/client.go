// Package client implements the HTTP client for a ditto gateway. Calls
// are synchronous, carry no timeout of their own, and return the raw
// response body so callers can pass it through untouched.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ditto-go/internal/shared"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    shared.NormalizeBaseURL(baseURL),
		Token:      token,
		HTTPClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, route string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+route, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(shared.HeaderContentType, "application/json")
	if c.Token != "" {
		req.Header.Set(shared.HeaderAuthorization, "Bearer "+c.Token)
	}
	req.Header.Set(shared.HeaderRequestID, shared.NewRequestID(shared.RequestIDPrefix))

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &shared.StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

// Health checks the gateway health route. No credential is required.
func (c *Client) Health(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, shared.RouteHealth, nil)
}
