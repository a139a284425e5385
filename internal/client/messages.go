package client

import (
	"context"
	"net/http"

	"ditto-go/internal/shared"
)

// Messages posts an anthropic-style messages request.
func (c *Client) Messages(ctx context.Context, req shared.MessagesRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, shared.RouteMessages, req)
}

// CountTokens asks the gateway for the token estimate of a request
// without running it.
func (c *Client) CountTokens(ctx context.Context, req shared.MessagesRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, shared.RouteCountTokens, req)
}
