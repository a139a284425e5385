package client

import (
	"context"
	"net/http"

	"ditto-go/internal/shared"
)

// ChatCompletion posts a non-streaming chat completion and returns the
// gateway's response body verbatim.
func (c *Client) ChatCompletion(ctx context.Context, req shared.ChatRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, shared.RouteChatCompletions, req)
}
