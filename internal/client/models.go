package client

import (
	"context"
	"net/http"

	"ditto-go/internal/shared"
)

func (c *Client) Models(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, shared.RouteModels, nil)
}
