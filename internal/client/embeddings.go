package client

import (
	"context"
	"net/http"

	"ditto-go/internal/shared"
)

func (c *Client) Embeddings(ctx context.Context, req shared.EmbeddingsRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, shared.RouteEmbeddings, req)
}
