package compat

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"ditto-go/internal/setup"
	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
)

func (m *CompatManager) Embeddings(cc echo.Context) error {
	c := cc.(*setup.Context)
	start := time.Now()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("failed to read request body"))
	}
	var req shared.EmbeddingsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError(fmt.Sprintf("invalid JSON: %s", err)))
	}
	if req.Model == "" {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("model is required"))
	}
	if len(req.Input) == 0 {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("input is required"))
	}

	data := make([]shared.Embedding, len(req.Input))
	var promptTokens uint64
	for i, input := range req.Input {
		data[i] = shared.Embedding{Object: "embedding", Index: i, Embedding: embeddingVector(input)}
		promptTokens += shared.EstimateTokens([]byte(input))
	}

	resp := shared.EmbeddingsResponse{
		Object: "list",
		Data:   data,
		Model:  req.Model,
		Usage:  shared.EmbeddingsUsage{PromptTokens: promptTokens, TotalTokens: promptTokens},
	}
	m.record(c, "embeddings", req.Model, promptTokens, 0, start)
	return c.JSON(http.StatusOK, resp)
}

// embeddingVector derives a deterministic 8-dim vector from the input so
// the same text always embeds the same way.
func embeddingVector(input string) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(input))
	state := h.Sum64()

	vec := make([]float64, 8)
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float64(int8(state>>56)) / 128
	}
	return vec
}
