package compat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ditto-go/internal/setup"
	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
)

func (m *CompatManager) ChatCompletions(cc echo.Context) error {
	c := cc.(*setup.Context)
	start := time.Now()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("failed to read request body"))
	}
	var req shared.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError(fmt.Sprintf("invalid JSON: %s", err)))
	}
	if req.Model == "" {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("model is required"))
	}
	if req.Stream {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("streaming is not supported"))
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("messages is required"))
	}

	promptTokens := shared.EstimateTokens(body)
	completionTokens := uint64(len(strings.Fields(completionText)))

	resp := shared.ChatResponse{
		ID:      "chatcmpl_" + c.Reqid,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []shared.ChatChoice{{
			Index:        0,
			Message:      shared.ChatMessage{Role: "assistant", Content: completionText},
			FinishReason: "stop",
		}},
		Usage: &shared.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
	m.record(c, "chat", req.Model, promptTokens, completionTokens, start)
	return c.JSON(http.StatusOK, resp)
}
