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

func (m *CompatManager) Messages(cc echo.Context) error {
	c := cc.(*setup.Context)
	start := time.Now()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "failed to read request body"))
	}
	var req shared.MessagesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", fmt.Sprintf("invalid JSON: %s", err)))
	}
	if req.Model == "" {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "model is required"))
	}
	if req.MaxTokens <= 0 {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "max_tokens is required"))
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "messages is required"))
	}

	inputTokens := shared.EstimateTokens(body)
	outputTokens := uint64(len(strings.Fields(completionText)))
	stopReason := "end_turn"

	resp := shared.MessagesResponse{
		ID:           "msg_" + c.Reqid,
		Type:         "message",
		Role:         "assistant",
		Model:        req.Model,
		Content:      []shared.ContentBlock{{Type: "text", Text: completionText}},
		StopReason:   &stopReason,
		StopSequence: nil,
		Usage:        shared.MessagesUsage{InputTokens: inputTokens, OutputTokens: outputTokens},
	}
	m.record(c, "messages", req.Model, inputTokens, outputTokens, start)
	return c.JSON(http.StatusOK, resp)
}

// CountTokens estimates without serving or billing a completion.
func (m *CompatManager) CountTokens(cc echo.Context) error {
	c := cc.(*setup.Context)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "failed to read request body"))
	}
	var req shared.MessagesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", fmt.Sprintf("invalid JSON: %s", err)))
	}
	if req.Model == "" {
		return c.JSON(http.StatusBadRequest, shared.NewAnthropicError("invalid_request_error", "model is required"))
	}

	return c.JSON(http.StatusOK, shared.CountTokensResponse{InputTokens: shared.EstimateTokens(body)})
}
