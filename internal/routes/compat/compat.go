// Package compat includes the OpenAI and anthropic compatible routes the
// mock gateway serves.
package compat

import (
	"net/http"
	"time"

	"ditto-go/internal/audit"
	"ditto-go/internal/metrics"
	"ditto-go/internal/setup"
	"ditto-go/internal/shared"
	"ditto-go/internal/usage"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// completionText is the canned assistant reply, identical on every
// request.
const completionText = "Hello! How can I help you today?"

type CompatManager struct {
	Audit  *audit.Store
	Usage  usage.Ledger
	Models []string
	Log    *zap.SugaredLogger

	started time.Time
}

func NewCompatManager(auditStore *audit.Store, ledger usage.Ledger, models []string, log *zap.SugaredLogger) *CompatManager {
	if len(models) == 0 {
		models = shared.DefaultModelIDs
	}
	return &CompatManager{
		Audit:   auditStore,
		Usage:   ledger,
		Models:  models,
		Log:     log,
		started: time.Now(),
	}
}

func (m *CompatManager) keyID(c *setup.Context) string {
	if c.Key != nil {
		return c.Key.ID
	}
	return "anonymous"
}

// record books usage, metrics, and the audit trail for one served
// request.
func (m *CompatManager) record(c *setup.Context, endpoint, model string, promptTokens, completionTokens uint64, start time.Time) {
	metrics.RequestCount.WithLabelValues(model, endpoint, "200").Inc()
	metrics.PromptTokens.WithLabelValues(model, endpoint).Add(float64(promptTokens))
	metrics.CompletionTokens.WithLabelValues(model, endpoint).Add(float64(completionTokens))
	metrics.RequestDuration.WithLabelValues(model, endpoint).Observe(time.Since(start).Seconds())

	keyID := m.keyID(c)
	if m.Usage != nil {
		if err := m.Usage.Record(c.Request().Context(), keyID, promptTokens, completionTokens); err != nil {
			c.Log.Errorw("failed to record usage", "error", err)
		}
	}
	if m.Audit != nil {
		payload := map[string]any{
			"request_id":        c.Reqid,
			"endpoint":          endpoint,
			"model":             model,
			"key_id":            keyID,
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
		}
		if err := m.Audit.Append(c.Request().Context(), "proxy.request", payload); err != nil {
			c.Log.Errorw("failed to append audit record", "error", err)
		}
	}
}

func (m *CompatManager) Health(cc echo.Context) error {
	return cc.JSON(http.StatusOK, shared.HealthResponse{Status: "ok"})
}
