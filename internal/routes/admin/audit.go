package admin

import (
	"net/http"
	"strconv"

	"ditto-go/internal/setup"
	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
)

func (am *AdminManager) ListAudit(cc echo.Context) error {
	c := cc.(*setup.Context)

	if am.Audit == nil {
		return c.JSON(http.StatusNotFound, shared.NewAdminError("not_configured", "audit store not configured"))
	}

	limit := shared.DefaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, shared.NewAdminError("invalid_request", "limit must be a positive integer"))
		}
		limit = parsed
	}
	if limit > shared.MaxAuditLimit {
		limit = shared.MaxAuditLimit
	}

	var sinceMS int64
	if raw := c.QueryParam("since_ts_ms"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, shared.NewAdminError("invalid_request", "since_ts_ms must be a non-negative integer"))
		}
		sinceMS = parsed
	}

	records, err := am.Audit.List(c.Request().Context(), limit, sinceMS)
	if err != nil {
		c.Log.Errorw("failed to list audit records", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.NewAdminError("internal", "failed to list audit records"))
	}
	return c.JSON(http.StatusOK, records)
}

func (am *AdminManager) ListUsage(cc echo.Context) error {
	c := cc.(*setup.Context)

	if am.Usage == nil {
		return c.JSON(http.StatusOK, []shared.UsageStats{})
	}
	stats, err := am.Usage.All(c.Request().Context())
	if err != nil {
		c.Log.Errorw("failed to read usage ledger", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.NewAdminError("internal", "failed to read usage ledger"))
	}
	return c.JSON(http.StatusOK, stats)
}
