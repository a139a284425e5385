package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ditto-go/internal/setup"
	"ditto-go/internal/shared"
	"ditto-go/internal/vkeys"

	"github.com/labstack/echo/v4"
)

func (am *AdminManager) ListKeys(cc echo.Context) error {
	c := cc.(*setup.Context)

	includeTokens := c.QueryParam("include_tokens") == "true"
	idPrefix := c.QueryParam("id_prefix")
	var enabled *bool
	switch c.QueryParam("enabled") {
	case "":
	case "true":
		v := true
		enabled = &v
	case "false":
		v := false
		enabled = &v
	default:
		return c.JSON(http.StatusBadRequest, shared.NewAdminError("invalid_request", "enabled must be true or false"))
	}

	keys := am.Keys.List()
	out := make([]shared.VirtualKey, 0, len(keys))
	for _, key := range keys {
		if enabled != nil && key.Enabled != *enabled {
			continue
		}
		if idPrefix != "" && !strings.HasPrefix(key.ID, idPrefix) {
			continue
		}
		if !includeTokens {
			key.Token = "redacted"
		}
		out = append(out, key)
	}
	return c.JSON(http.StatusOK, out)
}

// UpsertKey creates or replaces a key by id. Missing id or token are
// generated so one call can mint a ready-to-use credential.
func (am *AdminManager) UpsertKey(cc echo.Context) error {
	c := cc.(*setup.Context)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAdminError("invalid_request", "failed to read request body"))
	}
	var req struct {
		ID      string        `json:"id"`
		Token   string        `json:"token"`
		Enabled *bool         `json:"enabled"`
		Limits  shared.Limits `json:"limits"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, shared.NewAdminError("invalid_request", fmt.Sprintf("invalid JSON: %s", err)))
	}

	key := shared.VirtualKey{
		ID:      req.ID,
		Token:   req.Token,
		Enabled: true,
		Limits:  req.Limits,
	}
	if req.Enabled != nil {
		key.Enabled = *req.Enabled
	}
	if key.ID == "" {
		key.ID = vkeys.NewKeyID()
	}
	if key.Token == "" {
		token, err := vkeys.NewKeyToken()
		if err != nil {
			c.Log.Errorw("failed to generate key token", "error", err)
			return c.JSON(http.StatusInternalServerError, shared.NewAdminError("internal", "failed to generate key token"))
		}
		key.Token = token
	}

	inserted := am.Keys.Upsert(key)
	am.appendAudit(c, "admin.key.upsert", map[string]any{
		"key_id":   key.ID,
		"enabled":  key.Enabled,
		"inserted": inserted,
	})

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	return c.JSON(status, key)
}

func (am *AdminManager) DeleteKey(cc echo.Context) error {
	c := cc.(*setup.Context)

	id := c.Param("id")
	if !am.Keys.Remove(id) {
		return c.JSON(http.StatusNotFound, shared.NewAdminError("not_found", "virtual key not found"))
	}
	am.appendAudit(c, "admin.key.delete", map[string]any{"key_id": id})
	return c.NoContent(http.StatusNoContent)
}
