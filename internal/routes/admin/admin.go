// Package admin includes the gateway administration routes.
package admin

import (
	"go.uber.org/zap"

	"ditto-go/internal/audit"
	"ditto-go/internal/setup"
	"ditto-go/internal/usage"
	"ditto-go/internal/vkeys"
)

type AdminManager struct {
	Keys  *vkeys.Store
	Audit *audit.Store
	Usage usage.Ledger
	Log   *zap.SugaredLogger
}

func NewAdminManager(keys *vkeys.Store, auditStore *audit.Store, ledger usage.Ledger, log *zap.SugaredLogger) *AdminManager {
	return &AdminManager{Keys: keys, Audit: auditStore, Usage: ledger, Log: log}
}

// appendAudit records admin actions when a store is wired; failures are
// logged, not surfaced, so they never fail the action itself.
func (am *AdminManager) appendAudit(c *setup.Context, kind string, payload map[string]any) {
	if am.Audit == nil {
		return
	}
	if err := am.Audit.Append(c.Request().Context(), kind, payload); err != nil {
		c.Log.Errorw("failed to append audit record", "error", err, "kind", kind)
	}
}
