// Package routers
package routers

import (
	"ditto-go/internal/audit"
	"ditto-go/internal/limits"
	"ditto-go/internal/middleware"
	adminRoute "ditto-go/internal/routes/admin"
	"ditto-go/internal/routes/compat"
	"ditto-go/internal/usage"
	"ditto-go/internal/vkeys"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CompatConfig struct {
	Keys    *vkeys.Store
	Limiter *limits.RateLimiter
	Audit   *audit.Store
	Usage   usage.Ledger
	Models  []string
	Log     *zap.SugaredLogger
}

// RegisterCompatRoutes mounts the health probe and the key guarded v1
// surface.
func RegisterCompatRoutes(e *echo.Group, config CompatConfig) error {
	compatManager := compat.NewCompatManager(config.Audit, config.Usage, config.Models, config.Log)
	kmw := middleware.NewKeyAuth(config.Keys, config.Limiter)

	e.GET("/health", compatManager.Health)

	v1 := e.Group("v1", kmw.RequireKey)
	v1.POST("/chat/completions", compatManager.ChatCompletions)
	v1.POST("/embeddings", compatManager.Embeddings)
	v1.GET("/models", compatManager.ListModels)
	v1.POST("/messages", compatManager.Messages)
	v1.POST("/messages/count_tokens", compatManager.CountTokens)

	return nil
}

type AdminConfig struct {
	Keys   *vkeys.Store
	Audit  *audit.Store
	Usage  usage.Ledger
	Tokens []string
	Log    *zap.SugaredLogger
}

// RegisterAdminRoutes mounts key management, the audit log, and the
// usage ledger behind admin token auth.
func RegisterAdminRoutes(e *echo.Group, config AdminConfig) error {
	adminManager := adminRoute.NewAdminManager(config.Keys, config.Audit, config.Usage, config.Log)

	requireAdmin := e.Group("admin", middleware.NewAdminAuth(config.Tokens))

	requireAdmin.GET("/keys", adminManager.ListKeys)
	requireAdmin.POST("/keys", adminManager.UpsertKey)
	requireAdmin.DELETE("/keys/:id", adminManager.DeleteKey)
	requireAdmin.GET("/audit", adminManager.ListAudit)
	requireAdmin.GET("/usage", adminManager.ListUsage)

	return nil
}
