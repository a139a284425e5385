// Package middleware defines route based authentication and tracking
package middleware

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"ditto-go/internal/limits"
	"ditto-go/internal/metrics"
	"ditto-go/internal/setup"
	"ditto-go/internal/shared"
	"ditto-go/internal/vkeys"

	"github.com/labstack/echo/v4"
)

type KeyAuth struct {
	Keys    *vkeys.Store
	Limiter *limits.RateLimiter
}

func NewKeyAuth(keys *vkeys.Store, limiter *limits.RateLimiter) *KeyAuth {
	return &KeyAuth{Keys: keys, Limiter: limiter}
}

// RequireKey resolves the caller's virtual key and charges its rate
// limits before the handler runs. With no keys configured, auth is off
// and everything passes through anonymously.
func (a *KeyAuth) RequireKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(cc echo.Context) error {
		c := cc.(*setup.Context)
		c.Key = nil
		if !a.Keys.Enforced() {
			return next(c)
		}

		token, ok := shared.ExtractVirtualKey(c)
		if !ok {
			metrics.AuthFailureCount.WithLabelValues("missing").Inc()
			return c.JSON(http.StatusUnauthorized, shared.NewAuthError("missing virtual key"))
		}
		key, ok := a.Keys.Lookup(token)
		if !ok {
			metrics.AuthFailureCount.WithLabelValues("unknown").Inc()
			return c.JSON(http.StatusUnauthorized, shared.NewAuthError("unauthorized virtual key"))
		}
		if !key.Enabled {
			metrics.AuthFailureCount.WithLabelValues("disabled").Inc()
			return c.JSON(http.StatusUnauthorized, shared.NewAuthError("virtual key disabled"))
		}

		if a.Limiter != nil && (key.Limits.RPM > 0 || key.Limits.TPM > 0) {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, shared.NewInvalidRequestError("failed to read request body"))
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			estimate := shared.EstimateTokens(body)
			charge := uint32(math.MaxUint32)
			if estimate < math.MaxUint32 {
				charge = uint32(estimate)
			}
			if err := a.Limiter.Allow(key.ID, key.Limits, charge, time.Now()); err != nil {
				var limitErr *shared.LimitError
				if errors.As(err, &limitErr) {
					metrics.RateLimitedCount.WithLabelValues(key.ID, limitErr.Kind).Inc()
				}
				return c.JSON(http.StatusTooManyRequests, shared.NewRateLimitError(err.Error()))
			}
		}

		c.Key = &key
		c.Log = c.Log.With("key_id", key.ID)
		return next(c)
	}
}

// NewAdminAuth guards the admin group. With no admin tokens configured
// the surface answers 404 so it stays invisible; a missing token is
// treated the same as a wrong one.
func NewAdminAuth(tokens []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		allowed[token] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(cc echo.Context) error {
			c := cc.(*setup.Context)
			if len(allowed) == 0 {
				return c.JSON(http.StatusNotFound, shared.NewAdminError("not_configured", "admin auth not configured"))
			}
			token, _ := shared.ExtractAdminToken(c)
			if !allowed[token] {
				return c.JSON(http.StatusUnauthorized, shared.NewAdminError("unauthorized", "invalid admin token"))
			}
			return next(c)
		}
	}
}
