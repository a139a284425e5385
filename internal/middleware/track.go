package middleware

import (
	"fmt"
	"net/http"
	"time"

	"ditto-go/internal/metrics"
	"ditto-go/internal/setup"
	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewTrackMiddleware assigns every request an id, echoes it back in the
// response header, and logs the outcome. An incoming x-request-id is
// honored so client and gateway logs line up.
func NewTrackMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(shared.HeaderRequestID)
			if reqID == "" {
				reqID = shared.NewGatewayRequestID()
			}
			logger := log.With(
				"request_id", reqID,
			)
			c.Response().Header().Set(shared.HeaderRequestID, reqID)

			cc := &setup.Context{Context: c, Log: logger, Reqid: reqID}
			start := time.Now()
			err := next(cc)
			duration := time.Since(start)
			cc.Log.Infow("end_of_request", "status_code", fmt.Sprintf("%d", cc.Response().Status), "duration", duration.String())
			metrics.ResponseCodes.WithLabelValues(cc.Path(), fmt.Sprintf("%d", cc.Response().Status)).Inc()
			return err
		}
	}
}

func NewRecoverMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return emw.RecoverWithConfig(emw.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			defer func() {
				_ = log.Sync()
			}()
			log.Errorw("Gateway Panic", "error", err.Error())
			return c.JSON(http.StatusInternalServerError, shared.NewInternalError("internal server error"))
		},
	})
}
