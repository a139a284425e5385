// Package setup server
package setup

import (
	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Context struct {
	echo.Context
	Log   *zap.SugaredLogger
	Reqid string
	Key   *shared.VirtualKey
}
