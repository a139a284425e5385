package compat

import (
	"net/http"

	"ditto-go/internal/shared"

	"github.com/labstack/echo/v4"
)

func (m *CompatManager) ListModels(cc echo.Context) error {
	data := make([]shared.ModelInfo, len(m.Models))
	for i, id := range m.Models {
		data[i] = shared.ModelInfo{ID: id, Object: "model", Created: m.started.Unix(), OwnedBy: "ditto"}
	}
	return cc.JSON(http.StatusOK, shared.ModelList{Object: "list", Data: data})
}
