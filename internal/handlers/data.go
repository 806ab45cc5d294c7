package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/store"
)

// DataHandler exposes the collection-level maintenance operations of the
// database-manager dashboard.
type DataHandler struct {
	Store *store.Store
}

func (h *DataHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Stats())
}

func (h *DataHandler) Backup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "data.backup")

	file, err := h.Store.Backup()
	if err != nil {
		l.Error("backup failed", "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to create backup")
	}

	l.Info("backup created", "file", file)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "backup_file": file})
}
