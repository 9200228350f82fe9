package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/internal/stats"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

func storageStats(deps Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		st, err := stats.Collect(deps.Store.DatabasePath(), deps.Prefs.Path(), deps.Recovery)
		if err != nil {
			return fail(c, deps.Logger, err)
		}
		return c.JSON(http.StatusOK, st)
	}
}

func vacuumStorage(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Vacuum(c.Request().Context()); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
