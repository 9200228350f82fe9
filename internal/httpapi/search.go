package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func searchHandler(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		results, err := store.Search(c.Request().Context(), c.QueryParam("q"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, results)
	}
}
