package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func dashboardStats(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := store.TaskStats(c.Request().Context())
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func dashboardActivity(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, err := queryInt(c, "limit")
		if err != nil {
			return fail(c, logger, err)
		}
		feed, err := store.RecentActivity(c.Request().Context(), limit)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, feed)
	}
}

func dashboardFavorites(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		favorites, err := store.FavoriteBoards(c.Request().Context())
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, favorites)
	}
}

func dashboardDeadlines(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		days, err := queryInt(c, "days")
		if err != nil {
			return fail(c, logger, err)
		}
		deadlines, err := store.UpcomingDeadlines(c.Request().Context(), days)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, deadlines)
	}
}
