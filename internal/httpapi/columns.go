package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

type moveColumnRequest struct {
	TargetIndex int `json:"targetIndex"`
}

func listColumns(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		columns, err := store.ListColumns(c.Request().Context(), c.Param("boardID"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, columns)
	}
}

func createColumn(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateColumnParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		params.BoardID = c.Param("boardID")
		column, err := store.CreateColumn(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, column)
	}
}

func updateColumn(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.ColumnPatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		column, err := store.UpdateColumn(c.Request().Context(), c.Param("id"), c.Param("boardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, column)
	}
}

func deleteColumn(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteColumn(c.Request().Context(), c.Param("id"), c.Param("boardID")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func moveColumn(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveColumnRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, logger, err)
		}
		err := store.MoveColumn(c.Request().Context(), c.Param("id"), c.Param("boardID"), req.TargetIndex)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
