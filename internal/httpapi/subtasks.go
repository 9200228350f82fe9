package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func createSubtask(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateSubtaskParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		params.BoardID = c.Param("boardID")
		params.CardID = c.Param("cardID")
		subtask, err := store.CreateSubtask(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, subtask)
	}
}

func updateSubtask(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.SubtaskPatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		subtask, err := store.UpdateSubtask(c.Request().Context(), c.Param("id"), c.Param("cardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, subtask)
	}
}

func deleteSubtask(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteSubtask(c.Request().Context(), c.Param("id"), c.Param("cardID")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
