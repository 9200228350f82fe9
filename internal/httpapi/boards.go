package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

type renameBoardRequest struct {
	Title string `json:"title"`
}

func listBoards(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		boards, err := store.ListBoards(c.Request().Context(), c.QueryParam("workspaceId"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, boards)
	}
}

func createBoard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateBoardParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		board, err := store.CreateBoard(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, board)
	}
}

func updateBoard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.BoardPatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		board, err := store.UpdateBoard(c.Request().Context(), c.Param("boardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, board)
	}
}

func renameBoard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req renameBoardRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, logger, err)
		}
		board, err := store.RenameBoard(c.Request().Context(), c.Param("boardID"), req.Title)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, board)
	}
}

func deleteBoard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteBoard(c.Request().Context(), c.Param("boardID")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
