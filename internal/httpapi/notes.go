package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

type archiveNoteRequest struct {
	Archived bool `json:"archived"`
}

func listNotes(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		notes, err := store.ListNotes(c.Request().Context(), c.Param("boardID"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, notes)
	}
}

func createNote(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateNoteParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		params.BoardID = c.Param("boardID")
		note, err := store.CreateNote(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, note)
	}
}

func updateNote(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.NotePatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		note, err := store.UpdateNote(c.Request().Context(), c.Param("id"), c.Param("boardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, note)
	}
}

func archiveNote(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req archiveNoteRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, logger, err)
		}
		note, err := store.ArchiveNote(c.Request().Context(), c.Param("id"), c.Param("boardID"), req.Archived)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, note)
	}
}

func deleteNote(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteNote(c.Request().Context(), c.Param("id"), c.Param("boardID")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
