package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func listTags(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := store.ListTags(c.Request().Context(), c.Param("boardID"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, tags)
	}
}

func createTag(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateTagParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		params.BoardID = c.Param("boardID")
		tag, err := store.CreateTag(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, tag)
	}
}

func updateTag(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.TagPatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		tag, err := store.UpdateTag(c.Request().Context(), c.Param("id"), c.Param("boardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, tag)
	}
}

func deleteTag(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteTag(c.Request().Context(), c.Param("id"), c.Param("boardID")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
