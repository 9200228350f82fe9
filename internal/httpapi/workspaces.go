package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func listWorkspaces(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		workspaces, err := store.ListWorkspaces(c.Request().Context())
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, workspaces)
	}
}

func createWorkspace(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateWorkspaceParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		workspace, err := store.CreateWorkspace(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusCreated, workspace)
	}
}

func updateWorkspace(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.WorkspacePatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		workspace, err := store.UpdateWorkspace(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, workspace)
	}
}

func deleteWorkspace(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteWorkspace(c.Request().Context(), c.Param("id")); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
