// Package httpapi serves the board service to the desktop shell over
// loopback HTTP. Handlers are closures over injected dependencies;
// every route lives under /api except the health probe.
package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/internal/prefs"
	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/internal/reminder"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

// Deps carries everything the handlers close over.
type Deps struct {
	Store     types.Store
	Prefs     *prefs.Store
	Recovery  *recovery.Store
	Reminders *reminder.Scheduler
	Logger    *log.Logger
}

// New builds an echo engine with middleware and every route registered.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(requestLogger(deps.Logger))
	Register(e, deps)
	return e
}

// Register wires up all API routes on the provided echo instance.
func Register(e *echo.Echo, deps Deps) {
	store, logger := deps.Store, deps.Logger

	e.GET("/healthz", healthz())

	api := e.Group("/api")

	api.GET("/workspaces", listWorkspaces(store, logger))
	api.POST("/workspaces", createWorkspace(store, logger))
	api.PATCH("/workspaces/:id", updateWorkspace(store, logger))
	api.DELETE("/workspaces/:id", deleteWorkspace(store, logger))

	api.GET("/boards", listBoards(store, logger))
	api.POST("/boards", createBoard(store, logger))
	api.PATCH("/boards/:boardID", updateBoard(store, logger))
	api.POST("/boards/:boardID/rename", renameBoard(store, logger))
	api.DELETE("/boards/:boardID", deleteBoard(store, logger))

	api.GET("/boards/:boardID/columns", listColumns(store, logger))
	api.POST("/boards/:boardID/columns", createColumn(store, logger))
	api.PATCH("/boards/:boardID/columns/:id", updateColumn(store, logger))
	api.DELETE("/boards/:boardID/columns/:id", deleteColumn(store, logger))
	api.POST("/boards/:boardID/columns/:id/move", moveColumn(store, logger))

	api.GET("/boards/:boardID/cards", listCards(store, logger))
	api.GET("/boards/:boardID/cards/:cardID", getCard(store, logger))
	api.POST("/boards/:boardID/cards", createCard(store, deps.Reminders, logger))
	api.PATCH("/boards/:boardID/cards/:cardID", updateCard(store, deps.Reminders, logger))
	api.DELETE("/boards/:boardID/cards/:cardID", deleteCard(store, deps.Reminders, logger))
	api.POST("/boards/:boardID/cards/:cardID/move", moveCard(store, logger))
	api.PUT("/boards/:boardID/cards/:cardID/tags", setCardTags(store, logger))

	api.POST("/boards/:boardID/cards/:cardID/subtasks", createSubtask(store, logger))
	api.PATCH("/boards/:boardID/cards/:cardID/subtasks/:id", updateSubtask(store, logger))
	api.DELETE("/boards/:boardID/cards/:cardID/subtasks/:id", deleteSubtask(store, logger))

	api.GET("/boards/:boardID/tags", listTags(store, logger))
	api.POST("/boards/:boardID/tags", createTag(store, logger))
	api.PATCH("/boards/:boardID/tags/:id", updateTag(store, logger))
	api.DELETE("/boards/:boardID/tags/:id", deleteTag(store, logger))

	api.GET("/boards/:boardID/notes", listNotes(store, logger))
	api.POST("/boards/:boardID/notes", createNote(store, logger))
	api.PATCH("/boards/:boardID/notes/:id", updateNote(store, logger))
	api.POST("/boards/:boardID/notes/:id/archive", archiveNote(store, logger))
	api.DELETE("/boards/:boardID/notes/:id", deleteNote(store, logger))

	api.GET("/preferences", getPreferences(deps.Prefs, logger))
	api.PUT("/preferences", putPreferences(deps.Prefs, logger))

	api.GET("/recovery/:filename", loadRecovery(deps.Recovery, logger))
	api.PUT("/recovery/:filename", saveRecovery(deps.Recovery, logger))
	api.POST("/recovery/cleanup", cleanupRecovery(deps.Recovery, logger))

	api.GET("/dashboard/stats", dashboardStats(store, logger))
	api.GET("/dashboard/activity", dashboardActivity(store, logger))
	api.GET("/dashboard/favorites", dashboardFavorites(store, logger))
	api.GET("/dashboard/deadlines", dashboardDeadlines(store, logger))

	api.GET("/search", searchHandler(store, logger))

	api.GET("/storage/stats", storageStats(deps))
	api.POST("/storage/vacuum", vacuumStorage(store, logger))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// requestLogger emits one structured line per request.
func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.WithFields(log.Fields{
				"method":   c.Request().Method,
				"path":     c.Request().URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start).Round(time.Microsecond).String(),
			}).Info("request")
			return err
		}
	}
}
