package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/internal/prefs"
	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

type cleanupResponse struct {
	Removed int `json:"removed"`
}

func getPreferences(store *prefs.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		preferences, err := store.Load()
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, preferences)
	}
}

func putPreferences(store *prefs.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var preferences types.Preferences
		if err := decodeBody(c, &preferences); err != nil {
			return fail(c, logger, err)
		}
		if err := store.Save(preferences); err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, preferences)
	}
}

func saveRecovery(store *recovery.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := io.ReadAll(io.LimitReader(c.Request().Body, recovery.MaxPayloadBytes+1))
		if err != nil {
			return fail(c, logger, fmt.Errorf("reading request body: %w", err))
		}
		if len(raw) > recovery.MaxPayloadBytes {
			return fail(c, logger, fmt.Errorf("%d bytes: %w", len(raw), types.ErrPayloadTooLarge))
		}

		var payload any
		if err := sonic.ConfigStd.Unmarshal(raw, &payload); err != nil {
			return fail(c, logger, fmt.Errorf("%w: decoding body: %v", errBadRequest, err))
		}

		if err := store.Save(c.Param("filename"), payload); err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func loadRecovery(store *recovery.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := store.Load(c.Param("filename"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSONBlob(http.StatusOK, raw)
	}
}

func cleanupRecovery(store *recovery.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		days, err := queryInt(c, "days")
		if err != nil {
			return fail(c, logger, err)
		}
		removed, err := store.Cleanup(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, cleanupResponse{Removed: removed})
	}
}
