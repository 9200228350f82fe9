package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// errBadRequest marks a request the server refused before reaching the
// store: undecodable JSON or a malformed query parameter.
var errBadRequest = errors.New("invalid request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain sentinels onto HTTP statuses: 404 for missing
// entities, 409 for ownership and referential refusals, 422 for
// cross-board moves, 400 for validation, 500 for storage failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrOwnership),
		errors.Is(err, types.ErrColumnNotEmpty),
		errors.Is(err, types.ErrWorkspaceNotEmpty),
		errors.Is(err, types.ErrDuplicateLabel),
		errors.Is(err, types.ErrPositionTaken):
		return http.StatusConflict
	case errors.Is(err, types.ErrScopeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrEmptyTitle),
		errors.Is(err, types.ErrTitleTooLong),
		errors.Is(err, types.ErrContentTooLong),
		errors.Is(err, types.ErrInvalidPriority),
		errors.Is(err, types.ErrInvalidColor),
		errors.Is(err, types.ErrInvalidIcon),
		errors.Is(err, types.ErrInvalidTheme),
		errors.Is(err, types.ErrInvalidFilename):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err under its mapped status. Storage failures get logged;
// domain refusals are the client's to handle.
func fail(c echo.Context, logger *log.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).Error("request failed")
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

// decodeBody reads the request's JSON into dst, rejecting unknown fields.
func decodeBody(c echo.Context, dst any) error {
	dec := sonic.ConfigStd.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter,
// zero when absent.
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}
