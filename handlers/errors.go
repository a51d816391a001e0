package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/skyscore/scoring"
	"github.com/padraicbc/skyscore/store"
)

// httpError maps engine and store errors onto HTTP statuses.
// Storage failures are 503 so clients know a retry is safe.
func httpError(err error) error {
	var se *scoring.StorageError
	switch {
	case errors.Is(err, scoring.ErrInvalidInput), errors.Is(err, scoring.ErrUnknownDiscipline):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &se), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// storeError wraps a failure from a direct store call as a retryable
// storage error before mapping it, leaving domain errors to httpError.
func storeError(op string, err error) error {
	if errors.Is(err, scoring.ErrNotFound) || errors.Is(err, store.ErrDuplicate) {
		return httpError(err)
	}
	return httpError(&scoring.StorageError{Op: op, Err: err})
}

// intParam reads a required positive integer query param.
func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "missing "+name+" param")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return n, nil
}
