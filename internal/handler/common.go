// Package handler implements the HTTP endpoints. Handlers bind input,
// delegate to the per-viewer aggregate store (which owns permission
// checks and state) and map sentinel errors onto status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/store"
)

const dbTimeout = 5 * time.Second

// getUserID coerces the "user_id" context value stored by the auth
// middleware. JWT claims decode numbers as float64.
func getUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	case int:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// viewerFrom builds the store viewer from the authenticated context.
func viewerFrom(c echo.Context) (store.Viewer, bool) {
	uid, ok := getUserID(c)
	if !ok {
		return store.Viewer{}, false
	}
	role, _ := c.Get("role").(string)
	return store.Viewer{UserID: uid, Role: role}, true
}

// viewerStore resolves the request's store, loading it on the first
// request of a session. A nil store means the error response was
// already written.
func viewerStore(c echo.Context, reg *store.Registry) (*store.Store, error) {
	viewer, ok := viewerFrom(c)
	if !ok {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := reg.ForViewer(ctx, viewer)
	if err != nil {
		return nil, c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "data load failed"})
	}
	return st, nil
}

// writeStoreErr maps store and repository sentinels to status codes.
func writeStoreErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrPermissionDenied), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, store.ErrFlightNotFound),
		errors.Is(err, store.ErrPassengerNotFound),
		errors.Is(err, store.ErrAirlineNotFound),
		errors.Is(err, store.ErrAgencyNotFound),
		errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, store.ErrNotLoaded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "data not loaded"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
