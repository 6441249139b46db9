package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/store"
)

// ActivityHandler serves the audit trail, scoped to the viewer's
// resolved account.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
	Registry   *store.Registry
}

func NewActivityHandler(a *repository.ActivityRepo, reg *store.Registry) *ActivityHandler {
	return &ActivityHandler{Activities: a, Registry: reg}
}

// List returns the newest activity entries for the viewer's account.
func (h *ActivityHandler) List(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Activities.ListByAccount(ctx, st.TargetAccount(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load activity failed"})
	}
	if entries == nil {
		entries = []model.ActivityLog{}
	}
	return c.JSON(http.StatusOK, echo.Map{"activity": entries})
}
