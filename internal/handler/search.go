package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/store"
)

// SearchHandler serves the upcoming/past flight search views.
type SearchHandler struct {
	Registry *store.Registry
}

func NewSearchHandler(reg *store.Registry) *SearchHandler {
	return &SearchHandler{Registry: reg}
}

// Flights filters the loaded collection by departure window and an
// optional free-text query. The matching searching permission gates
// each window.
func (h *SearchHandler) Flights(c echo.Context) error {
	when := c.QueryParam("when")
	if when == "" {
		when = "upcoming"
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	flights, err := st.Search(when, c.QueryParam("q"))
	if err != nil {
		if errors.Is(err, store.ErrPermissionDenied) || errors.Is(err, store.ErrNotLoaded) {
			return writeStoreErr(c, err)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "when must be upcoming or past"})
	}
	return c.JSON(http.StatusOK, echo.Map{"when": when, "flights": flights})
}
