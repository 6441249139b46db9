package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/store"
)

// PassengerHandler serves the passenger sub-collection of a flight.
type PassengerHandler struct {
	Registry *store.Registry
}

func NewPassengerHandler(reg *store.Registry) *PassengerHandler {
	return &PassengerHandler{Registry: reg}
}

// Upsert adds a passenger to a flight or, when the body carries an id,
// updates that passenger. The flight path segment accepts both
// identifier forms.
func (h *PassengerHandler) Upsert(c echo.Context) error {
	var in store.PassengerInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name required"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	p, err := st.AddPassengerToFlight(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return writeStoreErr(c, err)
	}
	status := http.StatusCreated
	if in.ID != 0 {
		status = http.StatusOK
	}
	return c.JSON(status, p)
}

// Remove deletes a passenger from a flight.
func (h *PassengerHandler) Remove(c echo.Context) error {
	pid, err := pathID(c, "pid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger id"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	if err := st.RemovePassengerFromFlight(c.Request().Context(), c.Param("id"), pid); err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}
