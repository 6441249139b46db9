package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/store"
)

// FlightHandler serves the flight collection through the per-viewer
// aggregate store.
type FlightHandler struct {
	Registry *store.Registry
}

func NewFlightHandler(reg *store.Registry) *FlightHandler {
	return &FlightHandler{Registry: reg}
}

type createFlightReq struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
	Date         string `json:"date"` // YYYY-MM-DD
	Route        string `json:"route"`
}

// List returns every flight visible to the viewer, passengers joined.
func (h *FlightHandler) List(c echo.Context) error {
	st, err := viewerStore(c, h.Registry)
	if st == nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":   st.State().String(),
		"flights": st.Flights(),
	})
}

// Get returns one flight by UUID or legacy numeric id.
func (h *FlightHandler) Get(c echo.Context) error {
	st, err := viewerStore(c, h.Registry)
	if st == nil {
		return err
	}
	flight, ok := st.FindFlight(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, flight)
}

// Create adds a flight. Requires flight.create.
func (h *FlightHandler) Create(c echo.Context) error {
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.FlightNumber == "" || req.Route == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "flight_number/route required"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	created, err := st.CreateFlight(c.Request().Context(), store.CreateFlightInput{
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		Date:         date,
		Route:        req.Route,
	})
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a flight. Bound directly to
// FlightPatch: absent fields stay unchanged.
func (h *FlightHandler) Update(c echo.Context) error {
	var patch model.FlightPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}

	updated, err := st.UpdateFlight(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a flight and, via the database cascade, its
// passengers. Requires flight.delete.
func (h *FlightHandler) Delete(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	if err := st.DeleteFlight(c.Request().Context(), c.Param("id")); err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
