package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly24/backoffice/internal/handler"
	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/queue"
	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/session"
	"github.com/fly24/backoffice/internal/store"
	"github.com/fly24/backoffice/pkg/logger"
)

// Minimal stub persistence for registry-backed handler tests: list
// reads return fixed rows, writes are accepted unchanged.

type stubFlights []model.Flight

func (s stubFlights) Create(_ context.Context, f model.Flight) (model.Flight, error) { return f, nil }
func (s stubFlights) Update(context.Context, string, uint64, model.FlightPatch) (model.Flight, error) {
	return model.Flight{}, nil
}
func (s stubFlights) Delete(context.Context, string, uint64) error                  { return nil }
func (s stubFlights) ListByAccount(context.Context, uint64) ([]model.Flight, error) { return s, nil }

type stubPassengers struct{}

func (stubPassengers) Create(_ context.Context, p model.Passenger) (model.Passenger, error) {
	return p, nil
}
func (stubPassengers) Update(_ context.Context, p model.Passenger) (model.Passenger, error) {
	return p, nil
}
func (stubPassengers) Delete(context.Context, uint64, uint64) error { return nil }
func (stubPassengers) ListByAccount(context.Context, uint64) ([]model.Passenger, error) {
	return nil, nil
}

type stubAirlines struct{}

func (stubAirlines) Create(_ context.Context, a model.Airline) (model.Airline, error)  { return a, nil }
func (stubAirlines) Update(_ context.Context, a model.Airline) (model.Airline, error)  { return a, nil }
func (stubAirlines) Delete(context.Context, uint64, uint64) error                      { return nil }
func (stubAirlines) ListByAccount(context.Context, uint64) ([]model.Airline, error)    { return nil, nil }

type stubAgencies struct{}

func (stubAgencies) Create(_ context.Context, a model.Agency) (model.Agency, error) { return a, nil }
func (stubAgencies) Update(_ context.Context, a model.Agency) (model.Agency, error) { return a, nil }
func (stubAgencies) Delete(context.Context, uint64, uint64) error                   { return nil }
func (stubAgencies) ListByAccount(context.Context, uint64) ([]model.Agency, error)  { return nil, nil }

type stubSettings struct{}

func (stubSettings) GetByAccount(context.Context, uint64) (model.Settings, error) {
	return model.Settings{}, repository.ErrNotFound
}
func (stubSettings) UpsertPricing(context.Context, uint64, model.Pricing) error { return nil }

type stubManaged struct{}

func (stubManaged) Create(_ context.Context, m model.ManagedUser) (model.ManagedUser, error) {
	return m, nil
}
func (stubManaged) ListByAccount(context.Context, uint64) ([]model.ManagedUser, error) {
	return nil, nil
}

type stubDefs []model.RoleDefinition

func (s stubDefs) ListDefinitions(context.Context) ([]model.RoleDefinition, error) {
	return s, nil
}

type selfScoped struct{}

func (selfScoped) GetUserRole(context.Context, uint64) (model.UserRole, error) {
	return model.UserRole{}, repository.ErrNotFound
}

type droppedEvents struct{}

func (droppedEvents) PublishActivity(context.Context, queue.ActivityEvent) error { return nil }

func newSearchRegistry(perms model.PermissionSet, flights []model.Flight) *store.Registry {
	return store.NewRegistry(store.Deps{
		Flights:      stubFlights(flights),
		Passengers:   stubPassengers{},
		Airlines:     stubAirlines{},
		Agencies:     stubAgencies{},
		Settings:     stubSettings{},
		ManagedUsers: stubManaged{},
		Roles:        stubDefs{{Role: model.RoleStaff, Permissions: perms}},
		Resolver:     session.NewResolver(selfScoped{}),
		Publisher:    droppedEvents{},
		Log:          logger.NewNop(),
	})
}

func searchContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/search/flights")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleStaff)
	return c, rec
}

func TestSearchFlightsDeniedWindowReturns403(t *testing.T) {
	reg := newSearchRegistry(model.PermissionSet{
		Searching: model.SearchingPermissions{Upcoming: true},
	}, nil)
	h := handler.NewSearchHandler(reg)

	c, rec := searchContext("/v1/search/flights?when=past")
	require.NoError(t, h.Flights(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSearchFlightsReturnsMatchingWindow(t *testing.T) {
	future := model.Flight{
		ID: 2, UUID: "f2", FlightNumber: "F24-302", Airline: "Blue Bird",
		Route: "CDD-MUQ", Date: time.Now().AddDate(0, 0, 3), CreatedBy: 1,
	}
	past := model.Flight{
		ID: 1, UUID: "f1", FlightNumber: "F24-301", Airline: "Blue Bird",
		Route: "CDD-MUQ", Date: time.Now().AddDate(0, 0, -3), CreatedBy: 1,
	}
	reg := newSearchRegistry(model.PermissionSet{
		Flight:    model.FlightPermissions{ViewAny: true},
		Searching: model.SearchingPermissions{Upcoming: true},
	}, []model.Flight{past, future})
	h := handler.NewSearchHandler(reg)

	c, rec := searchContext("/v1/search/flights?when=upcoming")
	require.NoError(t, h.Flights(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "F24-302")
	assert.NotContains(t, rec.Body.String(), "F24-301")
}

func TestSearchFlightsRejectsUnknownWindow(t *testing.T) {
	reg := newSearchRegistry(model.PermissionSet{
		Searching: model.SearchingPermissions{Upcoming: true, Past: true},
	}, nil)
	h := handler.NewSearchHandler(reg)

	c, rec := searchContext("/v1/search/flights?when=yesterday")
	require.NoError(t, h.Flights(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
