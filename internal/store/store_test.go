package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/queue"
	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/session"
	"github.com/fly24/backoffice/internal/store"
	"github.com/fly24/backoffice/pkg/logger"
	"github.com/fly24/backoffice/pkg/metrics"
)

// ---- fakes -----------------------------------------------------------------

type fakeFlightRepo struct {
	flights  []model.Flight
	nextID   uint64
	listErr  error
	listGate chan struct{} // when set, ListByAccount blocks until closed
}

func (f *fakeFlightRepo) Create(_ context.Context, fl model.Flight) (model.Flight, error) {
	f.nextID++
	fl.ID = f.nextID
	f.flights = append(f.flights, fl)
	return fl, nil
}

func (f *fakeFlightRepo) Update(_ context.Context, id string, _ uint64, patch model.FlightPatch) (model.Flight, error) {
	for i := range f.flights {
		if f.flights[i].UUID != id {
			continue
		}
		if patch.Airline != nil {
			f.flights[i].Airline = *patch.Airline
		}
		if patch.FlightNumber != nil {
			f.flights[i].FlightNumber = *patch.FlightNumber
		}
		if patch.Date != nil {
			f.flights[i].Date = *patch.Date
		}
		if patch.Route != nil {
			f.flights[i].Route = *patch.Route
		}
		return f.flights[i], nil
	}
	return model.Flight{}, errors.New("no such flight")
}

func (f *fakeFlightRepo) Delete(_ context.Context, id string, _ uint64) error {
	for i := range f.flights {
		if f.flights[i].UUID == id {
			f.flights = append(f.flights[:i], f.flights[i+1:]...)
			return nil
		}
	}
	return errors.New("no such flight")
}

func (f *fakeFlightRepo) ListByAccount(context.Context, uint64) ([]model.Flight, error) {
	if f.listGate != nil {
		<-f.listGate
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Flight, len(f.flights))
	copy(out, f.flights)
	return out, nil
}

type fakePassengerRepo struct {
	passengers []model.Passenger
	nextID     uint64
}

func (f *fakePassengerRepo) Create(_ context.Context, p model.Passenger) (model.Passenger, error) {
	f.nextID++
	p.ID = f.nextID
	f.passengers = append(f.passengers, p)
	return p, nil
}

func (f *fakePassengerRepo) Update(_ context.Context, p model.Passenger) (model.Passenger, error) {
	for i := range f.passengers {
		if f.passengers[i].ID == p.ID {
			f.passengers[i] = p
			return p, nil
		}
	}
	return model.Passenger{}, errors.New("no such passenger")
}

func (f *fakePassengerRepo) Delete(_ context.Context, id, _ uint64) error {
	for i := range f.passengers {
		if f.passengers[i].ID == id {
			f.passengers = append(f.passengers[:i], f.passengers[i+1:]...)
			return nil
		}
	}
	return errors.New("no such passenger")
}

func (f *fakePassengerRepo) ListByAccount(context.Context, uint64) ([]model.Passenger, error) {
	out := make([]model.Passenger, len(f.passengers))
	copy(out, f.passengers)
	return out, nil
}

type fakeAirlineRepo struct{ airlines []model.Airline }

func (f *fakeAirlineRepo) Create(_ context.Context, a model.Airline) (model.Airline, error) {
	a.ID = uint64(len(f.airlines) + 1)
	f.airlines = append(f.airlines, a)
	return a, nil
}
func (f *fakeAirlineRepo) Update(_ context.Context, a model.Airline) (model.Airline, error) {
	return a, nil
}
func (f *fakeAirlineRepo) Delete(context.Context, uint64, uint64) error { return nil }
func (f *fakeAirlineRepo) ListByAccount(context.Context, uint64) ([]model.Airline, error) {
	return f.airlines, nil
}

type fakeAgencyRepo struct{ agencies []model.Agency }

func (f *fakeAgencyRepo) Create(_ context.Context, a model.Agency) (model.Agency, error) {
	a.ID = uint64(len(f.agencies) + 1)
	f.agencies = append(f.agencies, a)
	return a, nil
}
func (f *fakeAgencyRepo) Update(_ context.Context, a model.Agency) (model.Agency, error) {
	return a, nil
}
func (f *fakeAgencyRepo) Delete(context.Context, uint64, uint64) error { return nil }
func (f *fakeAgencyRepo) ListByAccount(context.Context, uint64) ([]model.Agency, error) {
	return f.agencies, nil
}

type fakeSettingsRepo struct {
	settings *model.Settings
}

func (f *fakeSettingsRepo) GetByAccount(context.Context, uint64) (model.Settings, error) {
	if f.settings == nil {
		return model.Settings{}, repository.ErrNotFound
	}
	return *f.settings, nil
}
func (f *fakeSettingsRepo) UpsertPricing(_ context.Context, accountID uint64, p model.Pricing) error {
	f.settings = &model.Settings{UserID: accountID, Pricing: p}
	return nil
}

type fakeManagedRepo struct{ users []model.ManagedUser }

func (f *fakeManagedRepo) Create(_ context.Context, m model.ManagedUser) (model.ManagedUser, error) {
	m.ID = uint64(len(f.users) + 1)
	f.users = append(f.users, m)
	return m, nil
}
func (f *fakeManagedRepo) ListByAccount(context.Context, uint64) ([]model.ManagedUser, error) {
	return f.users, nil
}

type fakeDefs struct{ defs []model.RoleDefinition }

func (f *fakeDefs) ListDefinitions(context.Context) ([]model.RoleDefinition, error) {
	return f.defs, nil
}

type fakePublisher struct {
	events []queue.ActivityEvent
	err    error
}

func (f *fakePublisher) PublishActivity(_ context.Context, ev queue.ActivityEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeCacheBumper struct{ bumps int }

func (f *fakeCacheBumper) Bump(context.Context, uint64) { f.bumps++ }

type fakeRoleLookup struct{ roles map[uint64]model.UserRole }

func (f *fakeRoleLookup) GetUserRole(_ context.Context, userID uint64) (model.UserRole, error) {
	ur, ok := f.roles[userID]
	if !ok {
		return model.UserRole{}, errors.New("no assignment")
	}
	return ur, nil
}

// ---- helpers ---------------------------------------------------------------

type env struct {
	flights    *fakeFlightRepo
	passengers *fakePassengerRepo
	settings   *fakeSettingsRepo
	publisher  *fakePublisher
	cache      *fakeCacheBumper
	store      *store.Store
}

func fullPerms() model.PermissionSet {
	return model.PermissionSet{
		Flight:    model.FlightPermissions{ViewOwn: true, ViewAny: true, Create: true, Delete: true},
		Passenger: model.PassengerPermissions{ViewOwn: true, ViewAny: true, Create: true, Delete: true},
		Searching: model.SearchingPermissions{Upcoming: true, Past: true},
		Settings: model.SettingsPermissions{
			AirlineCreate: true, AirlineUpdate: true, AirlineDelete: true,
			AgencyCreate: true, AgencyUpdate: true, AgencyDelete: true,
			UserCreate: true, PricingEdit: true,
		},
	}
}

func newEnv(t *testing.T, viewer store.Viewer, perms model.PermissionSet, flights []model.Flight, passengers []model.Passenger) *env {
	t.Helper()

	e := &env{
		flights:    &fakeFlightRepo{flights: flights, nextID: 100},
		passengers: &fakePassengerRepo{passengers: passengers, nextID: 100},
		settings:   &fakeSettingsRepo{},
		publisher:  &fakePublisher{},
		cache:      &fakeCacheBumper{},
	}
	defs := []model.RoleDefinition{{Role: viewer.Role, Permissions: perms}}

	e.store = store.New(viewer, store.Deps{
		Flights:      e.flights,
		Passengers:   e.passengers,
		Airlines:     &fakeAirlineRepo{},
		Agencies:     &fakeAgencyRepo{},
		Settings:     e.settings,
		ManagedUsers: &fakeManagedRepo{},
		Roles:        &fakeDefs{defs: defs},
		Resolver:     session.NewResolver(&fakeRoleLookup{}),
		Publisher:    e.publisher,
		Cache:        e.cache,
		Log:          logger.NewNop(),
	})
	return e
}

func flightRow(id uint64, number string, createdBy uint64, date time.Time) model.Flight {
	return model.Flight{
		ID:           id,
		UUID:         uuid.NewString(),
		UserID:       1,
		Airline:      "Blue Bird",
		FlightNumber: number,
		Date:         date,
		Route:        "CDD-MUQ",
		CreatedBy:    createdBy,
	}
}

func passengerRow(id uint64, flightUUID, name string, createdBy uint64) model.Passenger {
	return model.Passenger{
		ID:         id,
		FlightUUID: flightUUID,
		UserID:     1,
		Name:       name,
		Type:       model.PassengerAdult,
		Agency:     model.DefaultAgency,
		CreatedBy:  createdBy,
	}
}

// ---- load ------------------------------------------------------------------

func TestLoadJoinsPassengersByUUID(t *testing.T) {
	f1 := flightRow(1, "F24-301", 1, time.Now())
	f2 := flightRow(2, "F24-302", 1, time.Now())
	p1 := passengerRow(10, f1.UUID, "Amina", 1)
	p2 := passengerRow(11, f1.UUID, "Karim", 1)
	orphan := passengerRow(12, uuid.NewString(), "Ghost", 1)

	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleAdmin}, model.PermissionSet{},
		[]model.Flight{f1, f2}, []model.Passenger{p1, p2, orphan})
	require.NoError(t, e.store.Load(context.Background()))
	assert.Equal(t, store.StateLoaded, e.store.State())

	flights := e.store.Flights()
	require.Len(t, flights, 2)
	assert.Len(t, flights[0].Passengers, 2)
	assert.Empty(t, flights[1].Passengers)
}

func TestLoadAppliesIndependentViewScopes(t *testing.T) {
	mine := flightRow(1, "F24-301", 42, time.Now())
	theirs := flightRow(2, "F24-302", 7, time.Now())
	myPax := passengerRow(10, mine.UUID, "Amina", 42)
	theirPax := passengerRow(11, mine.UUID, "Karim", 7)

	perms := model.PermissionSet{
		Flight:    model.FlightPermissions{ViewOwn: true},
		Passenger: model.PassengerPermissions{ViewOwn: true},
	}
	e := newEnv(t, store.Viewer{UserID: 42, Role: model.RoleStaff}, perms,
		[]model.Flight{mine, theirs}, []model.Passenger{myPax, theirPax})
	require.NoError(t, e.store.Load(context.Background()))

	flights := e.store.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, mine.UUID, flights[0].UUID)
	require.Len(t, flights[0].Passengers, 1)
	assert.Equal(t, "Amina", flights[0].Passengers[0].Name)
}

func TestLoadNoViewPermissionsYieldsEmptySet(t *testing.T) {
	f := flightRow(1, "F24-301", 42, time.Now())
	e := newEnv(t, store.Viewer{UserID: 42, Role: model.RoleStaff}, model.PermissionSet{},
		[]model.Flight{f}, nil)
	require.NoError(t, e.store.Load(context.Background()))
	assert.Empty(t, e.store.Flights())
}

func TestLoadFailureIsAllOrNothing(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleAdmin}, model.PermissionSet{}, nil, nil)
	e.flights.listErr = errors.New("connection reset")

	err := e.store.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, store.StateFailed, e.store.State())
	assert.Empty(t, e.store.Flights())
}

func TestLoadMissingSettingsFallsBackToDefaults(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleAdmin}, model.PermissionSet{}, nil, nil)
	require.NoError(t, e.store.Load(context.Background()))
	assert.Equal(t, model.DefaultPricing(), e.store.Pricing())
}

// ---- flights ---------------------------------------------------------------

func TestCreateFlightAssignsUUIDAndAppends(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(), nil, nil)
	require.NoError(t, e.store.Load(context.Background()))

	created, err := e.store.CreateFlight(context.Background(), store.CreateFlightInput{
		Airline: "Blue Bird", FlightNumber: "F24-305", Date: time.Now(), Route: "CDD-JIB",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.UUID)
	assert.NotNil(t, created.Passengers)

	flights := e.store.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, created.UUID, flights[0].UUID)
	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, model.ActionCreate, e.publisher.events[0].ActionType)
}

func TestCreateFlightDeniedWithoutPermission(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, model.PermissionSet{
		Flight: model.FlightPermissions{ViewOwn: true},
	}, nil, nil)
	require.NoError(t, e.store.Load(context.Background()))

	_, err := e.store.CreateFlight(context.Background(), store.CreateFlightInput{FlightNumber: "X"})
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
	assert.Empty(t, e.publisher.events)
}

func TestUpdateFlightPreservesPassengers(t *testing.T) {
	f := flightRow(1, "F24-301", 1, time.Now())
	p := passengerRow(10, f.UUID, "Amina", 1)
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(),
		[]model.Flight{f}, []model.Passenger{p})
	require.NoError(t, e.store.Load(context.Background()))

	route := "CDD-DXB"
	updated, err := e.store.UpdateFlight(context.Background(), f.UUID, model.FlightPatch{Route: &route})
	require.NoError(t, err)
	assert.Equal(t, "CDD-DXB", updated.Route)

	flights := e.store.Flights()
	require.Len(t, flights, 1)
	assert.Len(t, flights[0].Passengers, 1)
}

func TestDeleteFlightRemovesItsPassengers(t *testing.T) {
	f := flightRow(1, "F24-301", 1, time.Now())
	p := passengerRow(10, f.UUID, "Amina", 1)
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(),
		[]model.Flight{f}, []model.Passenger{p})
	require.NoError(t, e.store.Load(context.Background()))

	require.NoError(t, e.store.DeleteFlight(context.Background(), f.UUID))
	assert.Empty(t, e.store.Flights())

	// No passenger referencing the flight remains visible.
	for _, fl := range e.store.Flights() {
		for _, px := range fl.Passengers {
			assert.NotEqual(t, f.UUID, px.FlightUUID)
		}
	}
}

func TestFindFlightAcceptsBothIdentifierForms(t *testing.T) {
	f := flightRow(31, "F24-301", 1, time.Now())
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleAdmin}, model.PermissionSet{},
		[]model.Flight{f}, nil)
	require.NoError(t, e.store.Load(context.Background()))

	byUUID, ok := e.store.FindFlight(f.UUID)
	require.True(t, ok)
	byID, ok2 := e.store.FindFlight("31")
	require.True(t, ok2)
	assert.Equal(t, byUUID.UUID, byID.UUID)

	_, ok = e.store.FindFlight("no-such-flight")
	assert.False(t, ok)
}

// ---- passengers ------------------------------------------------------------

func TestAddPassengerUsesFlightUUIDNotLegacyID(t *testing.T) {
	f := flightRow(31, "F24-301", 1, time.Now())
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(),
		[]model.Flight{f}, nil)
	require.NoError(t, e.store.Load(context.Background()))

	// Reference the flight by its legacy numeric id.
	created, err := e.store.AddPassengerToFlight(context.Background(), "31", store.PassengerInput{Name: "Amina"})
	require.NoError(t, err)
	assert.Equal(t, f.UUID, created.FlightUUID)
	assert.Equal(t, model.PassengerAdult, created.Type)
	assert.Equal(t, model.DefaultAgency, created.Agency)

	flights := e.store.Flights()
	require.Len(t, flights[0].Passengers, 1)
}

func TestUpdatePassengerByCreatorWithoutCreatePermission(t *testing.T) {
	f := flightRow(1, "F24-301", 7, time.Now())
	p := passengerRow(10, f.UUID, "Amina", 42) // created by the viewer
	perms := model.PermissionSet{
		Flight:    model.FlightPermissions{ViewAny: true},
		Passenger: model.PassengerPermissions{ViewAny: true},
	}
	e := newEnv(t, store.Viewer{UserID: 42, Role: model.RoleStaff}, perms,
		[]model.Flight{f}, []model.Passenger{p})
	require.NoError(t, e.store.Load(context.Background()))

	updated, err := e.store.AddPassengerToFlight(context.Background(), f.UUID,
		store.PassengerInput{ID: 10, Name: "Amina A.", Type: model.PassengerAdult, Agency: "Us"})
	require.NoError(t, err)
	assert.Equal(t, "Amina A.", updated.Name)
}

func TestUpdatePassengerDeniedForNonCreatorWithoutPermission(t *testing.T) {
	f := flightRow(1, "F24-301", 7, time.Now())
	p := passengerRow(10, f.UUID, "Amina", 7) // someone else's row
	perms := model.PermissionSet{
		Flight:    model.FlightPermissions{ViewAny: true},
		Passenger: model.PassengerPermissions{ViewAny: true},
	}
	e := newEnv(t, store.Viewer{UserID: 42, Role: model.RoleStaff}, perms,
		[]model.Flight{f}, []model.Passenger{p})
	require.NoError(t, e.store.Load(context.Background()))

	_, err := e.store.AddPassengerToFlight(context.Background(), f.UUID,
		store.PassengerInput{ID: 10, Name: "Hijacked"})
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
}

func TestRemovePassengerAllowedForCreator(t *testing.T) {
	f := flightRow(1, "F24-301", 7, time.Now())
	p := passengerRow(10, f.UUID, "Amina", 42)
	perms := model.PermissionSet{
		Flight:    model.FlightPermissions{ViewAny: true},
		Passenger: model.PassengerPermissions{ViewAny: true},
	}
	e := newEnv(t, store.Viewer{UserID: 42, Role: model.RoleStaff}, perms,
		[]model.Flight{f}, []model.Passenger{p})
	require.NoError(t, e.store.Load(context.Background()))

	require.NoError(t, e.store.RemovePassengerFromFlight(context.Background(), f.UUID, 10))
	assert.Empty(t, e.store.Flights()[0].Passengers)
}

// ---- search ----------------------------------------------------------------

func TestSearchWindowsAndQuery(t *testing.T) {
	past := flightRow(1, "F24-301", 1, time.Now().AddDate(0, 0, -3))
	future := flightRow(2, "F24-302", 1, time.Now().AddDate(0, 0, 3))
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(),
		[]model.Flight{past, future}, nil)
	require.NoError(t, e.store.Load(context.Background()))

	up, err := e.store.Search("upcoming", "")
	require.NoError(t, err)
	require.Len(t, up, 1)
	assert.Equal(t, "F24-302", up[0].FlightNumber)

	old, err := e.store.Search("past", "301")
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, "F24-301", old[0].FlightNumber)

	none, err := e.store.Search("past", "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchDeniedWithoutWindowPermission(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, model.PermissionSet{
		Searching: model.SearchingPermissions{Upcoming: true},
	}, nil, nil)
	require.NoError(t, e.store.Load(context.Background()))

	_, err := e.store.Search("past", "")
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
}

// ---- settings surfaces -----------------------------------------------------

func TestSavePricingGatedAndApplied(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(), nil, nil)
	require.NoError(t, e.store.Load(context.Background()))

	p := model.Pricing{Adult: 150, Child: 100, Infant: 25, Tax: 12, Surcharge: 8}
	require.NoError(t, e.store.SavePricing(context.Background(), p))
	assert.Equal(t, p, e.store.Pricing())

	denied := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, model.PermissionSet{}, nil, nil)
	require.NoError(t, denied.store.Load(context.Background()))
	assert.ErrorIs(t, denied.store.SavePricing(context.Background(), p), store.ErrPermissionDenied)
}

func TestCreateAirlineAppearsInDirectory(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(), nil, nil)
	require.NoError(t, e.store.Load(context.Background()))

	created, err := e.store.CreateAirline(context.Background(), store.AirlineInput{
		Name:           "Blue Bird",
		TicketTemplate: "https://example.com/ticket.docx",
	})
	require.NoError(t, err)
	assert.Equal(t, "Blue Bird", created.Name)
	require.Len(t, e.store.Airlines(), 1)
}

// ---- registry ---------------------------------------------------------------

func TestForViewerConcurrentFirstRequestsWaitForLoad(t *testing.T) {
	f := flightRow(1, "F24-301", 1, time.Now())
	gate := make(chan struct{})
	flights := &fakeFlightRepo{flights: []model.Flight{f}, nextID: 100, listGate: gate}

	reg := store.NewRegistry(store.Deps{
		Flights:      flights,
		Passengers:   &fakePassengerRepo{},
		Airlines:     &fakeAirlineRepo{},
		Agencies:     &fakeAgencyRepo{},
		Settings:     &fakeSettingsRepo{},
		ManagedUsers: &fakeManagedRepo{},
		Roles:        &fakeDefs{defs: []model.RoleDefinition{{Role: model.RoleAdmin}}},
		Resolver:     session.NewResolver(&fakeRoleLookup{}),
		Publisher:    &fakePublisher{},
		Log:          logger.NewNop(),
	})
	viewer := store.Viewer{UserID: 1, Role: model.RoleAdmin}

	type result struct {
		st  *store.Store
		err error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			st, err := reg.ForViewer(context.Background(), viewer)
			results <- result{st, err}
		}()
	}

	// With the load still in flight, neither request may return.
	select {
	case <-results:
		t.Fatal("request returned before the load settled")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	for i := 0; i < 2; i++ {
		r := <-results
		require.NoError(t, r.err)
		assert.Equal(t, store.StateLoaded, r.st.State())
		assert.Len(t, r.st.Flights(), 1)
	}
}

// ---- cache invalidation and metrics ----------------------------------------

func TestMutationsBumpViewerCacheVersion(t *testing.T) {
	e := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, fullPerms(), nil, nil)
	require.NoError(t, e.store.Load(context.Background()))
	assert.Zero(t, e.cache.bumps)

	created, err := e.store.CreateFlight(context.Background(), store.CreateFlightInput{
		Airline: "Blue Bird", FlightNumber: "F24-305", Date: time.Now(), Route: "CDD-JIB",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.bumps)

	_, err = e.store.AddPassengerToFlight(context.Background(), created.UUID, store.PassengerInput{Name: "Amina"})
	require.NoError(t, err)
	assert.Equal(t, 2, e.cache.bumps)

	// A denied mutation leaves the cache alone.
	denied := newEnv(t, store.Viewer{UserID: 1, Role: model.RoleStaff}, model.PermissionSet{}, nil, nil)
	require.NoError(t, denied.store.Load(context.Background()))
	_, err = denied.store.CreateFlight(context.Background(), store.CreateFlightInput{FlightNumber: "X"})
	require.Error(t, err)
	assert.Zero(t, denied.cache.bumps)
}

func TestActivityMetricCountsOnlySuccessfulPublishes(t *testing.T) {
	m := metrics.New("storetest")
	pub := &fakePublisher{err: errors.New("broker unreachable")}

	st := store.New(store.Viewer{UserID: 1, Role: model.RoleStaff}, store.Deps{
		Flights:      &fakeFlightRepo{nextID: 100},
		Passengers:   &fakePassengerRepo{},
		Airlines:     &fakeAirlineRepo{},
		Agencies:     &fakeAgencyRepo{},
		Settings:     &fakeSettingsRepo{},
		ManagedUsers: &fakeManagedRepo{},
		Roles:        &fakeDefs{defs: []model.RoleDefinition{{Role: model.RoleStaff, Permissions: fullPerms()}}},
		Resolver:     session.NewResolver(&fakeRoleLookup{}),
		Publisher:    pub,
		Log:          logger.NewNop(),
		Metrics:      m,
	})
	require.NoError(t, st.Load(context.Background()))

	_, err := st.CreateFlight(context.Background(), store.CreateFlightInput{
		Airline: "Blue Bird", FlightNumber: "F24-305", Date: time.Now(), Route: "CDD-JIB",
	})
	require.NoError(t, err)
	assert.Zero(t, testutil.ToFloat64(m.ActivityPublished))

	pub.err = nil
	_, err = st.CreateFlight(context.Background(), store.CreateFlightInput{
		Airline: "Blue Bird", FlightNumber: "F24-306", Date: time.Now(), Route: "CDD-JIB",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActivityPublished))
}
