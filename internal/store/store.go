// Package store owns the canonical in-memory representation of
// flights-with-joined-passengers for a session, and every mutating
// operation against it. Passengers live in their own table and are
// equi-joined onto flights by flight UUID at load time; permission
// scoping is applied once per load. Mutations write through to the
// database and update local state optimistically only after the remote
// write succeeds.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/queue"
	"github.com/fly24/backoffice/internal/session"
	"github.com/fly24/backoffice/pkg/logger"
	"github.com/fly24/backoffice/pkg/metrics"
)

// Sentinel errors returned by store operations. Handlers map
// ErrPermissionDenied to 403 and the not-found pair to 404.
var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrAirlineNotFound   = errors.New("airline not found")
	ErrAgencyNotFound    = errors.New("agency not found")
	ErrNotLoaded         = errors.New("store not loaded")
)

// State is the load-cycle state machine: Idle -> Loading -> Loaded or
// Failed. Loaded is re-entered by every successful mutation without a
// full reload; a reload happens only on an explicit Load call.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Viewer identifies the signed-in user a store instance serves.
type Viewer struct {
	UserID uint64
	Role   string
}

// FlightRepository is the flight persistence the store depends on.
type FlightRepository interface {
	Create(ctx context.Context, f model.Flight) (model.Flight, error)
	Update(ctx context.Context, uuid string, accountID uint64, patch model.FlightPatch) (model.Flight, error)
	Delete(ctx context.Context, uuid string, accountID uint64) error
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Flight, error)
}

// PassengerRepository is the passenger persistence the store depends on.
type PassengerRepository interface {
	Create(ctx context.Context, p model.Passenger) (model.Passenger, error)
	Update(ctx context.Context, p model.Passenger) (model.Passenger, error)
	Delete(ctx context.Context, id, accountID uint64) error
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Passenger, error)
}

// AirlineRepository is the airline-directory persistence the store
// depends on.
type AirlineRepository interface {
	Create(ctx context.Context, a model.Airline) (model.Airline, error)
	Update(ctx context.Context, a model.Airline) (model.Airline, error)
	Delete(ctx context.Context, id, accountID uint64) error
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Airline, error)
}

// AgencyRepository is the agency-directory persistence the store
// depends on.
type AgencyRepository interface {
	Create(ctx context.Context, a model.Agency) (model.Agency, error)
	Update(ctx context.Context, a model.Agency) (model.Agency, error)
	Delete(ctx context.Context, id, accountID uint64) error
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Agency, error)
}

// SettingsRepository reads and writes the account's settings row.
type SettingsRepository interface {
	GetByAccount(ctx context.Context, accountID uint64) (model.Settings, error)
	UpsertPricing(ctx context.Context, accountID uint64, p model.Pricing) error
}

// ManagedUserRepository is the managed-user directory persistence the
// store depends on.
type ManagedUserRepository interface {
	Create(ctx context.Context, m model.ManagedUser) (model.ManagedUser, error)
	ListByAccount(ctx context.Context, accountID uint64) ([]model.ManagedUser, error)
}

// DefinitionLister fetches the global role definitions; satisfied by
// permission.DefinitionCache and repository.RoleRepo.
type DefinitionLister interface {
	ListDefinitions(ctx context.Context) ([]model.RoleDefinition, error)
}

// ActivityPublisher emits audit events; satisfied by queue.Publisher.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event queue.ActivityEvent) error
}

// CacheBumper invalidates a viewer's cached HTTP responses after a
// successful write, so list reads never trail the viewer's own
// mutations. Satisfied by middleware.CacheVersion; optional.
type CacheBumper interface {
	Bump(ctx context.Context, userID uint64)
}

// Deps bundles everything a store instance needs.
type Deps struct {
	Flights      FlightRepository
	Passengers   PassengerRepository
	Airlines     AirlineRepository
	Agencies     AgencyRepository
	Settings     SettingsRepository
	ManagedUsers ManagedUserRepository
	Roles        DefinitionLister
	Resolver     *session.Resolver
	Publisher    ActivityPublisher
	Cache        CacheBumper
	Log          logger.Logger
	Metrics      *metrics.Metrics
}

// Store holds one session's loaded aggregate. All access goes through
// the mutex; read accessors return copies so callers never alias the
// internal slices.
type Store struct {
	mu     sync.RWMutex
	deps   Deps
	viewer Viewer

	loadOnce sync.Once // first-load gate; see Registry.ForViewer
	loadErr  error

	state   State
	target  uint64 // resolved target-account id
	eval    *permission.Evaluator
	flights []model.Flight
	airline []model.Airline
	agency  []model.Agency
	setting model.Settings
	managed []model.ManagedUser
	roles   []model.RoleDefinition
}

// New builds an unloaded store for a viewer. Call Load before reading.
func New(viewer Viewer, deps Deps) *Store {
	return &Store{deps: deps, viewer: viewer, state: StateIdle}
}

// State returns the current load-cycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Viewer returns the viewer this store serves.
func (s *Store) Viewer() Viewer { return s.viewer }

// TargetAccount returns the resolved owning-account id for this session.
func (s *Store) TargetAccount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// Evaluator returns the permission evaluator built from the last load.
// It is nil until the first successful Load.
func (s *Store) Evaluator() *permission.Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eval
}

// Flights returns a copy of the visible flight collection.
func (s *Store) Flights() []model.Flight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Flight, len(s.flights))
	copy(out, s.flights)
	return out
}

// Airlines returns the account's airline directory.
func (s *Store) Airlines() []model.Airline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Airline, len(s.airline))
	copy(out, s.airline)
	return out
}

// Agencies returns the account's agency directory.
func (s *Store) Agencies() []model.Agency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Agency, len(s.agency))
	copy(out, s.agency)
	return out
}

// Pricing returns the account's pricing rules.
func (s *Store) Pricing() model.Pricing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setting.Pricing
}

// ManagedUsers returns the account's managed staff directory.
func (s *Store) ManagedUsers() []model.ManagedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ManagedUser, len(s.managed))
	copy(out, s.managed)
	return out
}

// RoleDefinitions returns the role definition snapshot from the last load.
func (s *Store) RoleDefinitions() []model.RoleDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RoleDefinition, len(s.roles))
	copy(out, s.roles)
	return out
}

// Registry hands out one store per signed-in user, loading it on first
// use. Stores live until Drop (logout) or process exit; an explicit
// Reload is the only full refresh, matching the session lifecycle.
type Registry struct {
	mu     sync.Mutex
	deps   Deps
	stores map[uint64]*Store
}

// NewRegistry builds a Registry over shared dependencies.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, stores: make(map[uint64]*Store)}
}

// ForViewer returns the viewer's store, creating and loading it on the
// first request of a session. Concurrent first requests block on the
// same load: Once.Do holds every caller until the in-flight Load
// settles, so none of them observes a loading store with empty
// collections.
func (r *Registry) ForViewer(ctx context.Context, viewer Viewer) (*Store, error) {
	r.mu.Lock()
	st, ok := r.stores[viewer.UserID]
	if ok && st.viewer.Role != viewer.Role {
		// Role changed since the store was built; rebuild.
		ok = false
	}
	if !ok {
		st = New(viewer, r.deps)
		r.stores[viewer.UserID] = st
	}
	r.mu.Unlock()

	st.loadOnce.Do(func() { st.loadErr = st.Load(ctx) })
	if st.loadErr != nil {
		// Drop only our entry; a concurrent caller may already have
		// replaced it with a fresh store.
		r.mu.Lock()
		if r.stores[viewer.UserID] == st {
			delete(r.stores, viewer.UserID)
		}
		r.mu.Unlock()
		return nil, st.loadErr
	}
	return st, nil
}

// Reload rebuilds and reloads the viewer's store.
func (r *Registry) Reload(ctx context.Context, viewer Viewer) (*Store, error) {
	r.Drop(viewer.UserID)
	return r.ForViewer(ctx, viewer)
}

// Drop discards a viewer's store (logout or account switch).
func (r *Registry) Drop(userID uint64) {
	r.mu.Lock()
	delete(r.stores, userID)
	r.mu.Unlock()
}
