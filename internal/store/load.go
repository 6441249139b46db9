package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/repository"
)

// Load resolves the target account and fetches all seven collections
// concurrently, waiting for every read to settle. Any read failure is
// fatal for the whole cycle: the store clears to an empty failed state
// and surfaces the error; there is no partial retry of individual
// collections. On success it joins passengers onto flights by UUID,
// applies view scoping and enters the loaded state.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	target := s.deps.Resolver.TargetAccount(ctx, s.viewer.UserID)

	var (
		wg         sync.WaitGroup
		flights    []model.Flight
		passengers []model.Passenger
		airlines   []model.Airline
		agencies   []model.Agency
		settings   model.Settings
		managed    []model.ManagedUser
		defs       []model.RoleDefinition
		errs       = make([]error, 7)
	)

	run := func(i int, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f()
		}()
	}

	run(0, func() (err error) { flights, err = s.deps.Flights.ListByAccount(ctx, target); return })
	run(1, func() (err error) { passengers, err = s.deps.Passengers.ListByAccount(ctx, target); return })
	run(2, func() (err error) { airlines, err = s.deps.Airlines.ListByAccount(ctx, target); return })
	run(3, func() (err error) { agencies, err = s.deps.Agencies.ListByAccount(ctx, target); return })
	run(4, func() error {
		got, err := s.deps.Settings.GetByAccount(ctx, target)
		if errors.Is(err, repository.ErrNotFound) {
			// No settings row yet: fall back to defaults, not a failure.
			settings = model.Settings{UserID: target, Pricing: model.DefaultPricing()}
			return nil
		}
		settings = got
		return err
	})
	run(5, func() (err error) { managed, err = s.deps.ManagedUsers.ListByAccount(ctx, target); return })
	run(6, func() (err error) { defs, err = s.deps.Roles.ListDefinitions(ctx); return })
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.mu.Lock()
			s.state = StateFailed
			s.flights, s.airline, s.agency, s.managed, s.roles = nil, nil, nil, nil, nil
			s.mu.Unlock()
			if s.deps.Metrics != nil {
				s.deps.Metrics.ErrorsTotal.WithLabelValues("load").Inc()
			}
			return fmt.Errorf("store load: %w", err)
		}
	}

	eval := permission.NewEvaluator(s.viewer.Role, defs)
	joined := joinPassengers(flights, passengers)
	visible := applyViewScope(joined, eval, s.viewer.UserID)

	s.mu.Lock()
	s.target = target
	s.eval = eval
	s.flights = visible
	s.airline = airlines
	s.agency = agencies
	s.setting = settings
	s.managed = managed
	s.roles = defs
	s.state = StateLoaded
	s.mu.Unlock()

	if s.deps.Metrics != nil {
		s.deps.Metrics.LoadsTotal.Inc()
	}
	s.deps.Log.Info("store loaded",
		"viewer", s.viewer.UserID, "target", target, "flights", len(visible))
	return nil
}

// joinPassengers attaches each passenger to its parent flight by
// matching passenger.flight_id against flight.uuid. Passengers whose
// flight is not in the set are dropped (they belong to a row the viewer
// cannot see or that no longer exists).
func joinPassengers(flights []model.Flight, passengers []model.Passenger) []model.Flight {
	byUUID := make(map[string][]model.Passenger, len(flights))
	for _, p := range passengers {
		byUUID[p.FlightUUID] = append(byUUID[p.FlightUUID], p)
	}
	out := make([]model.Flight, len(flights))
	for i, f := range flights {
		f.Passengers = byUUID[f.UUID]
		if f.Passengers == nil {
			f.Passengers = []model.Passenger{}
		}
		out[i] = f
	}
	return out
}

// applyViewScope filters flights and then, independently, the passengers
// within each surviving flight. Flight- and passenger-level visibility
// are separate axes: a coordinator may see all flights but only their
// own bookings inside them.
func applyViewScope(flights []model.Flight, eval *permission.Evaluator, viewerID uint64) []model.Flight {
	fOwn, fAny := eval.ViewScope(permission.ResFlight)
	if !fAny {
		if fOwn {
			kept := flights[:0]
			for _, f := range flights {
				if f.CreatedBy == viewerID {
					kept = append(kept, f)
				}
			}
			flights = kept
		} else {
			flights = []model.Flight{}
		}
	}

	pOwn, pAny := eval.ViewScope(permission.ResPassenger)
	if pAny {
		return flights
	}
	for i := range flights {
		if pOwn {
			kept := []model.Passenger{}
			for _, p := range flights[i].Passengers {
				if p.CreatedBy == viewerID {
					kept = append(kept, p)
				}
			}
			flights[i].Passengers = kept
		} else {
			flights[i].Passengers = []model.Passenger{}
		}
	}
	return flights
}
