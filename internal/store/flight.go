package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
)

// CreateFlightInput carries the fields a caller supplies for a new flight.
type CreateFlightInput struct {
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number"`
	Date         time.Time `json:"date"`
	Route        string    `json:"route"`
}

// CreateFlight persists a new flight scoped to the target account with
// the viewer recorded as creator, then appends it to local state with an
// empty passenger list. The persisted row (including its generated UUID)
// is returned so callers can navigate to it. Local state is untouched on
// persistence failure.
func (s *Store) CreateFlight(ctx context.Context, in CreateFlightInput) (model.Flight, error) {
	s.mu.RLock()
	eval, target := s.eval, s.target
	loaded := s.state == StateLoaded
	s.mu.RUnlock()

	if !loaded {
		return model.Flight{}, ErrNotLoaded
	}
	if !eval.Has(permission.ResFlight, "create") {
		return model.Flight{}, ErrPermissionDenied
	}

	row := model.Flight{
		UUID:         uuid.NewString(),
		UserID:       target,
		Airline:      strings.TrimSpace(in.Airline),
		FlightNumber: strings.TrimSpace(in.FlightNumber),
		Date:         in.Date,
		Route:        strings.TrimSpace(in.Route),
		CreatedBy:    s.viewer.UserID,
	}
	created, err := s.deps.Flights.Create(ctx, row)
	if err != nil {
		return model.Flight{}, fmt.Errorf("create flight: %w", err)
	}
	created.Passengers = []model.Passenger{}

	s.mu.Lock()
	s.flights = append(s.flights, created)
	s.mu.Unlock()

	s.afterMutation(ctx, "flight", "create")
	s.publishActivity(ctx, "flight", model.ActionCreate,
		fmt.Sprintf("Created flight %s (%s)", created.FlightNumber, created.Route), nil, created)
	return created, nil
}

// UpdateFlight persists a partial update to the flight matched by either
// identifier form and merges the returned row into local state. The
// passenger collection is never touched by a flight update.
func (s *Store) UpdateFlight(ctx context.Context, ref string, patch model.FlightPatch) (model.Flight, error) {
	before, ok := s.FindFlight(ref)
	if !ok {
		return model.Flight{}, ErrFlightNotFound
	}

	s.mu.RLock()
	target := s.target
	s.mu.RUnlock()

	updated, err := s.deps.Flights.Update(ctx, before.UUID, target, patch)
	if err != nil {
		return model.Flight{}, fmt.Errorf("update flight: %w", err)
	}

	s.mu.Lock()
	for i := range s.flights {
		if s.flights[i].UUID == before.UUID {
			updated.Passengers = s.flights[i].Passengers
			s.flights[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "flight", "update")
	s.publishActivity(ctx, "flight", model.ActionUpdate,
		fmt.Sprintf("Updated flight %s", updated.FlightNumber), before, updated)
	return updated, nil
}

// DeleteFlight deletes the flight row; the database cascade removes the
// owned passenger rows. The flight leaves local state only after the
// remote delete succeeds.
func (s *Store) DeleteFlight(ctx context.Context, ref string) error {
	s.mu.RLock()
	eval, target := s.eval, s.target
	s.mu.RUnlock()

	if eval == nil {
		return ErrNotLoaded
	}
	if !eval.Has(permission.ResFlight, "delete") {
		return ErrPermissionDenied
	}

	flight, ok := s.FindFlight(ref)
	if !ok {
		return ErrFlightNotFound
	}

	if err := s.deps.Flights.Delete(ctx, flight.UUID, target); err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}

	s.mu.Lock()
	kept := s.flights[:0]
	for _, f := range s.flights {
		if f.UUID != flight.UUID {
			kept = append(kept, f)
		}
	}
	s.flights = kept
	s.mu.Unlock()

	s.afterMutation(ctx, "flight", "delete")
	s.publishActivity(ctx, "flight", model.ActionDelete,
		fmt.Sprintf("Deleted flight %s and its %d passengers", flight.FlightNumber, len(flight.Passengers)),
		flight, nil)
	return nil
}

// FindFlight resolves a flight by UUID, by identifier equality, by
// string-coerced identifier or by integer-coerced identifier. Both
// identifier schemes are accepted transparently because the system
// moved from numeric ids to UUIDs mid-life.
func (s *Store) FindFlight(ref string) (model.Flight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, perr := strconv.ParseUint(ref, 10, 64)
	for _, f := range s.flights {
		if f.UUID == ref {
			return f, true
		}
		if strconv.FormatUint(f.ID, 10) == ref {
			return f, true
		}
		if perr == nil && f.ID == n {
			return f, true
		}
	}
	return model.Flight{}, false
}

// Search returns loaded flights filtered to upcoming or past departures,
// optionally matched against a free-text query over flight number, route
// and airline. The corresponding searching permission gates each view.
func (s *Store) Search(when, query string) ([]model.Flight, error) {
	s.mu.RLock()
	eval := s.eval
	s.mu.RUnlock()

	if eval == nil {
		return nil, ErrNotLoaded
	}
	if when != "upcoming" && when != "past" {
		return nil, fmt.Errorf("unknown search window %q", when)
	}
	if !eval.Has(permission.ResSearching, when) {
		return nil, ErrPermissionDenied
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	query = strings.ToLower(strings.TrimSpace(query))

	var out []model.Flight
	for _, f := range s.Flights() {
		upcoming := !f.Date.Before(today)
		if (when == "upcoming") != upcoming {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.FlightNumber), query) &&
			!strings.Contains(strings.ToLower(f.Route), query) &&
			!strings.Contains(strings.ToLower(f.Airline), query) {
			continue
		}
		out = append(out, f)
	}
	if out == nil {
		out = []model.Flight{}
	}
	return out, nil
}
