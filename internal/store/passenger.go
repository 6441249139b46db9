package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/queue"
)

// PassengerInput carries the fields a caller supplies when adding or
// editing a passenger. A non-zero ID makes the call an update.
type PassengerInput struct {
	ID          uint64        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Gender      string        `json:"gender"`
	PhoneNumber string        `json:"phone_number"`
	Agency      string        `json:"agency"`
	Infants     []model.Infant `json:"infants"`
}

// AddPassengerToFlight upserts a passenger on the flight resolved by
// either identifier form. Without an ID the passenger is inserted
// against the flight's UUID (never its numeric id) and the target
// account, requiring passenger.create. With an ID the mutable fields
// are persisted and merged into the local list; editing is allowed for
// holders of passenger.create and for the passenger's original creator.
func (s *Store) AddPassengerToFlight(ctx context.Context, flightRef string, in PassengerInput) (model.Passenger, error) {
	s.mu.RLock()
	eval, target := s.eval, s.target
	s.mu.RUnlock()

	if eval == nil {
		return model.Passenger{}, ErrNotLoaded
	}

	flight, ok := s.FindFlight(flightRef)
	if !ok {
		return model.Passenger{}, ErrFlightNotFound
	}

	if in.ID != 0 {
		return s.updatePassenger(ctx, flight, in, eval, target)
	}
	return s.insertPassenger(ctx, flight, in, eval, target)
}

func (s *Store) insertPassenger(ctx context.Context, flight model.Flight, in PassengerInput, eval *permission.Evaluator, target uint64) (model.Passenger, error) {
	if !eval.Has(permission.ResPassenger, "create") {
		return model.Passenger{}, ErrPermissionDenied
	}

	row := model.Passenger{
		FlightUUID:  flight.UUID, // always the UUID, never the legacy id
		UserID:      target,
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Gender:      in.Gender,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Agency:      strings.TrimSpace(in.Agency),
		Infants:     in.Infants,
		CreatedBy:   s.viewer.UserID,
	}
	if row.Type == "" {
		row.Type = model.PassengerAdult
	}
	if row.Agency == "" {
		row.Agency = model.DefaultAgency
	}

	created, err := s.deps.Passengers.Create(ctx, row)
	if err != nil {
		return model.Passenger{}, fmt.Errorf("add passenger: %w", err)
	}

	s.mu.Lock()
	for i := range s.flights {
		if s.flights[i].UUID == flight.UUID {
			s.flights[i].Passengers = append(s.flights[i].Passengers, created)
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "passenger", "create")
	s.publishActivity(ctx, "passenger", model.ActionCreate,
		fmt.Sprintf("Added passenger %s to flight %s", created.Name, flight.FlightNumber), nil, created)
	return created, nil
}

func (s *Store) updatePassenger(ctx context.Context, flight model.Flight, in PassengerInput, eval *permission.Evaluator, target uint64) (model.Passenger, error) {
	var before model.Passenger
	found := false
	for _, p := range flight.Passengers {
		if p.ID == in.ID {
			before, found = p, true
			break
		}
	}
	if !found {
		return model.Passenger{}, ErrPassengerNotFound
	}

	// Editing rides on the create permission; the original creator may
	// always correct their own row.
	if !eval.Has(permission.ResPassenger, "create") && before.CreatedBy != s.viewer.UserID {
		return model.Passenger{}, ErrPermissionDenied
	}

	row := before
	row.Name = strings.TrimSpace(in.Name)
	row.Type = in.Type
	row.Gender = in.Gender
	row.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	row.Agency = strings.TrimSpace(in.Agency)
	row.Infants = in.Infants
	row.UpdatedBy = s.viewer.UserID
	row.UserID = target

	updated, err := s.deps.Passengers.Update(ctx, row)
	if err != nil {
		return model.Passenger{}, fmt.Errorf("update passenger: %w", err)
	}

	s.mu.Lock()
	for i := range s.flights {
		if s.flights[i].UUID != flight.UUID {
			continue
		}
		for j := range s.flights[i].Passengers {
			if s.flights[i].Passengers[j].ID == updated.ID {
				s.flights[i].Passengers[j] = updated
				break
			}
		}
		break
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "passenger", "update")
	s.publishActivity(ctx, "passenger", model.ActionUpdate,
		fmt.Sprintf("Updated passenger %s", updated.Name), before, updated)
	return updated, nil
}

// RemovePassengerFromFlight deletes a passenger row. Allowed for
// holders of passenger.delete and for the passenger's original creator;
// everyone else is rejected before any remote call.
func (s *Store) RemovePassengerFromFlight(ctx context.Context, flightRef string, passengerID uint64) error {
	s.mu.RLock()
	eval, target := s.eval, s.target
	s.mu.RUnlock()

	if eval == nil {
		return ErrNotLoaded
	}

	flight, ok := s.FindFlight(flightRef)
	if !ok {
		return ErrFlightNotFound
	}

	var victim model.Passenger
	found := false
	for _, p := range flight.Passengers {
		if p.ID == passengerID {
			victim, found = p, true
			break
		}
	}
	if !found {
		return ErrPassengerNotFound
	}

	if !eval.Has(permission.ResPassenger, "delete") && victim.CreatedBy != s.viewer.UserID {
		return ErrPermissionDenied
	}

	if err := s.deps.Passengers.Delete(ctx, passengerID, target); err != nil {
		return fmt.Errorf("remove passenger: %w", err)
	}

	s.mu.Lock()
	for i := range s.flights {
		if s.flights[i].UUID != flight.UUID {
			continue
		}
		kept := s.flights[i].Passengers[:0]
		for _, p := range s.flights[i].Passengers {
			if p.ID != passengerID {
				kept = append(kept, p)
			}
		}
		s.flights[i].Passengers = kept
		break
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "passenger", "delete")
	s.publishActivity(ctx, "passenger", model.ActionDelete,
		fmt.Sprintf("Removed passenger %s from flight %s", victim.Name, flight.FlightNumber), victim, nil)
	return nil
}

// afterMutation bumps the mutation counter and invalidates the viewer's
// cached list responses after a successful write.
func (s *Store) afterMutation(ctx context.Context, entity, action string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.MutationsTotal.WithLabelValues(entity, action).Inc()
	}
	if s.deps.Cache != nil {
		s.deps.Cache.Bump(ctx, s.viewer.UserID)
	}
}

// publishActivity emits an audit event. Publishing is fire-and-forget:
// the broker must never block or fail a user action, so errors are
// logged by the publisher and dropped here.
func (s *Store) publishActivity(ctx context.Context, entity, action, description string, before, after any) {
	if s.deps.Publisher == nil {
		return
	}
	ev := queue.ActivityEvent{
		EntityType:  entity,
		ActionType:  action,
		Description: description,
		UserID:      s.viewer.UserID,
		AccountID:   s.TargetAccount(),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			ev.Before = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			ev.After = raw
		}
	}
	if err := s.deps.Publisher.PublishActivity(ctx, ev); err != nil {
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ActivityPublished.Inc()
	}
}
