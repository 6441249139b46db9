package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
)

// AirlineInput carries the editable airline fields. Template links may
// be cloud-storage share URLs; they are stored as given and normalised
// at generation time.
type AirlineInput struct {
	Name            string `json:"name"`
	TicketTemplate  string `json:"ticket_template"`
	ManifestOffice  string `json:"manifest_office"`
	ManifestAirport string `json:"manifest_airport"`
}

// AgencyInput carries the editable agency fields.
type AgencyInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateAirline adds an airline to the account directory. Requires
// settings.airline_create.
func (s *Store) CreateAirline(ctx context.Context, in AirlineInput) (model.Airline, error) {
	_, target, err := s.settingsGate("airline_create")
	if err != nil {
		return model.Airline{}, err
	}

	row := model.Airline{
		UserID:          target,
		Name:            strings.TrimSpace(in.Name),
		TicketTemplate:  strings.TrimSpace(in.TicketTemplate),
		ManifestOffice:  strings.TrimSpace(in.ManifestOffice),
		ManifestAirport: strings.TrimSpace(in.ManifestAirport),
		CreatedBy:       s.viewer.UserID,
	}
	created, err := s.deps.Airlines.Create(ctx, row)
	if err != nil {
		return model.Airline{}, fmt.Errorf("create airline: %w", err)
	}

	s.mu.Lock()
	s.airline = append(s.airline, created)
	s.mu.Unlock()

	s.afterMutation(ctx, "airline", "create")
	s.publishActivity(ctx, "airline", model.ActionCreate,
		fmt.Sprintf("Added airline %s", created.Name), nil, created)
	return created, nil
}

// UpdateAirline overwrites an airline's name and template links.
// Requires settings.airline_update.
func (s *Store) UpdateAirline(ctx context.Context, id uint64, in AirlineInput) (model.Airline, error) {
	_, target, err := s.settingsGate("airline_update")
	if err != nil {
		return model.Airline{}, err
	}

	var before model.Airline
	found := false
	s.mu.RLock()
	for _, a := range s.airline {
		if a.ID == id {
			before, found = a, true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return model.Airline{}, ErrAirlineNotFound
	}

	row := before
	row.UserID = target
	row.Name = strings.TrimSpace(in.Name)
	row.TicketTemplate = strings.TrimSpace(in.TicketTemplate)
	row.ManifestOffice = strings.TrimSpace(in.ManifestOffice)
	row.ManifestAirport = strings.TrimSpace(in.ManifestAirport)

	updated, err := s.deps.Airlines.Update(ctx, row)
	if err != nil {
		return model.Airline{}, fmt.Errorf("update airline: %w", err)
	}

	s.mu.Lock()
	for i := range s.airline {
		if s.airline[i].ID == id {
			s.airline[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "airline", "update")
	s.publishActivity(ctx, "airline", model.ActionUpdate,
		fmt.Sprintf("Updated airline %s", updated.Name), before, updated)
	return updated, nil
}

// DeleteAirline removes an airline from the directory. Requires
// settings.airline_delete. Existing flights keep their airline name;
// only the template links go away with the row.
func (s *Store) DeleteAirline(ctx context.Context, id uint64) error {
	_, target, err := s.settingsGate("airline_delete")
	if err != nil {
		return err
	}

	var victim model.Airline
	found := false
	s.mu.RLock()
	for _, a := range s.airline {
		if a.ID == id {
			victim, found = a, true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return ErrAirlineNotFound
	}

	if err := s.deps.Airlines.Delete(ctx, id, target); err != nil {
		return fmt.Errorf("delete airline: %w", err)
	}

	s.mu.Lock()
	kept := s.airline[:0]
	for _, a := range s.airline {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.airline = kept
	s.mu.Unlock()

	s.afterMutation(ctx, "airline", "delete")
	s.publishActivity(ctx, "airline", model.ActionDelete,
		fmt.Sprintf("Removed airline %s", victim.Name), victim, nil)
	return nil
}

// CreateAgency adds a partner agency. Requires settings.agency_create.
func (s *Store) CreateAgency(ctx context.Context, in AgencyInput) (model.Agency, error) {
	_, target, err := s.settingsGate("agency_create")
	if err != nil {
		return model.Agency{}, err
	}

	row := model.Agency{
		UserID:    target,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedBy: s.viewer.UserID,
	}
	created, err := s.deps.Agencies.Create(ctx, row)
	if err != nil {
		return model.Agency{}, fmt.Errorf("create agency: %w", err)
	}

	s.mu.Lock()
	s.agency = append(s.agency, created)
	s.mu.Unlock()

	s.afterMutation(ctx, "agency", "create")
	s.publishActivity(ctx, "agency", model.ActionCreate,
		fmt.Sprintf("Added agency %s", created.Name), nil, created)
	return created, nil
}

// UpdateAgency overwrites an agency's name and phone. Requires
// settings.agency_update.
func (s *Store) UpdateAgency(ctx context.Context, id uint64, in AgencyInput) (model.Agency, error) {
	_, target, err := s.settingsGate("agency_update")
	if err != nil {
		return model.Agency{}, err
	}

	var before model.Agency
	found := false
	s.mu.RLock()
	for _, a := range s.agency {
		if a.ID == id {
			before, found = a, true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return model.Agency{}, ErrAgencyNotFound
	}

	row := before
	row.UserID = target
	row.Name = strings.TrimSpace(in.Name)
	row.Phone = strings.TrimSpace(in.Phone)

	updated, err := s.deps.Agencies.Update(ctx, row)
	if err != nil {
		return model.Agency{}, fmt.Errorf("update agency: %w", err)
	}

	s.mu.Lock()
	for i := range s.agency {
		if s.agency[i].ID == id {
			s.agency[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "agency", "update")
	s.publishActivity(ctx, "agency", model.ActionUpdate,
		fmt.Sprintf("Updated agency %s", updated.Name), before, updated)
	return updated, nil
}

// DeleteAgency removes an agency from the directory. Requires
// settings.agency_delete.
func (s *Store) DeleteAgency(ctx context.Context, id uint64) error {
	_, target, err := s.settingsGate("agency_delete")
	if err != nil {
		return err
	}

	var victim model.Agency
	found := false
	s.mu.RLock()
	for _, a := range s.agency {
		if a.ID == id {
			victim, found = a, true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return ErrAgencyNotFound
	}

	if err := s.deps.Agencies.Delete(ctx, id, target); err != nil {
		return fmt.Errorf("delete agency: %w", err)
	}

	s.mu.Lock()
	kept := s.agency[:0]
	for _, a := range s.agency {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.agency = kept
	s.mu.Unlock()

	s.afterMutation(ctx, "agency", "delete")
	s.publishActivity(ctx, "agency", model.ActionDelete,
		fmt.Sprintf("Removed agency %s", victim.Name), victim, nil)
	return nil
}

// SavePricing persists the account's pricing rules. Requires
// settings.pricing_edit.
func (s *Store) SavePricing(ctx context.Context, p model.Pricing) error {
	_, target, err := s.settingsGate("pricing_edit")
	if err != nil {
		return err
	}

	s.mu.RLock()
	before := s.setting.Pricing
	s.mu.RUnlock()

	if err := s.deps.Settings.UpsertPricing(ctx, target, p); err != nil {
		return fmt.Errorf("save pricing: %w", err)
	}

	s.mu.Lock()
	s.setting.Pricing = p
	s.mu.Unlock()

	s.afterMutation(ctx, "settings", "update")
	s.publishActivity(ctx, "settings", model.ActionUpdate,
		"Updated pricing rules", before, p)
	return nil
}

// AddManagedUser records a newly created staff account in the owner's
// directory. The auth rows (users, user_roles) are written by the
// caller; this gate covers the whole flow, so callers must check it
// before creating the auth rows. Requires settings.user_create.
func (s *Store) AddManagedUser(ctx context.Context, managedID uint64, email, role string) (model.ManagedUser, error) {
	_, target, err := s.settingsGate("user_create")
	if err != nil {
		return model.ManagedUser{}, err
	}

	row := model.ManagedUser{
		UserID:    target,
		ManagedID: managedID,
		Email:     email,
		Role:      role,
	}
	created, err := s.deps.ManagedUsers.Create(ctx, row)
	if err != nil {
		return model.ManagedUser{}, fmt.Errorf("add managed user: %w", err)
	}

	s.mu.Lock()
	s.managed = append(s.managed, created)
	s.mu.Unlock()

	s.afterMutation(ctx, "user", "create")
	s.publishActivity(ctx, "user", model.ActionCreate,
		fmt.Sprintf("Created %s account %s", role, email), nil, created)
	return created, nil
}

// CanCreateUser reports whether the viewer may create managed users.
func (s *Store) CanCreateUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eval != nil && s.eval.Has(permission.ResSettings, "user_create")
}

// settingsGate checks the store is loaded and the viewer holds the
// given settings action.
func (s *Store) settingsGate(action string) (*permission.Evaluator, uint64, error) {
	s.mu.RLock()
	eval, target := s.eval, s.target
	s.mu.RUnlock()

	if eval == nil {
		return nil, 0, ErrNotLoaded
	}
	if !eval.Has(permission.ResSettings, action) {
		return nil, 0, ErrPermissionDenied
	}
	return eval, target, nil
}
