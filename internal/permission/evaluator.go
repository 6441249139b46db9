// Package permission evaluates role permission documents. The documents
// are decoded into typed structs at the load boundary; evaluation is a
// plain field lookup that fails closed for anything unknown.
package permission

import "github.com/fly24/backoffice/internal/model"

// Resource and action names accepted by Evaluator.Has. They mirror the
// keys of the stored permission documents.
const (
	ResFlight     = "flight"
	ResPassenger  = "passenger"
	ResGenerating = "generating"
	ResSearching  = "searching"
	ResSettings   = "settings"
)

// Evaluator answers allow/deny questions for one viewer role against a
// fixed snapshot of role definitions. Build one per load cycle; it holds
// no mutable state.
type Evaluator struct {
	role string
	defs map[string]model.PermissionSet
}

// NewEvaluator builds an evaluator for the given role from a role
// definition snapshot.
func NewEvaluator(role string, defs []model.RoleDefinition) *Evaluator {
	m := make(map[string]model.PermissionSet, len(defs))
	for _, d := range defs {
		m[d.Role] = d.Permissions
	}
	return &Evaluator{role: role, defs: m}
}

// Role returns the viewer role this evaluator was built for.
func (e *Evaluator) Role() string { return e.role }

// Has reports whether the viewer role allows the given resource/action
// pair. Admin is always allowed; unknown roles, resources and actions are
// always denied.
func (e *Evaluator) Has(resource, action string) bool {
	if e.role == model.RoleAdmin {
		return true
	}
	p, ok := e.defs[e.role]
	if !ok {
		return false
	}
	switch resource {
	case ResFlight:
		switch action {
		case "view_own":
			return p.Flight.ViewOwn
		case "view_any":
			return p.Flight.ViewAny
		case "create":
			return p.Flight.Create
		case "delete":
			return p.Flight.Delete
		}
	case ResPassenger:
		switch action {
		case "view_own":
			return p.Passenger.ViewOwn
		case "view_any":
			return p.Passenger.ViewAny
		case "create":
			return p.Passenger.Create
		case "delete":
			return p.Passenger.Delete
		}
	case ResGenerating:
		switch action {
		case "ticket":
			return p.Generating.Ticket
		case "manifest":
			return p.Generating.Manifest
		case "batch":
			return p.Generating.Batch
		case "download":
			return p.Generating.Download
		}
	case ResSearching:
		switch action {
		case "upcoming":
			return p.Searching.Upcoming
		case "past":
			return p.Searching.Past
		}
	case ResSettings:
		switch action {
		case "airline_create":
			return p.Settings.AirlineCreate
		case "airline_update":
			return p.Settings.AirlineUpdate
		case "airline_delete":
			return p.Settings.AirlineDelete
		case "agency_create":
			return p.Settings.AgencyCreate
		case "agency_update":
			return p.Settings.AgencyUpdate
		case "agency_delete":
			return p.Settings.AgencyDelete
		case "user_create":
			return p.Settings.UserCreate
		case "pricing_edit":
			return p.Settings.PricingEdit
		}
	}
	return false
}

// ViewScope returns the read-scoping flags for a resource. These are not
// a boolean gate: "any" overrides "own", and with neither set the viewer
// sees an empty collection. Admin sees everything.
func (e *Evaluator) ViewScope(resource string) (own, any bool) {
	if e.role == model.RoleAdmin {
		return true, true
	}
	p, ok := e.defs[e.role]
	if !ok {
		return false, false
	}
	switch resource {
	case ResFlight:
		return p.Flight.ViewOwn, p.Flight.ViewAny
	case ResPassenger:
		return p.Passenger.ViewOwn, p.Passenger.ViewAny
	}
	return false, false
}
