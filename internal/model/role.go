package model

import "time"

// Role names used across the application. Admin is implicitly
// all-permitted and its permission document is never edited; Staff and
// Manager operate under their creator's account scope.
const (
	RoleAdmin   = "Admin"
	RoleStaff   = "Staff"
	RoleManager = "Manager"
)

// RoleDefinition is a row in the `role_permissions` table. Role
// definitions are global (not account-scoped): every agency shares the
// same role vocabulary.
type RoleDefinition struct {
	ID          uint64        `json:"id"`
	Role        string        `json:"role"`
	Permissions PermissionSet `json:"permissions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PermissionSet is the typed form of the permission document stored as
// JSON on role_permissions.permissions. Any key missing from the stored
// document decodes to false, so absent permissions fail closed without
// per-read-site nil checks.
type PermissionSet struct {
	Flight     FlightPermissions     `json:"flight"`
	Passenger  PassengerPermissions  `json:"passenger"`
	Generating GeneratingPermissions `json:"generating"`
	Searching  SearchingPermissions  `json:"searching"`
	Settings   SettingsPermissions   `json:"settings"`
}

// FlightPermissions gates flight visibility and mutation. ViewAny
// overrides ViewOwn; with neither set the flight collection is empty.
type FlightPermissions struct {
	ViewOwn bool `json:"view_own"`
	ViewAny bool `json:"view_any"`
	Create  bool `json:"create"`
	Delete  bool `json:"delete"`
}

// PassengerPermissions gates passenger visibility and mutation,
// independently of the flight-level flags.
type PassengerPermissions struct {
	ViewOwn bool `json:"view_own"`
	ViewAny bool `json:"view_any"`
	Create  bool `json:"create"`
	Delete  bool `json:"delete"`
}

// GeneratingPermissions gates document generation features.
type GeneratingPermissions struct {
	Ticket   bool `json:"ticket"`
	Manifest bool `json:"manifest"`
	Batch    bool `json:"batch"`
	Download bool `json:"download"`
}

// SearchingPermissions gates the upcoming/past flight search views.
type SearchingPermissions struct {
	Upcoming bool `json:"upcoming"`
	Past     bool `json:"past"`
}

// SettingsPermissions gates the settings surfaces: airline and agency
// directories, managed-user creation and pricing rules.
type SettingsPermissions struct {
	AirlineCreate bool `json:"airline_create"`
	AirlineUpdate bool `json:"airline_update"`
	AirlineDelete bool `json:"airline_delete"`
	AgencyCreate  bool `json:"agency_create"`
	AgencyUpdate  bool `json:"agency_update"`
	AgencyDelete  bool `json:"agency_delete"`
	UserCreate    bool `json:"user_create"`
	PricingEdit   bool `json:"pricing_edit"`
}
