package model

import "time"

// User mirrors the `users` table. The role name is duplicated here for
// token issuing; the delegation link (who created a managed user) lives
// in the user_roles table.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // Admin | Manager | Staff
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole mirrors the `user_roles` table: one row per user recording the
// assigned role and, for managed users, the creator whose account scope
// they operate under. CreatedBy is nil for top-level (owner) accounts.
type UserRole struct {
	UserID    uint64  `json:"user_id"`
	Role      string  `json:"role"`
	CreatedBy *uint64 `json:"created_by,omitempty"`
}

// ManagedUser is a row in the per-account `managed_users` table listing
// the staff accounts an owner has created.
type ManagedUser struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`         // owning account
	ManagedID uint64    `json:"managed_user_id"` // the staff user's id
	Email     string    `json:"email"`
	Role      string    `json:"role"` // Staff | Manager
	CreatedAt time.Time `json:"created_at"`
}

// RefreshToken mirrors the `refresh_tokens` table. Only the SHA-256 hash
// of the raw token is stored.
type RefreshToken struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
