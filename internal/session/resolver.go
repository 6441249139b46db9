// Package session resolves which account's data a signed-in user
// actually operates on. Managed (Staff/Manager) users work under their
// creator's account; everyone else works under their own.
package session

import (
	"context"

	"github.com/fly24/backoffice/internal/model"
)

// RoleLookup fetches a user's role assignment; satisfied by
// repository.RoleRepo.
type RoleLookup interface {
	GetUserRole(ctx context.Context, userID uint64) (model.UserRole, error)
}

// Resolver computes the target-account id used as the scoping key for
// every read and write in a session.
type Resolver struct {
	roles RoleLookup
}

// NewResolver returns a Resolver backed by the given role lookup.
func NewResolver(roles RoleLookup) *Resolver { return &Resolver{roles: roles} }

// TargetAccount returns the account whose data the user sees. A user
// with a role assignment that has a creator and is not Admin is managed:
// the creator's id is the target. If the lookup fails or returns
// nothing, the session degrades to self-scoping: the user sees only
// their own (likely empty) data rather than being blocked, since no
// rows have been fetched yet at this point.
func (r *Resolver) TargetAccount(ctx context.Context, userID uint64) uint64 {
	ur, err := r.roles.GetUserRole(ctx, userID)
	if err != nil {
		return userID
	}
	if ur.CreatedBy != nil && ur.Role != model.RoleAdmin {
		return *ur.CreatedBy
	}
	return userID
}
