package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/session"
)

type mockRoleLookup struct {
	getUserRole func(ctx context.Context, userID uint64) (model.UserRole, error)
}

func (m *mockRoleLookup) GetUserRole(ctx context.Context, userID uint64) (model.UserRole, error) {
	return m.getUserRole(ctx, userID)
}

func TestTargetAccountManagedUser(t *testing.T) {
	creator := uint64(7)
	r := session.NewResolver(&mockRoleLookup{
		getUserRole: func(context.Context, uint64) (model.UserRole, error) {
			return model.UserRole{UserID: 42, Role: model.RoleStaff, CreatedBy: &creator}, nil
		},
	})
	assert.Equal(t, creator, r.TargetAccount(context.Background(), 42))
}

func TestTargetAccountAdminIgnoresCreator(t *testing.T) {
	creator := uint64(7)
	r := session.NewResolver(&mockRoleLookup{
		getUserRole: func(context.Context, uint64) (model.UserRole, error) {
			return model.UserRole{UserID: 42, Role: model.RoleAdmin, CreatedBy: &creator}, nil
		},
	})
	assert.Equal(t, uint64(42), r.TargetAccount(context.Background(), 42))
}

func TestTargetAccountOwnerSelfScopes(t *testing.T) {
	r := session.NewResolver(&mockRoleLookup{
		getUserRole: func(context.Context, uint64) (model.UserRole, error) {
			return model.UserRole{UserID: 42, Role: model.RoleManager}, nil
		},
	})
	assert.Equal(t, uint64(42), r.TargetAccount(context.Background(), 42))
}

func TestTargetAccountLookupFailureDegradesToSelf(t *testing.T) {
	r := session.NewResolver(&mockRoleLookup{
		getUserRole: func(context.Context, uint64) (model.UserRole, error) {
			return model.UserRole{}, errors.New("connection refused")
		},
	})
	assert.Equal(t, uint64(42), r.TargetAccount(context.Background(), 42))
}
