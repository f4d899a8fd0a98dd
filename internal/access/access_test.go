package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

func TestResolve(t *testing.T) {
	full := Capabilities{
		CanView: true, CanReserve: true, CanEditPoints: true,
		CanDrawBoundary: true, CanManageMembers: true, CanDeleteGround: true,
	}

	t.Run("Owner without membership row gets full capability", func(t *testing.T) {
		d := Resolve("u1", "u1", nil)
		assert.Equal(t, RoleOwner, d.Role)
		assert.Equal(t, full, d.Capabilities)
	})

	t.Run("Owner wins over an explicit membership row", func(t *testing.T) {
		d := Resolve("u1", "u1", &Grant{Role: RoleMember, Status: StatusActive, Permissions: PermReadOnly})
		assert.Equal(t, RoleOwner, d.Role)
		assert.True(t, d.Capabilities.CanDeleteGround)
	})

	t.Run("Empty user id never matches an empty owner", func(t *testing.T) {
		d := Resolve("", "", nil)
		assert.Equal(t, RoleNone, d.Role)
	})

	t.Run("Pending membership is the same as none", func(t *testing.T) {
		pending := Resolve("u2", "u1", &Grant{Role: RoleAdmin, Status: StatusPending})
		absent := Resolve("u2", "u1", nil)
		assert.Equal(t, absent, pending)
		assert.Equal(t, RoleNone, pending.Role)
		assert.Equal(t, Capabilities{}, pending.Capabilities)
	})

	t.Run("Admin manages members but cannot delete the ground", func(t *testing.T) {
		d := Resolve("u2", "u1", &Grant{Role: RoleAdmin, Status: StatusActive})
		assert.Equal(t, RoleAdmin, d.Role)
		assert.True(t, d.Capabilities.CanManageMembers)
		assert.True(t, d.Capabilities.CanDrawBoundary)
		assert.False(t, d.Capabilities.CanDeleteGround)
	})

	tests := []struct {
		name string
		perm Permission
		want Capabilities
	}{
		{"read_only", PermReadOnly, Capabilities{CanView: true}},
		{"can_reserve", PermCanReserve, Capabilities{CanView: true, CanReserve: true}},
		{"full_access", PermFullAccess, Capabilities{CanView: true, CanReserve: true, CanEditPoints: true, CanDrawBoundary: true}},
		{"unknown falls back to read_only", Permission("superuser"), Capabilities{CanView: true}},
		{"empty falls back to read_only", Permission(""), Capabilities{CanView: true}},
	}
	for _, tt := range tests {
		t.Run("Member "+tt.name, func(t *testing.T) {
			d := Resolve("u2", "u1", &Grant{Role: RoleMember, Status: StatusActive, Permissions: tt.perm})
			assert.Equal(t, RoleMember, d.Role)
			assert.Equal(t, tt.want, d.Capabilities)
			assert.False(t, d.Capabilities.CanManageMembers, "members never manage members")
		})
	}

	t.Run("Read only member fails the reserve gate", func(t *testing.T) {
		d := Resolve("u2", "u1", &Grant{Role: RoleMember, Status: StatusActive, Permissions: PermReadOnly})
		assert.False(t, d.Capabilities.Allows(ActionReserve))
		assert.True(t, d.Capabilities.Allows(ActionView))
	})
}

type fakeOwners map[string]string

func (f fakeOwners) OwnerOf(_ context.Context, groundID string) (string, error) {
	owner, ok := f[groundID]
	if !ok {
		return "", apperror.NotFound("ground not found")
	}
	return owner, nil
}

type fakeGrants struct {
	grants map[string]*Grant
	err    error
	calls  int
}

func (f *fakeGrants) GrantFor(_ context.Context, groundID, userID string) (*Grant, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.grants[groundID+"/"+userID], nil
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	owners := fakeOwners{"g1": "owner"}
	grants := &fakeGrants{grants: map[string]*Grant{
		"g1/reader": {Role: RoleMember, Status: StatusActive, Permissions: PermReadOnly},
		"g1/hunter": {Role: RoleMember, Status: StatusActive, Permissions: PermCanReserve},
	}}
	guard := NewGuard(owners, grants)

	t.Run("Owner skips the membership lookup", func(t *testing.T) {
		before := grants.calls
		d, err := guard.Require(ctx, "g1", "owner", ActionDeleteGround)
		require.NoError(t, err)
		assert.Equal(t, RoleOwner, d.Role)
		assert.Equal(t, before, grants.calls)
	})

	t.Run("Allowed action passes", func(t *testing.T) {
		_, err := guard.Require(ctx, "g1", "hunter", ActionReserve)
		assert.NoError(t, err)
	})

	t.Run("Denied action is forbidden", func(t *testing.T) {
		_, err := guard.Require(ctx, "g1", "reader", ActionReserve)
		require.Error(t, err)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Stranger cannot view", func(t *testing.T) {
		_, err := guard.Require(ctx, "g1", "stranger", ActionView)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Missing ground is not found", func(t *testing.T) {
		_, err := guard.Decide(ctx, "nope", "owner")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Lookup failure is a store error", func(t *testing.T) {
		broken := NewGuard(owners, &fakeGrants{err: errors.New("connection refused")})
		_, err := broken.Decide(ctx, "g1", "hunter")
		require.Error(t, err)
		assert.Equal(t, apperror.KindStore, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "connection refused")
	})
}
