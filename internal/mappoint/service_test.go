package mappoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

type fakeLookup struct {
	owner  string
	grants map[string]*access.Grant
}

func (f fakeLookup) OwnerOf(context.Context, string) (string, error) { return f.owner, nil }

func (f fakeLookup) GrantFor(_ context.Context, _, userID string) (*access.Grant, error) {
	return f.grants[userID], nil
}

func TestMapPointService(t *testing.T) {
	ctx := context.Background()
	lookup := fakeLookup{owner: "owner", grants: map[string]*access.Grant{
		"editor": {Role: access.RoleMember, Status: access.StatusActive, Permissions: access.PermFullAccess},
		"hunter": {Role: access.RoleMember, Status: access.StatusActive, Permissions: access.PermCanReserve},
	}}
	svc := NewService(NewRepository(store.Backend{Driver: store.DriverMemory}), access.NewGuard(lookup, lookup), zap.NewNop())

	const groundID = "ground-1"
	var seat *Point

	t.Run("Full access member creates a point", func(t *testing.T) {
		var err error
		seat, err = svc.Create(ctx, groundID, "editor", CreateRequest{
			Type: TypeHighSeat, Name: " Posed u buku ", Lat: 49.81, Lng: 15.42,
		})
		require.NoError(t, err)
		assert.Equal(t, "Posed u buku", seat.Name)
		assert.Equal(t, "editor", seat.CreatedBy)
		assert.False(t, seat.CreatedAt.IsZero())
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := svc.Create(ctx, groundID, "owner", CreateRequest{Type: TypeFeeder, Name: ""})
		assert.ErrorIs(t, err, ErrNameRequired)

		_, err = svc.Create(ctx, groundID, "owner", CreateRequest{Type: "tower", Name: "X"})
		assert.ErrorIs(t, err, ErrInvalidType)

		_, err = svc.Create(ctx, groundID, "owner", CreateRequest{Type: TypeHut, Name: "X", Lat: 91})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("Can reserve member cannot edit points", func(t *testing.T) {
		_, err := svc.Create(ctx, groundID, "hunter", CreateRequest{Type: TypeHut, Name: "Chata"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		err = svc.Delete(ctx, groundID, "hunter", seat.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("List and count", func(t *testing.T) {
		list, err := svc.List(ctx, groundID, "hunter")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, seat.ID, list[0].ID)

		_, err = svc.List(ctx, groundID, "stranger")
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		n, err := svc.CountByGround(ctx, groundID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Point of another ground is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "ground-2", seat.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, groundID, "owner", seat.ID))
		assert.ErrorIs(t, svc.Delete(ctx, groundID, "owner", seat.ID), ErrNotFound)
	})

	t.Run("DeleteByGround", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			_, err := svc.Create(ctx, groundID, "owner", CreateRequest{Type: TypeOther, Name: name})
			require.NoError(t, err)
		}
		require.NoError(t, svc.DeleteByGround(ctx, groundID))
		n, err := svc.CountByGround(ctx, groundID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

type recordingDependent struct {
	deleted []string
	fail    error
}

func (d *recordingDependent) DeleteByPoint(_ context.Context, pointID string) error {
	if d.fail != nil {
		return d.fail
	}
	d.deleted = append(d.deleted, pointID)
	return nil
}

func TestDeleteRemovesDependents(t *testing.T) {
	ctx := context.Background()
	lookup := fakeLookup{owner: "owner"}
	dep := &recordingDependent{}
	svc := NewService(NewRepository(store.Backend{Driver: store.DriverMemory}), access.NewGuard(lookup, lookup),
		zap.NewNop(), WithDependents(dep))

	p, err := svc.Create(ctx, "ground-1", "owner", CreateRequest{Type: TypeFeeder, Name: "Krmelec"})
	require.NoError(t, err)

	t.Run("Failed cleanup keeps the point", func(t *testing.T) {
		dep.fail = apperror.Store(assert.AnError, "delete reservations")
		err := svc.Delete(ctx, "ground-1", "owner", p.ID)
		assert.Equal(t, apperror.KindStore, apperror.KindOf(err))
		assert.NoError(t, svc.Exists(ctx, "ground-1", p.ID))
		dep.fail = nil
	})

	t.Run("Dependents go first", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "ground-1", "owner", p.ID))
		assert.Equal(t, []string{p.ID}, dep.deleted)
		assert.ErrorIs(t, svc.Exists(ctx, "ground-1", p.ID), ErrNotFound)
	})

	t.Run("Forbidden delete touches nothing", func(t *testing.T) {
		other, err := svc.Create(ctx, "ground-1", "owner", CreateRequest{Type: TypeHut, Name: "Chata"})
		require.NoError(t, err)
		err = svc.Delete(ctx, "ground-1", "stranger", other.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.Len(t, dep.deleted, 1)
	})
}

func TestTypeValid(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, Type("").Valid())
	assert.False(t, Type("HIGH_SEAT").Valid())
}
