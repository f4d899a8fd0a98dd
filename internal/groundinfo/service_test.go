package groundinfo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/ground"
	"github.com/premuk420/Myslivec/internal/mappoint"
	"github.com/premuk420/Myslivec/internal/membership"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/pkg/events"
	"github.com/premuk420/Myslivec/internal/pkg/lock"
	"github.com/premuk420/Myslivec/internal/reservation"
	"github.com/premuk420/Myslivec/internal/store"
)

func TestGroundInfo(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	b := store.Backend{Driver: store.DriverMemory}

	groundRepo := ground.NewRepository(b)
	memberRepo := membership.NewRepository(b)
	guard := access.NewGuard(groundRepo, memberRepo)

	members := membership.NewService(memberRepo, groundRepo, guard, events.Nop{}, log)
	points := mappoint.NewService(mappoint.NewRepository(b), guard, log)
	now := func() time.Time { return time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC) }
	reservations := reservation.NewService(reservation.NewRepository(b), points, ground.NewViewIndex(groundRepo, members),
		guard, lock.NewKeyedMutex(), events.Nop{}, log, reservation.WithClock(now))
	grounds := ground.NewService(groundRepo, guard, members, log, ground.WithDependents(reservations, points, members))

	svc := NewService(Deps{
		Grounds:      grounds,
		Guard:        guard,
		Members:      members.CountActive,
		Points:       points.CountByGround,
		Reservations: reservations,
	})

	g, err := grounds.Create(ctx, "owner", ground.CreateRequest{Name: "Háj"})
	require.NoError(t, err)
	_, _, err = members.Join(ctx, membership.Caller{UserID: "hunter", Email: "hunter@example.com"}, g.InviteCode)
	require.NoError(t, err)
	p, err := points.Create(ctx, g.ID, "owner", mappoint.CreateRequest{Type: mappoint.TypeHighSeat, Name: "Posed", Lat: 49.8, Lng: 15.4})
	require.NoError(t, err)

	for i, date := range []string{"2024-04-30", "2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05", "2024-05-06"} {
		_, err := reservations.Create(ctx, g.ID, "hunter", reservation.CreateRequest{
			MapPointID: &p.ID, Date: date, StartTime: "16:00", EndTime: "18:00",
		})
		require.NoError(t, err, i)
	}

	t.Run("Home cards carry role and counts", func(t *testing.T) {
		list, err := svc.ListForUser(ctx, "hunter")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, access.RoleMember, list[0].Access.Role)
		assert.Equal(t, 1, list[0].MemberCount)
		assert.Equal(t, 1, list[0].PointCount)
		assert.Equal(t, 7, list[0].ActiveReservations)

		list, err = svc.ListForUser(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, access.RoleOwner, list[0].Access.Role)
	})

	t.Run("Info lists the next reservations", func(t *testing.T) {
		info, err := svc.Get(ctx, g.ID, "hunter")
		require.NoError(t, err)
		require.Len(t, info.Upcoming, UpcomingLimit)
		assert.Equal(t, "2024-05-01", info.Upcoming[0].Date)
		assert.True(t, info.Access.Capabilities.CanReserve)
		assert.False(t, info.Access.Capabilities.CanManageMembers)
	})

	t.Run("Strangers see nothing", func(t *testing.T) {
		_, err := svc.Get(ctx, g.ID, "stranger")
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		list, err := svc.ListForUser(ctx, "stranger")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
