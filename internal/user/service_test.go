package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

func newTestService() Service {
	repo := NewRepository(store.Backend{Driver: store.DriverMemory})
	return NewService(repo, auth.NewBcryptPasswordHasher(4), zap.NewNop())
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	var registered *User

	t.Run("Register normalises email and trims name", func(t *testing.T) {
		u, err := svc.Register(ctx, RegisterRequest{Email: "  Hunter@Example.COM ", Password: "password1", DisplayName: "  Jan Novak "})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "hunter@example.com", u.Email)
		assert.Equal(t, "Jan Novak", u.DisplayName)
		assert.NotEqual(t, "password1", u.PasswordHash)
		registered = u
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "HUNTER@example.com", Password: "password2", DisplayName: "Other"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("Short password is a validation error", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "short@example.com", Password: "abc", DisplayName: "Short"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Empty email is a validation error", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "   ", Password: "password1", DisplayName: "Nobody"})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("Login succeeds and stamps last login", func(t *testing.T) {
		u, err := svc.Login(ctx, "hunter@example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("Wrong password and unknown email look the same", func(t *testing.T) {
		_, err := svc.Login(ctx, "hunter@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, "ghost@example.com", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, apperror.KindAuthRequired, apperror.KindOf(err))
	})

	t.Run("Update display name", func(t *testing.T) {
		u, err := svc.UpdateDisplayName(ctx, registered.ID, " Honza ")
		require.NoError(t, err)
		assert.Equal(t, "Honza", u.Name())

		_, err = svc.UpdateDisplayName(ctx, registered.ID, "  ")
		assert.ErrorIs(t, err, ErrDisplayNameEmpty)
	})

	t.Run("GetByID unknown id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLoginStampsClock(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC)
	repo := NewRepository(store.Backend{Driver: store.DriverMemory})
	svc := NewService(repo, auth.NewBcryptPasswordHasher(4), zap.NewNop(), WithClock(func() time.Time { return at }))

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, "a@example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLoginAt)
	assert.True(t, at.Equal(*u.LastLoginAt))

	stored, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(*stored.LastLoginAt))
}
