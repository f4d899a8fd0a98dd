package user

import (
	"context"
	"errors"
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	UpdateDisplayName(ctx context.Context, id, displayName string) (*User, error)
}

// record is the users table row.
type record struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	DisplayName  string     `db:"display_name"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	IsActive     bool       `db:"is_active"`
}

func (r *record) toDomain() *User {
	return &User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		DisplayName:  r.DisplayName,
		CreatedAt:    r.CreatedAt,
		LastLoginAt:  r.LastLoginAt,
		IsActive:     r.IsActive,
	}
}

type storeRepository struct {
	table store.Table[record]
}

// NewRepository creates a Repository on the users table of the backend.
func NewRepository(b store.Backend) Repository {
	return &storeRepository{table: store.Open[record](b, "users", []string{"email"})}
}

func (r *storeRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	rows, err := r.table.Filter(ctx, store.Criteria{"email": email})
	if err != nil {
		return nil, apperror.Store(err, "find user by email")
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*User, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "get user")
	}
	return row.toDomain(), nil
}

func (r *storeRepository) Create(ctx context.Context, u *User) error {
	row, err := r.table.Create(ctx, store.Fields{
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"display_name":  u.DisplayName,
		"is_active":     u.IsActive,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrEmailAlreadyUsed
		}
		return apperror.Store(err, "create user")
	}

	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	return nil
}

func (r *storeRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	if _, err := r.table.Update(ctx, id, store.Fields{"last_login_at": t}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return apperror.Store(err, "update last login")
	}
	return nil
}

func (r *storeRepository) UpdateDisplayName(ctx context.Context, id, displayName string) (*User, error) {
	row, err := r.table.Update(ctx, id, store.Fields{"display_name": displayName})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "update user")
	}
	return row.toDomain(), nil
}
