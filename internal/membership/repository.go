package membership

import (
	"context"
	"errors"
	"time"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Repository defines persistence for memberships.
type Repository interface {
	Create(ctx context.Context, m *Membership) error
	GetByID(ctx context.Context, id string) (*Membership, error)
	Find(ctx context.Context, criteria store.Criteria) ([]*Membership, error)
	Update(ctx context.Context, id string, fields store.Fields) (*Membership, error)
	Delete(ctx context.Context, id string) error
	DeleteByGround(ctx context.Context, groundID string) error
	// GrantFor satisfies access.GrantLookup.
	GrantFor(ctx context.Context, groundID, userID string) (*access.Grant, error)
}

// record is the memberships table row.
type record struct {
	ID          string    `db:"id"`
	GroundID    string    `db:"ground_id"`
	UserID      *string   `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	Status      string    `db:"status"`
	Permissions string    `db:"permissions"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *record) toDomain() *Membership {
	return &Membership{
		ID:          r.ID,
		GroundID:    r.GroundID,
		UserID:      r.UserID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        access.Role(r.Role),
		Status:      access.Status(r.Status),
		Permissions: access.Permission(r.Permissions),
		CreatedAt:   r.CreatedAt,
	}
}

type storeRepository struct {
	table store.Table[record]
}

// NewRepository creates a Repository on the memberships table of the backend.
func NewRepository(b store.Backend) Repository {
	return &storeRepository{table: store.Open[record](b, "memberships",
		[]string{"ground_id", "user_id"},
		[]string{"ground_id", "email"},
	)}
}

func (r *storeRepository) Create(ctx context.Context, m *Membership) error {
	row, err := r.table.Create(ctx, store.Fields{
		"ground_id":    m.GroundID,
		"user_id":      m.UserID,
		"email":        m.Email,
		"display_name": m.DisplayName,
		"role":         string(m.Role),
		"status":       string(m.Status),
		"permissions":  string(m.Permissions),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrAlreadyMember
		}
		return apperror.Store(err, "create membership")
	}

	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*Membership, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "get membership")
	}
	return row.toDomain(), nil
}

func (r *storeRepository) Find(ctx context.Context, criteria store.Criteria) ([]*Membership, error) {
	rows, err := r.table.Filter(ctx, criteria)
	if err != nil {
		return nil, apperror.Store(err, "list memberships")
	}
	out := make([]*Membership, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *storeRepository) Update(ctx context.Context, id string, fields store.Fields) (*Membership, error) {
	row, err := r.table.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrAlreadyMember
		}
		return nil, apperror.Store(err, "update membership")
	}
	return row.toDomain(), nil
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return apperror.Store(err, "delete membership")
	}
	return nil
}

func (r *storeRepository) DeleteByGround(ctx context.Context, groundID string) error {
	rows, err := r.Find(ctx, store.Criteria{"ground_id": groundID})
	if err != nil {
		return err
	}
	for _, m := range rows {
		if err := r.Delete(ctx, m.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

func (r *storeRepository) GrantFor(ctx context.Context, groundID, userID string) (*access.Grant, error) {
	if userID == "" {
		return nil, nil
	}
	rows, err := r.Find(ctx, store.Criteria{"ground_id": groundID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Grant(), nil
}
