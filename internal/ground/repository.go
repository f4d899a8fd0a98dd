package ground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Repository defines persistence for grounds.
type Repository interface {
	Create(ctx context.Context, g *Ground) error
	GetByID(ctx context.Context, id string) (*Ground, error)
	GetByInviteCode(ctx context.Context, code string) (*Ground, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Ground, error)
	Update(ctx context.Context, id string, fields store.Fields) (*Ground, error)
	UpdateBoundary(ctx context.Context, id string, boundary []geo.Point) (*Ground, error)
	Delete(ctx context.Context, id string) error
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	// OwnerOf satisfies access.OwnerLookup.
	OwnerOf(ctx context.Context, groundID string) (string, error)
}

// record is the hunting_grounds table row. The centroid is never stored.
type record struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	OwnerID     string    `db:"owner_id"`
	Boundary    []byte    `db:"boundary"`
	InviteCode  string    `db:"invite_code"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *record) toDomain() (*Ground, error) {
	g := &Ground{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		InviteCode:  r.InviteCode,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Boundary:    []geo.Point{},
	}
	if len(r.Boundary) > 0 {
		if err := json.Unmarshal(r.Boundary, &g.Boundary); err != nil {
			return nil, fmt.Errorf("decode boundary of ground %s: %w", r.ID, err)
		}
	}
	return g, nil
}

func encodeBoundary(points []geo.Point) ([]byte, error) {
	if points == nil {
		points = []geo.Point{}
	}
	return json.Marshal(points)
}

type storeRepository struct {
	table store.Table[record]
}

// NewRepository creates a Repository on the hunting_grounds table of the backend.
func NewRepository(b store.Backend) Repository {
	return &storeRepository{table: store.Open[record](b, "hunting_grounds", []string{"invite_code"})}
}

func (r *storeRepository) Create(ctx context.Context, g *Ground) error {
	boundary, err := encodeBoundary(g.Boundary)
	if err != nil {
		return apperror.Store(err, "encode boundary")
	}

	row, err := r.table.Create(ctx, store.Fields{
		"name":        g.Name,
		"description": g.Description,
		"owner_id":    g.OwnerID,
		"boundary":    boundary,
		"invite_code": g.InviteCode,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrInviteCodeTaken
		}
		return apperror.Store(err, "create ground")
	}

	g.ID = row.ID
	g.CreatedAt = row.CreatedAt
	g.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*Ground, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "get ground")
	}
	return decode(row)
}

func (r *storeRepository) GetByInviteCode(ctx context.Context, code string) (*Ground, error) {
	rows, err := r.table.Filter(ctx, store.Criteria{"invite_code": code})
	if err != nil {
		return nil, apperror.Store(err, "find ground by invite code")
	}
	if len(rows) == 0 {
		return nil, ErrInviteNotFound
	}
	return decode(rows[0])
}

func (r *storeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Ground, error) {
	rows, err := r.table.Filter(ctx, store.Criteria{"owner_id": ownerID})
	if err != nil {
		return nil, apperror.Store(err, "list grounds")
	}
	out := make([]*Ground, 0, len(rows))
	for _, row := range rows {
		g, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *storeRepository) Update(ctx context.Context, id string, fields store.Fields) (*Ground, error) {
	row, err := r.table.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrInviteCodeTaken
		}
		return nil, apperror.Store(err, "update ground")
	}
	return decode(row)
}

func (r *storeRepository) UpdateBoundary(ctx context.Context, id string, boundary []geo.Point) (*Ground, error) {
	b, err := encodeBoundary(boundary)
	if err != nil {
		return nil, apperror.Store(err, "encode boundary")
	}
	return r.Update(ctx, id, store.Fields{"boundary": b})
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return apperror.Store(err, "delete ground")
	}
	return nil
}

func (r *storeRepository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	rows, err := r.table.Filter(ctx, store.Criteria{"invite_code": code})
	if err != nil {
		return false, apperror.Store(err, "check invite code")
	}
	return len(rows) > 0, nil
}

func (r *storeRepository) OwnerOf(ctx context.Context, groundID string) (string, error) {
	g, err := r.GetByID(ctx, groundID)
	if err != nil {
		return "", err
	}
	return g.OwnerID, nil
}

func decode(row *record) (*Ground, error) {
	g, err := row.toDomain()
	if err != nil {
		return nil, apperror.Store(err, "read ground")
	}
	return g, nil
}
