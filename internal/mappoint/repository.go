package mappoint

import (
	"context"
	"errors"
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Repository defines persistence for map points.
type Repository interface {
	Create(ctx context.Context, p *Point) error
	GetByID(ctx context.Context, id string) (*Point, error)
	ListByGround(ctx context.Context, groundID string) ([]*Point, error)
	Delete(ctx context.Context, id string) error
}

type record struct {
	ID          string    `db:"id"`
	GroundID    string    `db:"ground_id"`
	Type        string    `db:"type"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Lat         float64   `db:"lat"`
	Lng         float64   `db:"lng"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *record) toDomain() *Point {
	return &Point{
		ID:          r.ID,
		GroundID:    r.GroundID,
		Type:        Type(r.Type),
		Name:        r.Name,
		Description: r.Description,
		Lat:         r.Lat,
		Lng:         r.Lng,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

type storeRepository struct {
	table store.Table[record]
}

func NewRepository(b store.Backend) Repository {
	return &storeRepository{table: store.Open[record](b, "map_points")}
}

func (r *storeRepository) Create(ctx context.Context, p *Point) error {
	row, err := r.table.Create(ctx, store.Fields{
		"ground_id":   p.GroundID,
		"type":        string(p.Type),
		"name":        p.Name,
		"description": p.Description,
		"lat":         p.Lat,
		"lng":         p.Lng,
		"created_by":  p.CreatedBy,
	})
	if err != nil {
		return apperror.Store(err, "create map point")
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*Point, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "get map point")
	}
	return row.toDomain(), nil
}

func (r *storeRepository) ListByGround(ctx context.Context, groundID string) ([]*Point, error) {
	rows, err := r.table.Filter(ctx, store.Criteria{"ground_id": groundID})
	if err != nil {
		return nil, apperror.Store(err, "list map points")
	}
	out := make([]*Point, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return apperror.Store(err, "delete map point")
	}
	return nil
}
