package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Repository defines persistence for reservations.
type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	Find(ctx context.Context, criteria store.Criteria) ([]*Reservation, error)
	ActiveOnPoint(ctx context.Context, pointID string) ([]*Reservation, error)
	SetStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	Delete(ctx context.Context, id string) error
}

type record struct {
	ID         string    `db:"id"`
	GroundID   string    `db:"ground_id"`
	UserID     string    `db:"user_id"`
	UserName   string    `db:"user_name"`
	MapPointID *string   `db:"map_point_id"`
	CustomLat  *float64  `db:"custom_lat"`
	CustomLng  *float64  `db:"custom_lng"`
	Date       time.Time `db:"date"`
	StartTime  time.Time `db:"start_time"`
	EndTime    time.Time `db:"end_time"`
	Note       string    `db:"note"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *record) toDomain() *Reservation {
	return &Reservation{
		ID:         r.ID,
		GroundID:   r.GroundID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		MapPointID: r.MapPointID,
		CustomLat:  r.CustomLat,
		CustomLng:  r.CustomLng,
		Date:       r.Date.Format(DateLayout),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Note:       r.Note,
		Status:     Status(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

type storeRepository struct {
	table store.Table[record]
}

func NewRepository(b store.Backend) Repository {
	return &storeRepository{table: store.Open[record](b, "reservations")}
}

func (s *storeRepository) Create(ctx context.Context, r *Reservation) error {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return ErrInvalidDate
	}

	row, err := s.table.Create(ctx, store.Fields{
		"ground_id":    r.GroundID,
		"user_id":      r.UserID,
		"user_name":    r.UserName,
		"map_point_id": r.MapPointID,
		"custom_lat":   r.CustomLat,
		"custom_lng":   r.CustomLng,
		"date":         date,
		"start_time":   r.StartTime,
		"end_time":     r.EndTime,
		"note":         r.Note,
		"status":       string(r.Status),
	})
	if err != nil {
		// The exclusion constraint lost a race against another writer.
		if errors.Is(err, store.ErrConflict) {
			return ErrSlotTaken
		}
		return apperror.Store(err, "create reservation")
	}

	r.ID = row.ID
	r.CreatedAt = row.CreatedAt
	return nil
}

func (s *storeRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	row, err := s.table.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperror.Store(err, "get reservation")
	}
	return row.toDomain(), nil
}

func (s *storeRepository) Find(ctx context.Context, criteria store.Criteria) ([]*Reservation, error) {
	rows, err := s.table.Filter(ctx, criteria)
	if err != nil {
		return nil, apperror.Store(err, "list reservations")
	}
	out := make([]*Reservation, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (s *storeRepository) ActiveOnPoint(ctx context.Context, pointID string) ([]*Reservation, error) {
	return s.Find(ctx, store.Criteria{"map_point_id": pointID, "status": string(StatusActive)})
}

func (s *storeRepository) SetStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	row, err := s.table.Update(ctx, id, store.Fields{"status": string(status)})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrSlotTaken
		}
		return nil, apperror.Store(err, "update reservation")
	}
	return row.toDomain(), nil
}

func (s *storeRepository) Delete(ctx context.Context, id string) error {
	if err := s.table.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return apperror.Store(err, "delete reservation")
	}
	return nil
}
