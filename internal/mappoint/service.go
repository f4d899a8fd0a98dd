package mappoint

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/geo"
)

// Service defines business logic for map points.
type Service interface {
	Create(ctx context.Context, groundID, userID string, req CreateRequest) (*Point, error)
	List(ctx context.Context, groundID, userID string) ([]*Point, error)
	Delete(ctx context.Context, groundID, userID, pointID string) error

	// Get returns a point of the ground without an access check; callers
	// have already passed the guard.
	Get(ctx context.Context, groundID, pointID string) (*Point, error)
	Exists(ctx context.Context, groundID, pointID string) error
	CountByGround(ctx context.Context, groundID string) (int, error)
	DeleteByGround(ctx context.Context, groundID string) error
}

// Dependent holds rows that hang off a map point and go when it goes.
type Dependent interface {
	DeleteByPoint(ctx context.Context, pointID string) error
}

type service struct {
	Lookup
	repo       Repository
	guard      *access.Guard
	dependents []Dependent
	log        *zap.Logger
}

type Option func(*service)

// WithDependents registers what Delete removes before the point itself.
func WithDependents(deps ...Dependent) Option {
	return func(s *service) { s.dependents = append(s.dependents, deps...) }
}

func NewService(repo Repository, guard *access.Guard, log *zap.Logger, opts ...Option) Service {
	s := &service{Lookup: NewLookup(repo), repo: repo, guard: guard, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves points of a ground straight from the repository, without
// an access check.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) Lookup {
	return Lookup{repo: repo}
}

func (l Lookup) Get(ctx context.Context, groundID, pointID string) (*Point, error) {
	p, err := l.repo.GetByID(ctx, pointID)
	if err != nil {
		return nil, err
	}
	if p.GroundID != groundID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (l Lookup) Exists(ctx context.Context, groundID, pointID string) error {
	_, err := l.Get(ctx, groundID, pointID)
	return err
}

func (s *service) Create(ctx context.Context, groundID, userID string, req CreateRequest) (*Point, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionEditPoints); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !(geo.Point{Lat: req.Lat, Lng: req.Lng}).InRange() {
		return nil, ErrOutOfRange
	}

	p := &Point{
		GroundID:    groundID,
		Type:        req.Type,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Lat:         req.Lat,
		Lng:         req.Lng,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("map point created",
		zap.String("ground_id", groundID),
		zap.String("point_id", p.ID),
		zap.String("type", string(p.Type)),
	)
	return s.repo.GetByID(ctx, p.ID)
}

func (s *service) List(ctx context.Context, groundID, userID string) ([]*Point, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionView); err != nil {
		return nil, err
	}
	return s.repo.ListByGround(ctx, groundID)
}

func (s *service) Delete(ctx context.Context, groundID, userID, pointID string) error {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionEditPoints); err != nil {
		return err
	}
	if _, err := s.Get(ctx, groundID, pointID); err != nil {
		return err
	}
	for _, dep := range s.dependents {
		if err := dep.DeleteByPoint(ctx, pointID); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, pointID); err != nil {
		return err
	}

	s.log.Info("map point deleted", zap.String("ground_id", groundID), zap.String("point_id", pointID))
	return nil
}

func (s *service) CountByGround(ctx context.Context, groundID string) (int, error) {
	points, err := s.repo.ListByGround(ctx, groundID)
	if err != nil {
		return 0, err
	}
	return len(points), nil
}

func (s *service) DeleteByGround(ctx context.Context, groundID string) error {
	points, err := s.repo.ListByGround(ctx, groundID)
	if err != nil {
		return err
	}
	for _, p := range points {
		if err := s.repo.Delete(ctx, p.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
