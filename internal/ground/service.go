package ground

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/store"
)

// Service defines business logic for hunting grounds.
type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Ground, error)
	Get(ctx context.Context, groundID, userID string) (*Ground, access.Decision, error)
	ListForUser(ctx context.Context, userID string) ([]*Ground, error)
	Update(ctx context.Context, groundID, userID string, req UpdateRequest) (*Ground, error)
	SetBoundary(ctx context.Context, groundID, userID string, points []geo.Point) (*Ground, error)
	RegenerateInviteCode(ctx context.Context, groundID, userID string) (*Ground, error)
	Delete(ctx context.Context, groundID, userID string) error
	GetByInviteCode(ctx context.Context, code string) (*Ground, error)
}

// MembershipIndex lists the grounds a user actively belongs to.
type MembershipIndex interface {
	GroundIDsForUser(ctx context.Context, userID string) ([]string, error)
}

// Dependent is a module whose rows belong to a ground and go with it.
type Dependent interface {
	DeleteByGround(ctx context.Context, groundID string) error
}

type service struct {
	repo       Repository
	guard      *access.Guard
	members    MembershipIndex
	dependents []Dependent
	codes      geo.CodeSource
	log        *zap.Logger
}

// Option configures the service.
type Option func(*service)

// WithCodeSource replaces the random invite code source.
func WithCodeSource(src geo.CodeSource) Option {
	return func(s *service) { s.codes = src }
}

// WithDependents registers the modules removed along with a ground, in order.
func WithDependents(deps ...Dependent) Option {
	return func(s *service) { s.dependents = append(s.dependents, deps...) }
}

// NewService creates a new ground Service.
func NewService(repo Repository, guard *access.Guard, members MembershipIndex, log *zap.Logger, opts ...Option) Service {
	s := &service{
		repo:    repo,
		guard:   guard,
		members: members,
		codes:   geo.RandomCode,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Ground, error) {
	// 1. Validate input before touching the store.
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := geo.Validate(req.Boundary); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// 2. Pick an invite code nobody uses yet.
	code, err := geo.GenerateInviteCodeFrom(ctx, s.codes, s.repo.InviteCodeExists)
	if err != nil {
		if errors.Is(err, geo.ErrInviteCodeExhausted) {
			return nil, ErrInviteCodeTaken
		}
		return nil, err
	}

	// 3. Persist. The creator owns the ground and needs no membership row.
	g := &Ground{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     userID,
		Boundary:    req.Boundary,
		InviteCode:  code,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.log.Info("ground created", zap.String("ground_id", g.ID), zap.String("owner_id", userID))

	// 4. Return the stored state.
	return s.repo.GetByID(ctx, g.ID)
}

func (s *service) Get(ctx context.Context, groundID, userID string) (*Ground, access.Decision, error) {
	d, err := s.guard.Require(ctx, groundID, userID, access.ActionView)
	if err != nil {
		return nil, d, err
	}
	g, err := s.repo.GetByID(ctx, groundID)
	if err != nil {
		return nil, d, err
	}
	return g, d, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]*Ground, error) {
	ids, err := NewViewIndex(s.repo, s.members).VisibleGroundIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*Ground, 0, len(ids))
	for _, id := range ids {
		g, err := s.repo.GetByID(ctx, id)
		if err != nil {
			// A membership can outlive its ground for a moment during delete.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, g)
	}

	slices.SortFunc(out, func(a, b *Ground) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *service) Update(ctx context.Context, groundID, userID string, req UpdateRequest) (*Ground, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionEditGround); err != nil {
		return nil, err
	}

	fields := store.Fields{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if len(fields) == 0 {
		return s.repo.GetByID(ctx, groundID)
	}

	return s.repo.Update(ctx, groundID, fields)
}

func (s *service) SetBoundary(ctx context.Context, groundID, userID string, points []geo.Point) (*Ground, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionDrawBoundary); err != nil {
		return nil, err
	}
	if err := geo.Validate(points); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	return s.repo.UpdateBoundary(ctx, groundID, points)
}

func (s *service) RegenerateInviteCode(ctx context.Context, groundID, userID string) (*Ground, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionEditGround); err != nil {
		return nil, err
	}

	code, err := geo.GenerateInviteCodeFrom(ctx, s.codes, s.repo.InviteCodeExists)
	if err != nil {
		if errors.Is(err, geo.ErrInviteCodeExhausted) {
			return nil, ErrInviteCodeTaken
		}
		return nil, err
	}
	return s.repo.Update(ctx, groundID, store.Fields{"invite_code": code})
}

// Delete removes the ground and, first, everything that belongs to it.
func (s *service) Delete(ctx context.Context, groundID, userID string) error {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionDeleteGround); err != nil {
		return err
	}

	for _, dep := range s.dependents {
		if err := dep.DeleteByGround(ctx, groundID); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, groundID); err != nil {
		return err
	}

	s.log.Info("ground deleted", zap.String("ground_id", groundID), zap.String("user_id", userID))
	return nil
}

func (s *service) GetByInviteCode(ctx context.Context, code string) (*Ground, error) {
	code = geo.NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInviteNotFound
	}
	return s.repo.GetByInviteCode(ctx, code)
}
