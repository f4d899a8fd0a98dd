// Package groundinfo assembles the read-only overviews of the home page and
// the ground info page from the entity services.
package groundinfo

import (
	"context"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/ground"
	"github.com/premuk420/Myslivec/internal/reservation"
)

// UpcomingLimit caps the reservations listed on the info page.
const UpcomingLimit = 5

// Counter counts what belongs to one ground.
type Counter func(ctx context.Context, groundID string) (int, error)

// Summary is one ground card on the home page.
type Summary struct {
	Ground             *ground.Ground
	Access             access.Decision
	MemberCount        int
	PointCount         int
	ActiveReservations int
}

// Info is the ground info page.
type Info struct {
	Summary
	Upcoming []*reservation.Reservation
}

type Service interface {
	ListForUser(ctx context.Context, userID string) ([]Summary, error)
	Get(ctx context.Context, groundID, userID string) (*Info, error)
}

// Deps are the sources an overview is built from.
type Deps struct {
	Grounds      ground.Service
	Guard        *access.Guard
	Members      Counter
	Points       Counter
	Reservations reservation.Service
}

type service struct {
	Deps
}

func NewService(deps Deps) Service {
	return &service{Deps: deps}
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	grounds, err := s.Grounds.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(grounds))
	for _, g := range grounds {
		d, err := s.Guard.Decide(ctx, g.ID, userID)
		if err != nil {
			return nil, err
		}
		sum, err := s.summarise(ctx, g, d)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, groundID, userID string) (*Info, error) {
	g, d, err := s.Grounds.Get(ctx, groundID, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.summarise(ctx, g, d)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.Reservations.Upcoming(ctx, groundID)
	if err != nil {
		return nil, err
	}
	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}
	return &Info{Summary: sum, Upcoming: upcoming}, nil
}

func (s *service) summarise(ctx context.Context, g *ground.Ground, d access.Decision) (Summary, error) {
	members, err := s.Members(ctx, g.ID)
	if err != nil {
		return Summary{}, err
	}
	points, err := s.Points(ctx, g.ID)
	if err != nil {
		return Summary{}, err
	}
	active, err := s.Reservations.CountActive(ctx, g.ID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Ground:             g,
		Access:             d,
		MemberCount:        members,
		PointCount:         points,
		ActiveReservations: active,
	}, nil
}
