package reservation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/pkg/events"
	"github.com/premuk420/Myslivec/internal/pkg/lock"
	"github.com/premuk420/Myslivec/internal/store"
)

// Service defines business logic for reservations.
type Service interface {
	Create(ctx context.Context, groundID, userID string, req CreateRequest) (*Reservation, error)
	Get(ctx context.Context, id, userID string) (*Reservation, error)
	ListByGround(ctx context.Context, groundID, userID string) ([]*Reservation, error)
	ListForUser(ctx context.Context, userID string, filter ListFilter) ([]*Reservation, error)
	Cancel(ctx context.Context, id, userID string) (*Reservation, error)
	Complete(ctx context.Context, id, userID string) (*Reservation, error)

	// Upcoming returns active reservations of the ground from today on,
	// earliest first, without an access check.
	Upcoming(ctx context.Context, groundID string) ([]*Reservation, error)
	CountActive(ctx context.Context, groundID string) (int, error)
	DeleteByGround(ctx context.Context, groundID string) error
	DeleteByPoint(ctx context.Context, pointID string) error
}

// PointLookup confirms a map point belongs to a ground.
type PointLookup interface {
	Exists(ctx context.Context, groundID, pointID string) error
}

// GroundIndex lists the grounds a user can see.
type GroundIndex interface {
	VisibleGroundIDs(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	repo    Repository
	points  PointLookup
	grounds GroundIndex
	guard   *access.Guard
	locker  lock.Locker
	events  events.Publisher
	loc     *time.Location
	now     func() time.Time
	log     *zap.Logger
}

// Option configures the service.
type Option func(*service)

// WithClock replaces time.Now for the overview buckets.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the timezone dates and HH:MM times are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *service) { s.loc = loc }
}

func NewService(
	repo Repository,
	points PointLookup,
	grounds GroundIndex,
	guard *access.Guard,
	locker lock.Locker,
	pub events.Publisher,
	log *zap.Logger,
	opts ...Option,
) Service {
	s := &service{
		repo:    repo,
		points:  points,
		grounds: grounds,
		guard:   guard,
		locker:  locker,
		events:  pub,
		loc:     time.UTC,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// reservationEvent is the payload of every reservation routing key.
type reservationEvent struct {
	ID         string    `json:"id"`
	GroundID   string    `json:"ground_id"`
	UserID     string    `json:"user_id"`
	MapPointID *string   `json:"map_point_id"`
	Start      time.Time `json:"start_time"`
	End        time.Time `json:"end_time"`
	Status     Status    `json:"status"`
	ActorID    string    `json:"actor_id"`
}

func (s *service) emit(ctx context.Context, key string, r *Reservation, actorID string) {
	events.Emit(ctx, s.events, s.log, key, reservationEvent{
		ID:         r.ID,
		GroundID:   r.GroundID,
		UserID:     r.UserID,
		MapPointID: r.MapPointID,
		Start:      r.StartTime,
		End:        r.EndTime,
		Status:     r.Status,
		ActorID:    actorID,
	})
}

func (s *service) Create(ctx context.Context, groundID, userID string, req CreateRequest) (*Reservation, error) {
	// 1. Gate.
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionReserve); err != nil {
		return nil, err
	}

	// 2. Where: a point of this ground, or free GPS coordinates.
	r := &Reservation{
		GroundID: groundID,
		UserID:   userID,
		UserName: strings.TrimSpace(req.UserName),
		Note:     strings.TrimSpace(req.Note),
		Status:   StatusActive,
	}
	if req.MapPointID != nil && *req.MapPointID != "" {
		if err := s.points.Exists(ctx, groundID, *req.MapPointID); err != nil {
			return nil, err
		}
		pointID := *req.MapPointID
		r.MapPointID = &pointID
	} else {
		if req.CustomLat == nil || req.CustomLng == nil {
			return nil, ErrLocationRequired
		}
		if !(geo.Point{Lat: *req.CustomLat, Lng: *req.CustomLng}).InRange() {
			return nil, ErrOutOfRange
		}
		r.CustomLat, r.CustomLng = req.CustomLat, req.CustomLng
	}

	// 3. When: a ground-local day and two clock times.
	start, end, err := s.window(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	r.Date, r.StartTime, r.EndTime = req.Date, start, end
	proposal := Proposal{MapPointID: r.MapPointID, Start: start, End: end}

	// 4. Check and write. Writers on the same point are serialised.
	if r.MapPointID == nil {
		if err := CheckConflict(nil, proposal); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, r); err != nil {
			return nil, err
		}
	} else {
		err := s.locker.WithLock(ctx, pointLockKey(*r.MapPointID), func() error {
			existing, err := s.repo.ActiveOnPoint(ctx, *r.MapPointID)
			if err != nil {
				return err
			}
			if err := CheckConflict(existing, proposal); err != nil {
				return err
			}
			return s.repo.Create(ctx, r)
		})
		if err != nil {
			return nil, err
		}
	}

	// 5. Read back and look again for writers that slipped past the lock.
	stored, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if stored.MapPointID != nil {
		s.revalidate(ctx, stored)
	}

	s.log.Info("reservation created",
		zap.String("reservation_id", stored.ID),
		zap.String("ground_id", groundID),
		zap.String("user_id", userID),
	)
	s.emit(ctx, events.ReservationCreated, stored, userID)
	return stored, nil
}

// revalidate flags r with the ids of active reservations it overlaps.
// Nothing is removed; the conflict is left for the managers to resolve.
func (s *service) revalidate(ctx context.Context, r *Reservation) {
	existing, err := s.repo.ActiveOnPoint(ctx, *r.MapPointID)
	if err != nil {
		s.log.Warn("post-write conflict check failed", zap.String("reservation_id", r.ID), zap.Error(err))
		return
	}
	clashes := Overlapping(existing, r)
	if len(clashes) == 0 {
		return
	}

	ids := make([]string, len(clashes))
	for i, c := range clashes {
		ids[i] = c.ID
	}
	r.ConflictingReservationIDs = ids
	s.log.Warn("reservation overlaps after write",
		zap.String("reservation_id", r.ID),
		zap.String("map_point_id", *r.MapPointID),
		zap.Strings("conflicting_ids", ids),
	)
}

// window parses the form date and times in the ground timezone.
func (s *service) window(date, from, to string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	start, err := clockOn(day, from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(day, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, hhmm)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
	// time.Date moves a wall clock inside a DST gap forward; such a time was never on the clock.
	if at.Hour() != t.Hour() || at.Minute() != t.Minute() {
		return time.Time{}, ErrSkippedTime
	}
	return at, nil
}

func pointLockKey(pointID string) string {
	return "reservation:point:" + pointID
}

func (s *service) Get(ctx context.Context, id, userID string) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Require(ctx, r.GroundID, userID, access.ActionView); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListByGround(ctx context.Context, groundID, userID string) ([]*Reservation, error) {
	if _, err := s.guard.Require(ctx, groundID, userID, access.ActionView); err != nil {
		return nil, err
	}
	list, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "status": string(StatusActive)})
	if err != nil {
		return nil, err
	}
	sortByStart(list, false)
	return list, nil
}

// ListForUser returns the reservations of every ground the user can see,
// narrowed by ground and overview bucket.
func (s *service) ListForUser(ctx context.Context, userID string, filter ListFilter) ([]*Reservation, error) {
	switch filter.Bucket {
	case BucketAll, BucketToday, BucketUpcoming, BucketHistory:
	default:
		return nil, ErrInvalidBucket
	}

	groundIDs, err := s.grounds.VisibleGroundIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter.GroundID != "" {
		if !slices.Contains(groundIDs, filter.GroundID) {
			return []*Reservation{}, nil
		}
		groundIDs = []string{filter.GroundID}
	}

	today := s.now().In(s.loc).Format(DateLayout)
	var out []*Reservation
	for _, groundID := range groundIDs {
		list, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID})
		if err != nil {
			return nil, err
		}
		for _, r := range list {
			if inBucket(r, filter.Bucket, today) {
				out = append(out, r)
			}
		}
	}

	sortByStart(out, filter.Bucket == BucketHistory)
	return out, nil
}

// inBucket sorts reservations into the overview tabs. Dates compare as
// strings because they are YYYY-MM-DD.
func inBucket(r *Reservation, b Bucket, today string) bool {
	switch b {
	case BucketToday:
		return r.IsActive() && r.Date == today
	case BucketUpcoming:
		return r.IsActive() && r.Date > today
	case BucketHistory:
		return !r.IsActive() || r.Date < today
	default:
		return true
	}
}

func sortByStart(list []*Reservation, newestFirst bool) {
	slices.SortStableFunc(list, func(a, b *Reservation) int {
		if newestFirst {
			return b.StartTime.Compare(a.StartTime)
		}
		return a.StartTime.Compare(b.StartTime)
	})
}

func (s *service) Upcoming(ctx context.Context, groundID string) ([]*Reservation, error) {
	list, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "status": string(StatusActive)})
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.loc).Format(DateLayout)
	out := make([]*Reservation, 0, len(list))
	for _, r := range list {
		if r.Date >= today {
			out = append(out, r)
		}
	}
	sortByStart(out, false)
	return out, nil
}

func (s *service) CountActive(ctx context.Context, groundID string) (int, error) {
	list, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "status": string(StatusActive)})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *service) Cancel(ctx context.Context, id, userID string) (*Reservation, error) {
	r, err := s.transition(ctx, id, userID, StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ReservationCancelled, r, userID)
	return r, nil
}

func (s *service) Complete(ctx context.Context, id, userID string) (*Reservation, error) {
	r, err := s.transition(ctx, id, userID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ReservationCompleted, r, userID)
	return r, nil
}

// transition ends an active reservation. Its author may do so while they can
// still reserve; owners and admins may end anybody's.
func (s *service) transition(ctx context.Context, id, userID string, to Status) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := s.guard.Decide(ctx, r.GroundID, userID)
	if err != nil {
		return nil, err
	}
	own := r.UserID == userID && d.Capabilities.CanReserve
	if !own && !d.IsManager() {
		return nil, ErrNotYours
	}
	if !r.IsActive() {
		return nil, ErrNotActive
	}

	updated, err := s.repo.SetStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation status changed",
		zap.String("reservation_id", id),
		zap.String("status", string(to)),
		zap.String("actor_id", userID),
	)
	return updated, nil
}

func (s *service) DeleteByGround(ctx context.Context, groundID string) error {
	return s.deleteWhere(ctx, store.Criteria{"ground_id": groundID})
}

// DeleteByPoint removes every reservation of a map point, whatever its status.
func (s *service) DeleteByPoint(ctx context.Context, pointID string) error {
	return s.deleteWhere(ctx, store.Criteria{"map_point_id": pointID})
}

func (s *service) deleteWhere(ctx context.Context, criteria store.Criteria) error {
	list, err := s.repo.Find(ctx, criteria)
	if err != nil {
		return err
	}
	for _, r := range list {
		if err := s.repo.Delete(ctx, r.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
