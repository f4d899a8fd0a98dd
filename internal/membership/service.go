package membership

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/ground"
	"github.com/premuk420/Myslivec/internal/pkg/events"
	"github.com/premuk420/Myslivec/internal/store"
)

// Service defines business logic for ground memberships.
type Service interface {
	// Join activates the caller on the ground behind an invite code.
	Join(ctx context.Context, caller Caller, inviteCode string) (*Membership, *ground.Ground, error)
	Invite(ctx context.Context, groundID, actorID string, req InviteRequest) (*Membership, error)
	ListByGround(ctx context.Context, groundID, actorID string) ([]*Membership, error)
	Update(ctx context.Context, groundID, actorID, memberID string, req UpdateRequest) (*Membership, error)
	Remove(ctx context.Context, groundID, actorID, memberID string) error
	Leave(ctx context.Context, groundID, userID string) error
	ListPending(ctx context.Context, email string) ([]*Membership, error)
	Accept(ctx context.Context, caller Caller, membershipID string) (*Membership, error)
	CountActive(ctx context.Context, groundID string) (int, error)

	// GroundIDsForUser satisfies ground.MembershipIndex.
	GroundIDsForUser(ctx context.Context, userID string) ([]string, error)
	// DeleteByGround satisfies ground.Dependent.
	DeleteByGround(ctx context.Context, groundID string) error
}

// GroundFinder resolves invite codes and ground owners.
type GroundFinder interface {
	GetByID(ctx context.Context, id string) (*ground.Ground, error)
	GetByInviteCode(ctx context.Context, code string) (*ground.Ground, error)
}

type service struct {
	repo    Repository
	grounds GroundFinder
	guard   *access.Guard
	events  events.Publisher
	log     *zap.Logger
}

// NewService creates a new membership Service.
func NewService(repo Repository, grounds GroundFinder, guard *access.Guard, pub events.Publisher, log *zap.Logger) Service {
	return &service{
		repo:    repo,
		grounds: grounds,
		guard:   guard,
		events:  pub,
		log:     log,
	}
}

// joinedEvent is published when a user becomes an active member.
type joinedEvent struct {
	MembershipID string `json:"membership_id"`
	GroundID     string `json:"ground_id"`
	UserID       string `json:"user_id"`
	Via          string `json:"via"`
}

func (s *service) Join(ctx context.Context, caller Caller, inviteCode string) (*Membership, *ground.Ground, error) {
	// 1. Resolve the code.
	g, err := s.grounds.GetByInviteCode(ctx, geo.NormalizeInviteCode(inviteCode))
	if err != nil {
		return nil, nil, err
	}

	// 2. The owner is always part of the ground.
	if g.OwnerID == caller.UserID {
		return nil, nil, ErrAlreadyMember
	}

	// 3. Reject a second membership, but pick up a pending invite for the caller.
	existing, err := s.findForCaller(ctx, g.ID, caller)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, nil, ErrAlreadyMember
		}
		m, err := s.activate(ctx, existing, caller, "invite")
		return m, g, err
	}

	// 4. Create the membership.
	userID := caller.UserID
	m := &Membership{
		GroundID:    g.ID,
		UserID:      &userID,
		Email:       normalizeEmail(caller.Email),
		DisplayName: displayName(caller),
		Role:        access.RoleMember,
		Status:      access.StatusActive,
		Permissions: DefaultJoinPermission,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, nil, err
	}

	s.log.Info("member joined", zap.String("ground_id", g.ID), zap.String("user_id", userID))
	events.Emit(ctx, s.events, s.log, events.MembershipJoined, joinedEvent{
		MembershipID: m.ID, GroundID: g.ID, UserID: userID, Via: "code",
	})
	return m, g, nil
}

func (s *service) Invite(ctx context.Context, groundID, actorID string, req InviteRequest) (*Membership, error) {
	if _, err := s.guard.Require(ctx, groundID, actorID, access.ActionManageMembers); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	role := req.Role
	if role == "" {
		role = access.RoleMember
	}
	if !access.ValidMemberRole(role) {
		return nil, ErrInvalidRole
	}
	perm := req.Permissions
	if perm == "" {
		perm = access.PermReadOnly
	}
	if !access.ValidPermission(perm) {
		return nil, ErrInvalidPermission
	}

	existing, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "email": email})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if existing[0].IsActive() {
			return nil, ErrAlreadyMember
		}
		return nil, ErrInvitePending
	}

	m := &Membership{
		GroundID:    groundID,
		Email:       email,
		DisplayName: email,
		Role:        role,
		Status:      access.StatusPending,
		Permissions: perm,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("member invited", zap.String("ground_id", groundID), zap.String("invited_by", actorID))
	return m, nil
}

func (s *service) ListByGround(ctx context.Context, groundID, actorID string) ([]*Membership, error) {
	if _, err := s.guard.Require(ctx, groundID, actorID, access.ActionView); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, store.Criteria{"ground_id": groundID})
}

func (s *service) Update(ctx context.Context, groundID, actorID, memberID string, req UpdateRequest) (*Membership, error) {
	if _, err := s.guard.Require(ctx, groundID, actorID, access.ActionManageMembers); err != nil {
		return nil, err
	}

	m, err := s.memberOf(ctx, groundID, memberID)
	if err != nil {
		return nil, err
	}

	fields := store.Fields{}
	if req.Role != nil {
		if !access.ValidMemberRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		fields["role"] = string(*req.Role)
	}
	if req.Permissions != nil {
		if !access.ValidPermission(*req.Permissions) {
			return nil, ErrInvalidPermission
		}
		fields["permissions"] = string(*req.Permissions)
	}
	if len(fields) == 0 {
		return m, nil
	}

	return s.repo.Update(ctx, m.ID, fields)
}

func (s *service) Remove(ctx context.Context, groundID, actorID, memberID string) error {
	if _, err := s.guard.Require(ctx, groundID, actorID, access.ActionManageMembers); err != nil {
		return err
	}

	m, err := s.memberOf(ctx, groundID, memberID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return err
	}

	s.log.Info("member removed", zap.String("ground_id", groundID), zap.String("membership_id", memberID))
	return nil
}

func (s *service) Leave(ctx context.Context, groundID, userID string) error {
	g, err := s.grounds.GetByID(ctx, groundID)
	if err != nil {
		return err
	}
	if g.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	rows, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "user_id": userID})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, rows[0].ID)
}

func (s *service) ListPending(ctx context.Context, email string) ([]*Membership, error) {
	email = normalizeEmail(email)
	if email == "" {
		return []*Membership{}, nil
	}
	return s.repo.Find(ctx, store.Criteria{"email": email, "status": string(access.StatusPending)})
}

func (s *service) Accept(ctx context.Context, caller Caller, membershipID string) (*Membership, error) {
	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.Status != access.StatusPending {
		return nil, ErrNotPending
	}
	if m.Email != normalizeEmail(caller.Email) {
		return nil, ErrNotInvitee
	}

	// The owner is part of the ground without a membership row.
	g, err := s.grounds.GetByID(ctx, m.GroundID)
	if err != nil {
		return nil, err
	}
	if g.OwnerID == caller.UserID {
		return nil, ErrAlreadyMember
	}

	// A membership for this user created by other means wins over the invite.
	if other, err := s.repo.Find(ctx, store.Criteria{"ground_id": m.GroundID, "user_id": caller.UserID}); err != nil {
		return nil, err
	} else if len(other) > 0 {
		return nil, ErrAlreadyMember
	}

	return s.activate(ctx, m, caller, "invite")
}

// CountActive counts active members, the owner excluded.
func (s *service) CountActive(ctx context.Context, groundID string) (int, error) {
	g, err := s.grounds.GetByID(ctx, groundID)
	if err != nil {
		return 0, err
	}
	rows, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "status": string(access.StatusActive)})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range rows {
		if m.UserID == nil || *m.UserID != g.OwnerID {
			n++
		}
	}
	return n, nil
}

func (s *service) GroundIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.repo.Find(ctx, store.Criteria{"user_id": userID, "status": string(access.StatusActive)})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.GroundID
	}
	return ids, nil
}

func (s *service) DeleteByGround(ctx context.Context, groundID string) error {
	return s.repo.DeleteByGround(ctx, groundID)
}

// activate turns a pending membership into an active one owned by the caller.
func (s *service) activate(ctx context.Context, m *Membership, caller Caller, via string) (*Membership, error) {
	updated, err := s.repo.Update(ctx, m.ID, store.Fields{
		"user_id":      caller.UserID,
		"status":       string(access.StatusActive),
		"display_name": displayName(caller),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invite accepted", zap.String("ground_id", m.GroundID), zap.String("user_id", caller.UserID))
	events.Emit(ctx, s.events, s.log, events.MembershipJoined, joinedEvent{
		MembershipID: updated.ID, GroundID: updated.GroundID, UserID: caller.UserID, Via: via,
	})
	return updated, nil
}

// findForCaller returns the caller's membership on the ground, matched by user
// id first and by invite email second.
func (s *service) findForCaller(ctx context.Context, groundID string, caller Caller) (*Membership, error) {
	rows, err := s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "user_id": caller.UserID})
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows[0], nil
	}

	email := normalizeEmail(caller.Email)
	if email == "" {
		return nil, nil
	}
	rows, err = s.repo.Find(ctx, store.Criteria{"ground_id": groundID, "email": email})
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows[0], nil
	}
	return nil, nil
}

// memberOf loads a membership and checks it belongs to the ground.
func (s *service) memberOf(ctx context.Context, groundID, memberID string) (*Membership, error) {
	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.GroundID != groundID {
		return nil, ErrNotFound
	}
	return m, nil
}

func displayName(c Caller) string {
	if name := strings.TrimSpace(c.DisplayName); name != "" {
		return name
	}
	return normalizeEmail(c.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
