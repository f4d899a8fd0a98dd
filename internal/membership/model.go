package membership

import (
	"time"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("membership not found")
	ErrAlreadyMember     = apperror.Conflict("already a member of this ground")
	ErrInvitePending     = apperror.Conflict("an invite for this email is already pending")
	ErrNotPending        = apperror.Conflict("membership is not pending")
	ErrNotInvitee        = apperror.Forbidden("this invite belongs to another account")
	ErrOwnerCannotLeave  = apperror.Validation("the owner cannot leave their own ground")
	ErrInvalidRole       = apperror.Validation("role must be admin or member")
	ErrInvalidPermission = apperror.Validation("permissions must be read_only, can_reserve or full_access")
	ErrEmailRequired     = apperror.Validation("email is required")
)

// DefaultJoinPermission is granted to hunters joining with an invite code.
const DefaultJoinPermission = access.PermCanReserve

// Membership links one user (or a pending email invite) to one ground.
type Membership struct {
	ID          string
	GroundID    string
	UserID      *string // nil until an email invitee accepts
	Email       string
	DisplayName string
	Role        access.Role
	Status      access.Status
	Permissions access.Permission
	CreatedAt   time.Time
}

// Grant is the view of the membership used to resolve access.
func (m *Membership) Grant() *access.Grant {
	return &access.Grant{Role: m.Role, Status: m.Status, Permissions: m.Permissions}
}

// IsActive reports whether the membership grants anything.
func (m *Membership) IsActive() bool {
	return m.Status == access.StatusActive
}

// Caller identifies the authenticated user acting on memberships.
type Caller struct {
	UserID      string
	Email       string
	DisplayName string
}

// InviteRequest creates a pending membership for an email.
type InviteRequest struct {
	Email       string
	Role        access.Role
	Permissions access.Permission
}

// UpdateRequest changes role and/or permissions; nil fields are left unchanged.
type UpdateRequest struct {
	Role        *access.Role
	Permissions *access.Permission
}
