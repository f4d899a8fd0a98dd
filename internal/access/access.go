// Package access resolves what a user may do on a hunting ground.
//
// Resolve is the single place where ownership and membership turn into
// capabilities. Services never inspect roles themselves; they ask a Guard.
package access

// Role is the effective role of a user on a ground.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleNone   Role = "none"
)

// Permission refines what a member (not an admin) may do.
type Permission string

const (
	PermReadOnly   Permission = "read_only"
	PermCanReserve Permission = "can_reserve"
	PermFullAccess Permission = "full_access"
)

// Status of a membership row. Only active rows grant anything.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// Grant is the part of a membership row needed to resolve access.
type Grant struct {
	Role        Role
	Status      Status
	Permissions Permission
}

// Capabilities is the set of actions a user may perform on a ground.
type Capabilities struct {
	CanView          bool `json:"can_view"`
	CanReserve       bool `json:"can_reserve"`
	CanEditPoints    bool `json:"can_edit_points"`
	CanDrawBoundary  bool `json:"can_draw_boundary"`
	CanManageMembers bool `json:"can_manage_members"`
	CanDeleteGround  bool `json:"can_delete_ground"`
}

// Decision is the outcome of Resolve.
type Decision struct {
	Role         Role         `json:"role"`
	Permissions  Permission   `json:"permissions,omitempty"`
	Capabilities Capabilities `json:"capabilities"`
}

// Resolve computes the effective role and capabilities.
//
// Precedence is strict: the owner wins regardless of any membership row. A
// pending membership is the same as no membership. Unknown permissions on an
// active member fall back to read_only.
func Resolve(userID, ownerID string, grant *Grant) Decision {
	if userID != "" && userID == ownerID {
		return Decision{Role: RoleOwner, Capabilities: Capabilities{
			CanView:          true,
			CanReserve:       true,
			CanEditPoints:    true,
			CanDrawBoundary:  true,
			CanManageMembers: true,
			CanDeleteGround:  true,
		}}
	}

	if userID == "" || grant == nil || grant.Status != StatusActive {
		return Decision{Role: RoleNone}
	}

	switch grant.Role {
	case RoleAdmin:
		return Decision{Role: RoleAdmin, Capabilities: Capabilities{
			CanView:          true,
			CanReserve:       true,
			CanEditPoints:    true,
			CanDrawBoundary:  true,
			CanManageMembers: true,
		}}
	case RoleMember:
		perm := NormalizePermission(grant.Permissions)
		caps := Capabilities{CanView: true}
		switch perm {
		case PermCanReserve:
			caps.CanReserve = true
		case PermFullAccess:
			caps.CanReserve = true
			caps.CanEditPoints = true
			caps.CanDrawBoundary = true
		}
		return Decision{Role: RoleMember, Permissions: perm, Capabilities: caps}
	default:
		return Decision{Role: RoleNone}
	}
}

// NormalizePermission maps anything unrecognised to read_only.
func NormalizePermission(p Permission) Permission {
	switch p {
	case PermCanReserve, PermFullAccess:
		return p
	default:
		return PermReadOnly
	}
}

// ValidPermission reports whether p is one of the known permission values.
func ValidPermission(p Permission) bool {
	return p == PermReadOnly || p == PermCanReserve || p == PermFullAccess
}

// ValidMemberRole reports whether r may be stored on a membership row.
func ValidMemberRole(r Role) bool {
	return r == RoleAdmin || r == RoleMember
}

// Action names a capability gate.
type Action string

const (
	ActionView          Action = "view this ground"
	ActionReserve       Action = "reserve on this ground"
	ActionEditPoints    Action = "edit map points"
	ActionDrawBoundary  Action = "draw the boundary"
	ActionManageMembers Action = "manage members"
	ActionEditGround    Action = "edit ground settings"
	ActionDeleteGround  Action = "delete this ground"
)

// Allows reports whether the capability set covers the action.
func (c Capabilities) Allows(a Action) bool {
	switch a {
	case ActionView:
		return c.CanView
	case ActionReserve:
		return c.CanReserve
	case ActionEditPoints:
		return c.CanEditPoints
	case ActionDrawBoundary:
		return c.CanDrawBoundary
	case ActionManageMembers, ActionEditGround:
		return c.CanManageMembers
	case ActionDeleteGround:
		return c.CanDeleteGround
	default:
		return false
	}
}

// IsManager reports whether the decision belongs to the owner or an admin.
func (d Decision) IsManager() bool {
	return d.Role == RoleOwner || d.Role == RoleAdmin
}
