package http

import (
	"time"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/membership"
)

// MemberURI binds /grounds/:id/members/:member_id.
type MemberURI struct {
	GroundID string `uri:"id" binding:"required,uuid"`
	MemberID string `uri:"member_id" binding:"required,uuid"`
}

type JoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required,alphanum,len=6"`
}

type InviteRequest struct {
	Email       string            `json:"email" binding:"required,email"`
	Role        access.Role       `json:"role" binding:"omitempty,oneof=admin member"`
	Permissions access.Permission `json:"permissions" binding:"omitempty,oneof=read_only can_reserve full_access"`
}

// UpdateMemberRequest uses pointers so an omitted field stays unchanged.
type UpdateMemberRequest struct {
	Role        *access.Role       `json:"role" binding:"omitempty,oneof=admin member"`
	Permissions *access.Permission `json:"permissions" binding:"omitempty,oneof=read_only can_reserve full_access"`
}

type MemberResponse struct {
	ID          string            `json:"id"`
	GroundID    string            `json:"ground_id"`
	UserID      *string           `json:"user_id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Role        access.Role       `json:"role"`
	Status      access.Status     `json:"status"`
	Permissions access.Permission `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewMemberResponse(m *membership.Membership) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		GroundID:    m.GroundID,
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		Status:      m.Status,
		Permissions: m.Permissions,
		CreatedAt:   m.CreatedAt,
	}
}

func newMemberList(list []*membership.Membership) []MemberResponse {
	out := make([]MemberResponse, len(list))
	for i, m := range list {
		out[i] = NewMemberResponse(m)
	}
	return out
}

// JoinResponse tells the client where the hunter landed.
type JoinResponse struct {
	Membership MemberResponse `json:"membership"`
	GroundID   string         `json:"ground_id"`
	GroundName string         `json:"ground_name"`
}
