package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/membership"
	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/pkg/response"
	"github.com/premuk420/Myslivec/internal/user"
)

type MembershipHandler struct {
	service membership.Service
	users   user.Service
}

func NewHandler(service membership.Service, users user.Service) *MembershipHandler {
	return &MembershipHandler{service: service, users: users}
}

// caller loads the current user once so memberships carry email and name.
func (h *MembershipHandler) caller(c *gin.Context) (membership.Caller, bool) {
	u, err := h.users.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return membership.Caller{}, false
	}
	return membership.Caller{UserID: u.ID, Email: u.Email, DisplayName: u.Name()}, true
}

// Join adds the caller to the ground behind an invite code.
func (h *MembershipHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	caller, ok := h.caller(c)
	if !ok {
		return
	}

	m, g, err := h.service.Join(c.Request.Context(), caller, req.InviteCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, JoinResponse{
		Membership: NewMemberResponse(m),
		GroundID:   g.ID,
		GroundName: g.Name,
	})
}

// List returns all memberships of a ground, pending ones included.
// Access Control: anyone who can view the ground.
func (h *MembershipHandler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	list, err := h.service.ListByGround(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": newMemberList(list)})
}

// Invite creates a pending membership for an email.
// Access Control: owner or admin.
func (h *MembershipHandler) Invite(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	var body InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	m, err := h.service.Invite(c.Request.Context(), uri.ID, auth.GetUserID(c), membership.InviteRequest{
		Email:       body.Email,
		Role:        body.Role,
		Permissions: body.Permissions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMemberResponse(m))
}

// Update changes a member's role or permissions.
// Access Control: owner or admin.
func (h *MembershipHandler) Update(c *gin.Context) {
	var uri MemberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid member id", err)
		return
	}

	var body UpdateMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	m, err := h.service.Update(c.Request.Context(), uri.GroundID, auth.GetUserID(c), uri.MemberID, membership.UpdateRequest{
		Role:        body.Role,
		Permissions: body.Permissions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMemberResponse(m))
}

// Remove deletes a membership or withdraws a pending invite.
// Access Control: owner or admin.
func (h *MembershipHandler) Remove(c *gin.Context) {
	var uri MemberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid member id", err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), uri.GroundID, auth.GetUserID(c), uri.MemberID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave removes the caller's own membership.
func (h *MembershipHandler) Leave(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	if err := h.service.Leave(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPending returns the invites addressed to the caller's email.
func (h *MembershipHandler) ListPending(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	list, err := h.service.ListPending(c.Request.Context(), caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": newMemberList(list)})
}

// Accept activates a pending invite for the caller.
func (h *MembershipHandler) Accept(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid membership id", err)
		return
	}

	caller, ok := h.caller(c)
	if !ok {
		return
	}

	m, err := h.service.Accept(c.Request.Context(), caller, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMemberResponse(m))
}
