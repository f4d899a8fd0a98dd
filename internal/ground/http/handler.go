package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/ground"
	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/pkg/response"
)

type GroundHandler struct {
	service ground.Service
}

func NewHandler(service ground.Service) *GroundHandler {
	return &GroundHandler{service: service}
}

// Create adds a ground owned by the caller.
func (h *GroundHandler) Create(c *gin.Context) {
	var req CreateGroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	userID := auth.GetUserID(c)
	g, err := h.service.Create(c.Request.Context(), userID, ground.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Boundary:    req.Boundary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	d := access.Resolve(userID, g.OwnerID, nil)
	c.JSON(http.StatusCreated, GroundDetailResponse{GroundResponse: NewGroundResponse(g, d), Access: d})
}

// Get returns the ground, its centroid and the caller's capabilities.
func (h *GroundHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	g, d, err := h.service.Get(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, GroundDetailResponse{GroundResponse: NewGroundResponse(g, d), Access: d})
}

// Update renames the ground or changes its description.
// Access Control: owner or admin.
func (h *GroundHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	var body UpdateGroundRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	userID := auth.GetUserID(c)
	g, err := h.service.Update(c.Request.Context(), uri.ID, userID, ground.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondFresh(c, g.ID, userID)
}

// SetBoundary replaces the drawn boundary.
// Access Control: can_draw_boundary.
func (h *GroundHandler) SetBoundary(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	var body BoundaryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	userID := auth.GetUserID(c)
	g, err := h.service.SetBoundary(c.Request.Context(), uri.ID, userID, body.Points)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondFresh(c, g.ID, userID)
}

// RegenerateInviteCode issues a new invite code; the old one stops working.
// Access Control: owner or admin.
func (h *GroundHandler) RegenerateInviteCode(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	userID := auth.GetUserID(c)
	g, err := h.service.RegenerateInviteCode(c.Request.Context(), uri.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondFresh(c, g.ID, userID)
}

// Delete removes the ground with its points, reservations and memberships.
// Access Control: owner only.
func (h *GroundHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PreviewBoundary applies an optional undo to a draft and reports validity
// and centroid. Nothing is stored.
func (h *GroundHandler) PreviewBoundary(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	points := req.Points
	if points == nil {
		points = []geo.Point{}
	}
	if req.UndoLast {
		points = geo.UndoLast(points)
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Points:   points,
		Valid:    geo.Validate(points) == nil && geo.IsValidBoundary(points),
		Centroid: geo.Centroid(points),
	})
}

// PreviewInvite shows name and description of the ground behind a code.
func (h *GroundHandler) PreviewInvite(c *gin.Context) {
	var uri InviteCodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid invite code", err)
		return
	}

	g, err := h.service.GetByInviteCode(c.Request.Context(), uri.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, InvitePreviewResponse{ID: g.ID, Name: g.Name, Description: g.Description})
}

// respondFresh re-reads the ground so the client sees stored state.
func (h *GroundHandler) respondFresh(c *gin.Context, groundID, userID string) {
	g, d, err := h.service.Get(c.Request.Context(), groundID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, GroundDetailResponse{GroundResponse: NewGroundResponse(g, d), Access: d})
}
