package http

import (
	"time"

	"github.com/premuk420/Myslivec/internal/access"
	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/ground"
)

// CreateGroundRequest is the payload of the create wizard.
type CreateGroundRequest struct {
	Name        string      `json:"name" binding:"required,max=200"`
	Description string      `json:"description" binding:"max=2000"`
	Boundary    []geo.Point `json:"boundary"`
}

// UpdateGroundRequest uses pointers so an omitted field stays unchanged.
type UpdateGroundRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// BoundaryRequest replaces the whole boundary. An empty list clears it.
type BoundaryRequest struct {
	Points []geo.Point `json:"points" binding:"required"`
}

// PreviewRequest is a draft boundary from the drawing tool.
type PreviewRequest struct {
	Points   []geo.Point `json:"points"`
	UndoLast bool        `json:"undo_last"`
}

// PreviewResponse tells the drawing tool what the draft would look like.
type PreviewResponse struct {
	Points   []geo.Point `json:"points"`
	Valid    bool        `json:"valid"`
	Centroid geo.Point   `json:"centroid"`
}

// InviteCodeURI binds the :code path parameter.
type InviteCodeURI struct {
	Code string `uri:"code" binding:"required,alphanum,len=6"`
}

// GroundResponse is a ground with its derived centroid.
type GroundResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	OwnerID     string      `json:"owner_id"`
	Boundary    []geo.Point `json:"boundary"`
	Centroid    geo.Point   `json:"centroid"`
	InviteCode  string      `json:"invite_code,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewGroundResponse converts a ground. The invite code is only shown to
// those who can manage the ground.
func NewGroundResponse(g *ground.Ground, d access.Decision) GroundResponse {
	resp := GroundResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		Boundary:    g.Boundary,
		Centroid:    g.Centroid(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if resp.Boundary == nil {
		resp.Boundary = []geo.Point{}
	}
	if d.IsManager() {
		resp.InviteCode = g.InviteCode
	}
	return resp
}

// GroundDetailResponse adds the caller's access to a ground.
type GroundDetailResponse struct {
	GroundResponse
	Access access.Decision `json:"access"`
}

// InvitePreviewResponse is what a hunter sees before joining with a code.
type InvitePreviewResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
