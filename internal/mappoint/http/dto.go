package http

import (
	"time"

	"github.com/premuk420/Myslivec/internal/mappoint"
)

// PointURI binds /grounds/:id/points/:point_id.
type PointURI struct {
	GroundID string `uri:"id" binding:"required,uuid"`
	PointID  string `uri:"point_id" binding:"required,uuid"`
}

type CreatePointRequest struct {
	Type        mappoint.Type `json:"type" binding:"required,point_type"`
	Name        string        `json:"name" binding:"required,max=200"`
	Description string        `json:"description" binding:"max=2000"`
	Lat         *float64      `json:"lat" binding:"required,min=-90,max=90"`
	Lng         *float64      `json:"lng" binding:"required,min=-180,max=180"`
}

type PointResponse struct {
	ID          string        `json:"id"`
	GroundID    string        `json:"ground_id"`
	Type        mappoint.Type `json:"type"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Lat         float64       `json:"lat"`
	Lng         float64       `json:"lng"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewPointResponse(p *mappoint.Point) PointResponse {
	return PointResponse{
		ID:          p.ID,
		GroundID:    p.GroundID,
		Type:        p.Type,
		Name:        p.Name,
		Description: p.Description,
		Lat:         p.Lat,
		Lng:         p.Lng,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}
