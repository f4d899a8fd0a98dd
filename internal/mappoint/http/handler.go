package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/mappoint"
	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/pkg/response"
)

type MapPointHandler struct {
	service mappoint.Service
}

func NewHandler(service mappoint.Service) *MapPointHandler {
	return &MapPointHandler{service: service}
}

// List returns the points of a ground.
func (h *MapPointHandler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	points, err := h.service.List(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PointResponse, len(points))
	for i, p := range points {
		items[i] = NewPointResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create places a point on the map.
// Access Control: can_edit_points.
func (h *MapPointHandler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	var body CreatePointRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), uri.ID, auth.GetUserID(c), mappoint.CreateRequest{
		Type:        body.Type,
		Name:        body.Name,
		Description: body.Description,
		Lat:         *body.Lat,
		Lng:         *body.Lng,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPointResponse(p))
}

// Delete removes a point.
// Access Control: can_edit_points.
func (h *MapPointHandler) Delete(c *gin.Context) {
	var uri PointURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid point id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.GroundID, auth.GetUserID(c), uri.PointID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
