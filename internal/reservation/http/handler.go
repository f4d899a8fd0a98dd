package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/pkg/response"
	"github.com/premuk420/Myslivec/internal/reservation"
	"github.com/premuk420/Myslivec/internal/user"
)

type ReservationHandler struct {
	service reservation.Service
	users   user.Service
}

func NewHandler(service reservation.Service, users user.Service) *ReservationHandler {
	return &ReservationHandler{service: service, users: users}
}

// ListByGround returns the active reservations shown on the ground map.
func (h *ReservationHandler) ListByGround(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"items": newReservationList(list)})
}

// Create reserves a map point or a free GPS spot.
// Access Control: can_reserve.
func (h *ReservationHandler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	userID := auth.GetUserID(c)
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), uri.ID, userID, reservation.CreateRequest{
		UserName:   u.Name(),
		MapPointID: body.MapPointID,
		CustomLat:  body.CustomLat,
		CustomLng:  body.CustomLng,
		Date:       body.Date,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Note:       body.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r))
}

// List is the reservations overview across every ground of the caller.
func (h *ReservationHandler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query", err)
		return
	}
	req.Normalize()

	list, err := h.service.ListForUser(c.Request.Context(), auth.GetUserID(c), reservation.ListFilter{
		GroundID: req.GroundID,
		Bucket:   reservation.Bucket(req.Bucket),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginate(newReservationList(list), req.Page, req.PageSize))
}

func (h *ReservationHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	r, err := h.service.Get(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

// Cancel frees the slot.
// Access Control: author with can_reserve, owner or admin.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// Complete marks the reservation as done.
// Access Control: author with can_reserve, owner or admin.
func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *ReservationHandler) transition(c *gin.Context, apply func(ctx context.Context, id, userID string) (*reservation.Reservation, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	r, err := apply(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}
