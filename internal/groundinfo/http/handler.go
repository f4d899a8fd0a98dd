package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/groundinfo"
	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/pkg/response"
	reservationHttp "github.com/premuk420/Myslivec/internal/reservation/http"
)

type GroundInfoHandler struct {
	service groundinfo.Service
}

func NewHandler(service groundinfo.Service) *GroundInfoHandler {
	return &GroundInfoHandler{service: service}
}

// List returns the home page cards: every ground the caller owns or has joined.
func (h *GroundInfoHandler) List(c *gin.Context) {
	list, err := h.service.ListForUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SummaryResponse, len(list))
	for i, s := range list {
		items[i] = NewSummaryResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get returns the ground info page.
func (h *GroundInfoHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid ground id", err)
		return
	}

	info, err := h.service.Get(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	upcoming := make([]reservationHttp.ReservationResponse, len(info.Upcoming))
	for i, r := range info.Upcoming {
		upcoming[i] = reservationHttp.NewReservationResponse(r)
	}
	c.JSON(http.StatusOK, InfoResponse{
		SummaryResponse: NewSummaryResponse(info.Summary),
		Upcoming:        upcoming,
	})
}
