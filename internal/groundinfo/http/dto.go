package http

import (
	"github.com/premuk420/Myslivec/internal/access"
	groundHttp "github.com/premuk420/Myslivec/internal/ground/http"
	"github.com/premuk420/Myslivec/internal/groundinfo"
	reservationHttp "github.com/premuk420/Myslivec/internal/reservation/http"
)

type SummaryResponse struct {
	groundHttp.GroundResponse
	Access             access.Decision `json:"access"`
	MemberCount        int             `json:"member_count"`
	PointCount         int             `json:"point_count"`
	ActiveReservations int             `json:"active_reservations"`
}

func NewSummaryResponse(s groundinfo.Summary) SummaryResponse {
	return SummaryResponse{
		GroundResponse:     groundHttp.NewGroundResponse(s.Ground, s.Access),
		Access:             s.Access,
		MemberCount:        s.MemberCount,
		PointCount:         s.PointCount,
		ActiveReservations: s.ActiveReservations,
	}
}

type InfoResponse struct {
	SummaryResponse
	Upcoming []reservationHttp.ReservationResponse `json:"upcoming"`
}
