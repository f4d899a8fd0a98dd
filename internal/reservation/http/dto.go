package http

import (
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/request"
	"github.com/premuk420/Myslivec/internal/reservation"
)

type CreateReservationRequest struct {
	MapPointID *string  `json:"map_point_id" binding:"omitempty,uuid"`
	CustomLat  *float64 `json:"custom_lat" binding:"omitempty,min=-90,max=90"`
	CustomLng  *float64 `json:"custom_lng" binding:"omitempty,min=-180,max=180"`
	Date       string   `json:"date" binding:"required,ymd"`
	StartTime  string   `json:"start_time" binding:"required,hhmm"`
	EndTime    string   `json:"end_time" binding:"required,hhmm"`
	Note       string   `json:"note" binding:"max=1000"`
}

// ListReservationsRequest is the query of the reservations overview.
type ListReservationsRequest struct {
	request.ListParams
	GroundID string `form:"ground_id" binding:"omitempty,uuid"`
	Bucket   string `form:"bucket" binding:"omitempty,oneof=today upcoming history"`
}

type ReservationResponse struct {
	ID                        string             `json:"id"`
	GroundID                  string             `json:"ground_id"`
	UserID                    string             `json:"user_id"`
	UserName                  string             `json:"user_name"`
	MapPointID                *string            `json:"map_point_id"`
	CustomLat                 *float64           `json:"custom_lat"`
	CustomLng                 *float64           `json:"custom_lng"`
	Date                      string             `json:"date"`
	StartTime                 time.Time          `json:"start_time"`
	EndTime                   time.Time          `json:"end_time"`
	Note                      string             `json:"note"`
	Status                    reservation.Status `json:"status"`
	CreatedAt                 time.Time          `json:"created_at"`
	ConflictingReservationIDs []string           `json:"conflicting_reservation_ids,omitempty"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:                        r.ID,
		GroundID:                  r.GroundID,
		UserID:                    r.UserID,
		UserName:                  r.UserName,
		MapPointID:                r.MapPointID,
		CustomLat:                 r.CustomLat,
		CustomLng:                 r.CustomLng,
		Date:                      r.Date,
		StartTime:                 r.StartTime,
		EndTime:                   r.EndTime,
		Note:                      r.Note,
		Status:                    r.Status,
		CreatedAt:                 r.CreatedAt,
		ConflictingReservationIDs: r.ConflictingReservationIDs,
	}
}

func newReservationList(list []*reservation.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(list))
	for i, r := range list {
		out[i] = NewReservationResponse(r)
	}
	return out
}
