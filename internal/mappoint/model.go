package mappoint

import (
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NotFound("map point not found")
	ErrNameRequired = apperror.Validation("point name is required")
	ErrInvalidType  = apperror.Validation("unknown point type")
	ErrOutOfRange   = apperror.Validation("coordinates are out of range")
)

// Type is the kind of hunting facility a point marks.
type Type string

const (
	TypeHighSeat   Type = "high_seat"
	TypePulpit     Type = "pulpit"
	TypeFeeder     Type = "feeder"
	TypeHut        Type = "hut"
	TypeDriveStand Type = "drive_stand"
	TypeOther      Type = "other"
)

// Types lists every point type in display order.
var Types = []Type{TypeHighSeat, TypePulpit, TypeFeeder, TypeHut, TypeDriveStand, TypeOther}

// Valid reports whether t is a known point type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Point is a marker on the ground map. Points are immutable once created.
type Point struct {
	ID          string
	GroundID    string
	Type        Type
	Name        string
	Description string
	Lat         float64
	Lng         float64
	CreatedBy   string
	CreatedAt   time.Time
}

type CreateRequest struct {
	Type        Type
	Name        string
	Description string
	Lat         float64
	Lng         float64
}
