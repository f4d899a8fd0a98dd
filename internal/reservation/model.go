package reservation

import (
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("reservation not found")
	ErrInvalidTimeRange = apperror.Validation("end time must be after start time")
	ErrInvalidDate      = apperror.Validation("date must be YYYY-MM-DD")
	ErrInvalidTime      = apperror.Validation("times must be HH:MM")
	ErrSkippedTime      = apperror.Validation("time does not exist on that date in the ground timezone")
	ErrLocationRequired = apperror.Validation("choose a map point or give custom coordinates")
	ErrOutOfRange       = apperror.Validation("coordinates are out of range")
	ErrNotActive        = apperror.Conflict("reservation is no longer active")
	ErrNotYours         = apperror.Forbidden("you can only change your own reservations")
	ErrSlotTaken        = apperror.Conflict("slot already reserved")
	ErrInvalidBucket    = apperror.Validation("bucket must be today, upcoming or history")
)

// DateLayout is the calendar date format of the date field.
const DateLayout = "2006-01-02"

// ClockLayout is the HH:MM format of start and end times.
const ClockLayout = "15:04"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reservation books a map point, or a free GPS spot, for a time window.
type Reservation struct {
	ID         string
	GroundID   string
	UserID     string
	UserName   string
	MapPointID *string // nil for a free-form GPS reservation
	CustomLat  *float64
	CustomLng  *float64
	Date       string // ground-local YYYY-MM-DD
	StartTime  time.Time
	EndTime    time.Time
	Note       string
	Status     Status
	CreatedAt  time.Time

	// ConflictingReservationIDs is set when a check after the write found
	// overlapping active reservations on the same point.
	ConflictingReservationIDs []string
}

func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// CreateRequest carries the reservation form. Date and times are in the
// ground's timezone.
type CreateRequest struct {
	UserName   string
	MapPointID *string
	CustomLat  *float64
	CustomLng  *float64
	Date       string
	StartTime  string
	EndTime    string
	Note       string
}

// Bucket is a tab of the reservations overview.
type Bucket string

const (
	BucketAll      Bucket = ""
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
	BucketHistory  Bucket = "history"
)

// ListFilter narrows the reservations overview.
type ListFilter struct {
	GroundID string
	Bucket   Bucket
}
