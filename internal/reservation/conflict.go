package reservation

import (
	"fmt"
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

// Proposal is a reservation that has not been written yet.
type Proposal struct {
	MapPointID *string
	Start      time.Time
	End        time.Time
}

// CheckConflict decides whether the proposal may be written next to the
// existing reservations.
//
// Windows are half-open, so a reservation ending at 12:00 does not collide
// with one starting at 12:00. Free-form reservations never collide. Times in
// the error message are rendered in the location of proposed.Start.
func CheckConflict(existing []*Reservation, proposed Proposal) error {
	if !proposed.End.After(proposed.Start) {
		return ErrInvalidTimeRange
	}
	if proposed.MapPointID == nil {
		return nil
	}

	for _, r := range existing {
		if r.MapPointID == nil || *r.MapPointID != *proposed.MapPointID || !r.IsActive() {
			continue
		}
		if overlaps(r.StartTime, r.EndTime, proposed.Start, proposed.End) {
			return apperror.Conflict("slot already reserved " + window(r, proposed.Start))
		}
	}
	return nil
}

// Overlapping returns the active reservations on the same point colliding
// with r, r itself excluded.
func Overlapping(existing []*Reservation, r *Reservation) []*Reservation {
	if r.MapPointID == nil {
		return nil
	}
	var out []*Reservation
	for _, o := range existing {
		if o.ID == r.ID || o.MapPointID == nil || *o.MapPointID != *r.MapPointID || !o.IsActive() {
			continue
		}
		if overlaps(o.StartTime, o.EndTime, r.StartTime, r.EndTime) {
			out = append(out, o)
		}
	}
	return out
}

func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// window formats the reserved slot as "16:00-18:00", adding the date to an
// end that falls on another day than the proposal.
func window(r *Reservation, ref time.Time) string {
	loc := ref.Location()
	start, end := r.StartTime.In(loc), r.EndTime.In(loc)
	day := ref.Format(DateLayout)

	format := func(t time.Time) string {
		if t.Format(DateLayout) != day {
			return t.Format(DateLayout + " " + ClockLayout)
		}
		return t.Format(ClockLayout)
	}
	return fmt.Sprintf("%s-%s", format(start), format(end))
}
