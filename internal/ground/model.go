package ground

import (
	"time"

	"github.com/premuk420/Myslivec/internal/geo"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("ground not found")
	ErrNameRequired    = apperror.Validation("name is required")
	ErrInviteNotFound  = apperror.NotFound("invite code not found")
	ErrInviteCodeTaken = apperror.Conflict("invite code already in use")
)

// Ground is a hunting territory owned by one user.
type Ground struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Boundary    []geo.Point
	InviteCode  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Centroid recomputes the map center from the live boundary.
func (g *Ground) Centroid() geo.Point {
	return geo.Centroid(g.Boundary)
}

// CreateRequest holds the fields of the create wizard.
type CreateRequest struct {
	Name        string
	Description string
	Boundary    []geo.Point
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
}
