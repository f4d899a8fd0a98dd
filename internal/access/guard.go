package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

// OwnerLookup returns the owner of a ground, or a not-found AppError.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, groundID string) (string, error)
}

// GrantLookup returns the caller's membership on a ground, or nil when there is none.
type GrantLookup interface {
	GrantFor(ctx context.Context, groundID, userID string) (*Grant, error)
}

// Guard loads the inputs of Resolve and enforces its result.
type Guard struct {
	owners OwnerLookup
	grants GrantLookup
}

func NewGuard(owners OwnerLookup, grants GrantLookup) *Guard {
	return &Guard{owners: owners, grants: grants}
}

// Decide resolves the caller's access on a ground.
func (g *Guard) Decide(ctx context.Context, groundID, userID string) (Decision, error) {
	ownerID, err := g.owners.OwnerOf(ctx, groundID)
	if err != nil {
		return Decision{}, asAppError(err, "load ground owner")
	}
	if userID != "" && userID == ownerID {
		return Resolve(userID, ownerID, nil), nil
	}

	grant, err := g.grants.GrantFor(ctx, groundID, userID)
	if err != nil {
		return Decision{}, asAppError(err, "load membership")
	}
	return Resolve(userID, ownerID, grant), nil
}

// Require resolves access and fails with a forbidden error unless the action is allowed.
func (g *Guard) Require(ctx context.Context, groundID, userID string, action Action) (Decision, error) {
	d, err := g.Decide(ctx, groundID, userID)
	if err != nil {
		return Decision{}, err
	}
	if !d.Capabilities.Allows(action) {
		return d, apperror.Forbidden(fmt.Sprintf("you are not allowed to %s", action))
	}
	return d, nil
}

func asAppError(err error, action string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Store(err, action)
}
