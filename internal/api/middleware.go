package api

import (
	"context"
	"errors"

	"github.com/premuk420/Myslivec/internal/auth"
	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/user"
)

var errAccountDisabled = apperror.AuthRequired("account is disabled")

// RequireActiveUser rejects tokens of users that were removed or deactivated
// after the token was issued. It runs inside auth.AuthRequired.
func RequireActiveUser(userService user.Service) auth.UserCheck {
	return func(ctx context.Context, userID string) error {
		u, err := userService.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return errAccountDisabled
			}
			return err
		}
		if !u.IsActive {
			return errAccountDisabled
		}
		return nil
	}
}
