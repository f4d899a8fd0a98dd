package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
	"github.com/premuk420/Myslivec/internal/pkg/response"
)

// UserCheck runs after the token is accepted and may still reject the caller.
type UserCheck func(ctx context.Context, userID string) error

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>.
// Failures answer 401 with kind auth_required so the client can redirect to login.
func AuthRequired(jwtManager *JWTManager, checks ...UserCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apperror.AuthRequired("missing Authorization header"))
			return
		}

		scheme, tokenStr, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenStr) == "" {
			response.Error(c, apperror.AuthRequired("invalid Authorization header format"))
			return
		}

		claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(tokenStr))
		if errors.Is(err, ErrTokenExpired) {
			response.Error(c, apperror.AuthRequired("token expired"))
			return
		}
		if err != nil {
			response.Error(c, apperror.AuthRequired("invalid token"))
			return
		}

		for _, check := range checks {
			if err := check(c.Request.Context(), claims.UserID()); err != nil {
				response.Error(c, err)
				return
			}
		}

		// Store user info into Gin context for later handlers.
		c.Set(UserIDKey, claims.UserID())
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}
