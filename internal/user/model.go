package user

import (
	"time"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.AuthRequired("invalid email or password")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrDisplayNameEmpty   = apperror.Validation("display name must not be empty")
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// User represents a registered hunter.
type User struct {
	ID           string // UUID
	Email        string // lowercase
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// RegisterRequest carries a new account. Email is normalised by the service.
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// Name is what other hunters see: the display name, or the email when unset.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
