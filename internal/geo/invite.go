package geo

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	InviteCodeLength = 6
	inviteAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteAttempts   = 10
)

// ErrInviteCodeExhausted is returned when every attempt collided with a stored code.
var ErrInviteCodeExhausted = errors.New("could not generate a unique invite code")

// CodeExists reports whether an invite code is already taken.
type CodeExists func(ctx context.Context, code string) (bool, error)

// CodeSource produces candidate invite codes.
type CodeSource func() (string, error)

// RandomCode draws an uppercase alphanumeric code from crypto/rand.
func RandomCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	n := big.NewInt(int64(len(inviteAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		buf[i] = inviteAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

// GenerateInviteCode returns a code from RandomCode that exists does not know.
func GenerateInviteCode(ctx context.Context, exists CodeExists) (string, error) {
	return GenerateInviteCodeFrom(ctx, RandomCode, exists)
}

// GenerateInviteCodeFrom is GenerateInviteCode with an explicit candidate source.
func GenerateInviteCodeFrom(ctx context.Context, next CodeSource, exists CodeExists) (string, error) {
	for range inviteAttempts {
		code, err := next()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrInviteCodeExhausted
}

// NormalizeInviteCode uppercases user input so codes match regardless of case.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
