package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RetryPolicy bounds how often a read is attempted against a flaky backend.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetry is applied to List, Get and Filter on the Postgres driver.
var DefaultRetry = RetryPolicy{Attempts: 3, BaseDelay: 50 * time.Millisecond}

// Do runs fn until it succeeds, fails with a non-transient error, or the attempts run out.
// The delay doubles after every failed attempt.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay

	var err error
	for i := 1; ; i++ {
		if err = fn(); err == nil || !transient(err) || i >= attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay *= 2
	}
}

// transient reports whether err looks like a connection problem rather than
// an answer from the database.
func transient(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, pgx.ErrNoRows):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}
