// Package store is the record store gateway: a generic CRUD table keyed by a
// string id, with a Postgres driver and an in-memory driver.
//
// Row types are plain structs whose fields carry `db:"column"` tags. The
// column tagged "id" is the primary key and is generated by the driver.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get, Update and Delete when no row has the id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness or exclusion constraint.
	ErrConflict = errors.New("record conflicts with an existing record")
)

// Fields maps column names to values for Create and Update.
type Fields map[string]any

// Criteria maps column names to values; Filter returns rows equal on every column.
type Criteria map[string]any

// Table is the CRUD contract every entity table offers.
type Table[T any] interface {
	// List returns every row, in unspecified order.
	List(ctx context.Context) ([]*T, error)
	// Get returns the row with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*T, error)
	// Filter returns the rows matching all criteria by equality.
	Filter(ctx context.Context, criteria Criteria) ([]*T, error)
	// Create inserts a row and returns it as stored, including its generated id.
	Create(ctx context.Context, fields Fields) (*T, error)
	// Update applies a partial update and returns the updated row.
	Update(ctx context.Context, id string, fields Fields) (*T, error)
	// Delete removes the row with the given id.
	Delete(ctx context.Context, id string) error
}

// Driver names understood by Open.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)
