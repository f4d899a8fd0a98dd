package store

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend selects the driver every table of the application is opened on.
type Backend struct {
	Driver string
	Pool   *pgxpool.Pool
}

// Validate reports a driver name that is unknown or lacks its connection.
func (b Backend) Validate() error {
	switch b.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if b.Pool == nil {
			return fmt.Errorf("store: postgres driver needs a connection pool")
		}
		return nil
	default:
		return fmt.Errorf("store: unknown driver %q", b.Driver)
	}
}

// Open returns the table named name on the backend's driver. The unique column
// sets are enforced by the memory driver; on Postgres the schema declares them.
func Open[T any](b Backend, name string, unique ...[]string) Table[T] {
	if b.Driver == DriverPostgres {
		return NewPgxTable[T](b.Pool, name)
	}
	t := NewMemoryTable[T]()
	for _, cols := range unique {
		t.Unique(cols...)
	}
	return t
}
