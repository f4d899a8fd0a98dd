package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTable is an in-process Table. It keeps rows in insertion order and
// emulates the unique constraints registered with Unique.
//
// Returned rows are copies; mutating them does not change stored state.
type MemoryTable[T any] struct {
	mu     sync.RWMutex
	meta   *rowMeta
	rows   map[string]*T
	order  []string
	unique [][]string
	now    func() time.Time
}

// NewMemoryTable returns an empty in-memory table for row type T.
func NewMemoryTable[T any]() *MemoryTable[T] {
	return &MemoryTable[T]{
		meta: mustMeta[T](),
		rows: make(map[string]*T),
		now:  time.Now,
	}
}

// Unique declares a set of columns whose values must not repeat across rows.
// Rows holding NULL in any of the columns are exempt, as in SQL.
func (t *MemoryTable[T]) Unique(columns ...string) *MemoryTable[T] {
	for _, c := range columns {
		if !t.meta.has(c) {
			panic(fmt.Sprintf("store: unique on unknown column %q", c))
		}
	}
	t.unique = append(t.unique, columns)
	return t
}

func (t *MemoryTable[T]) List(ctx context.Context) ([]*T, error) {
	return t.Filter(ctx, nil)
}

func (t *MemoryTable[T]) Get(_ context.Context, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(row), nil
}

func (t *MemoryTable[T]) Filter(_ context.Context, criteria Criteria) ([]*T, error) {
	for name := range criteria {
		if !t.meta.has(name) {
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0)
	for _, id := range t.order {
		row := t.rows[id]
		if t.matches(row, criteria) {
			out = append(out, clone(row))
		}
	}
	return out, nil
}

func (t *MemoryTable[T]) Create(_ context.Context, fields Fields) (*T, error) {
	row := new(T)
	if err := t.apply(row, fields); err != nil {
		return nil, err
	}

	v := reflect.ValueOf(row).Elem()
	idField := v.Field(t.meta.byName["id"].index)
	if idField.String() == "" {
		idField.SetString(uuid.NewString())
	}
	now := t.now().UTC()
	for _, name := range []string{"created_at", "updated_at"} {
		t.stamp(v, name, now, false)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := idField.String()
	if _, exists := t.rows[id]; exists {
		return nil, fmt.Errorf("%w: duplicate id %s", ErrConflict, id)
	}
	if err := t.checkUnique(row, ""); err != nil {
		return nil, err
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return clone(row), nil
}

func (t *MemoryTable[T]) Update(_ context.Context, id string, fields Fields) (*T, error) {
	if _, ok := fields["id"]; ok {
		return nil, fmt.Errorf("id cannot be updated")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := clone(current)
	if err := t.apply(next, fields); err != nil {
		return nil, err
	}
	if _, ok := fields["updated_at"]; !ok && len(fields) > 0 {
		t.stamp(reflect.ValueOf(next).Elem(), "updated_at", t.now().UTC(), true)
	}
	if err := t.checkUnique(next, id); err != nil {
		return nil, err
	}
	t.rows[id] = next
	return clone(next), nil
}

func (t *MemoryTable[T]) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	return nil
}

func (t *MemoryTable[T]) apply(row *T, fields Fields) error {
	v := reflect.ValueOf(row).Elem()
	for name, value := range fields {
		col, ok := t.meta.byName[name]
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		if err := assign(v.Field(col.index), value); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
	}
	return nil
}

// stamp sets a time column when present. Unless force is set, a value already
// supplied by the caller is kept.
func (t *MemoryTable[T]) stamp(v reflect.Value, name string, now time.Time, force bool) {
	col, ok := t.meta.byName[name]
	if !ok {
		return
	}
	f := v.Field(col.index)
	switch f.Interface().(type) {
	case time.Time:
		if force || f.Interface().(time.Time).IsZero() {
			f.Set(reflect.ValueOf(now))
		}
	case *time.Time:
		if force || f.IsNil() {
			f.Set(reflect.ValueOf(&now))
		}
	}
}

func (t *MemoryTable[T]) matches(row *T, criteria Criteria) bool {
	v := reflect.ValueOf(row).Elem()
	for name, want := range criteria {
		if !equal(v.Field(t.meta.byName[name].index), want) {
			return false
		}
	}
	return true
}

// checkUnique must run with the write lock held. skipID excludes the row being updated.
func (t *MemoryTable[T]) checkUnique(row *T, skipID string) error {
	v := reflect.ValueOf(row).Elem()
	for _, cols := range t.unique {
		key := make(Criteria, len(cols))
		null := false
		for _, c := range cols {
			f := v.Field(t.meta.byName[c].index)
			if f.Kind() == reflect.Pointer && f.IsNil() {
				null = true
				break
			}
			key[c] = f.Interface()
		}
		if null {
			continue
		}
		for id, other := range t.rows {
			if id != skipID && t.matches(other, key) {
				return fmt.Errorf("%w: %v", ErrConflict, cols)
			}
		}
	}
	return nil
}

func clone[T any](row *T) *T {
	cp := *row
	return &cp
}
