package store

import (
	"fmt"
	"reflect"
	"strings"
)

// column describes one `db`-tagged field of a row struct.
type column struct {
	name  string
	index int
	typ   reflect.Type
}

// rowMeta is the column layout of a row struct, computed once per table.
type rowMeta struct {
	columns []column
	byName  map[string]column
}

func metaOf[T any]() (*rowMeta, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("store: row type %s is not a struct", t)
	}

	m := &rowMeta{byName: make(map[string]column)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if name == "" || name == "-" {
			continue
		}
		col := column{name: name, index: i, typ: f.Type}
		m.columns = append(m.columns, col)
		m.byName[name] = col
	}
	if _, ok := m.byName["id"]; !ok {
		return nil, fmt.Errorf("store: row type %s has no `db:\"id\"` field", t)
	}
	return m, nil
}

func mustMeta[T any]() *rowMeta {
	m, err := metaOf[T]()
	if err != nil {
		panic(err)
	}
	return m
}

func (m *rowMeta) names() []string {
	out := make([]string, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.name
	}
	return out
}

func (m *rowMeta) has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// assign stores v into the field, converting between T, *T and named types.
func assign(field reflect.Value, v any) error {
	ft := field.Type()
	if v == nil {
		field.Set(reflect.Zero(ft))
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			field.Set(reflect.Zero(ft))
			return nil
		}
		if !rv.Type().AssignableTo(ft) {
			rv = rv.Elem()
		}
	}

	switch {
	case rv.Type().AssignableTo(ft):
		field.Set(rv)
	case rv.Type().ConvertibleTo(ft) && rv.Kind() == ft.Kind():
		field.Set(rv.Convert(ft))
	case ft.Kind() == reflect.Pointer && rv.Type().ConvertibleTo(ft.Elem()) && rv.Kind() == ft.Elem().Kind():
		p := reflect.New(ft.Elem())
		p.Elem().Set(rv.Convert(ft.Elem()))
		field.Set(p)
	default:
		return fmt.Errorf("store: cannot assign %s to column of type %s", rv.Type(), ft)
	}
	return nil
}

// equal reports whether the field holds v, treating a nil pointer as NULL.
func equal(field reflect.Value, v any) bool {
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return isNil(v)
		}
		field = field.Elem()
	}
	if isNil(v) {
		return false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Type() != field.Type() {
		if !rv.Type().ConvertibleTo(field.Type()) || rv.Kind() != field.Kind() {
			return false
		}
		rv = rv.Convert(field.Type())
	}
	if field.Type().Comparable() {
		return field.Interface() == rv.Interface()
	}
	return reflect.DeepEqual(field.Interface(), rv.Interface())
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
