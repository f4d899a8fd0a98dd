package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTable is the Postgres driver of Table, built on pgxpool and squirrel.
type PgxTable[T any] struct {
	pool  *pgxpool.Pool
	table string
	meta  *rowMeta
	cols  []string
	retry RetryPolicy
	psql  squirrel.StatementBuilderType
}

// NewPgxTable returns a Table backed by the named Postgres table.
// The selected and returned columns are taken from T's `db` tags.
func NewPgxTable[T any](pool *pgxpool.Pool, table string) *PgxTable[T] {
	meta := mustMeta[T]()
	return &PgxTable[T]{
		pool:  pool,
		table: table,
		meta:  meta,
		cols:  meta.names(),
		retry: DefaultRetry,
		psql:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithRetry replaces the read retry policy.
func (t *PgxTable[T]) WithRetry(p RetryPolicy) *PgxTable[T] {
	t.retry = p
	return t
}

func (t *PgxTable[T]) List(ctx context.Context) ([]*T, error) {
	return t.Filter(ctx, nil)
}

func (t *PgxTable[T]) Get(ctx context.Context, id string) (*T, error) {
	sql, args, err := t.psql.Select(t.cols...).From(t.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", t.table, err)
	}

	var row *T
	err = t.retry.Do(ctx, func() error {
		rows, err := t.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
		return err
	})
	if err != nil {
		return nil, t.mapError(err)
	}
	return row, nil
}

func (t *PgxTable[T]) Filter(ctx context.Context, criteria Criteria) ([]*T, error) {
	if err := t.checkColumns(map[string]any(criteria)); err != nil {
		return nil, err
	}

	query := t.psql.Select(t.cols...).From(t.table)
	if len(criteria) > 0 {
		query = query.Where(squirrel.Eq(criteria))
	}
	if t.meta.has("created_at") {
		query = query.OrderBy("created_at ASC")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build filter %s: %w", t.table, err)
	}

	var out []*T
	err = t.retry.Do(ctx, func() error {
		rows, err := t.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
		return err
	})
	if err != nil {
		return nil, t.mapError(err)
	}
	return out, nil
}

func (t *PgxTable[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	if err := t.checkColumns(fields); err != nil {
		return nil, err
	}

	sql, args, err := t.psql.Insert(t.table).
		SetMap(map[string]any(fields)).
		Suffix("RETURNING " + strings.Join(t.cols, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s: %w", t.table, err)
	}

	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, t.mapError(err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, t.mapError(err)
	}
	return row, nil
}

func (t *PgxTable[T]) Update(ctx context.Context, id string, fields Fields) (*T, error) {
	if err := t.checkColumns(fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return t.Get(ctx, id)
	}

	query := t.psql.Update(t.table).SetMap(map[string]any(fields))
	if _, ok := fields["updated_at"]; !ok && t.meta.has("updated_at") {
		query = query.Set("updated_at", squirrel.Expr("NOW()"))
	}

	sql, args, err := query.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(t.cols, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s: %w", t.table, err)
	}

	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, t.mapError(err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, t.mapError(err)
	}
	return row, nil
}

func (t *PgxTable[T]) Delete(ctx context.Context, id string) error {
	sql, args, err := t.psql.Delete(t.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", t.table, err)
	}

	tag, err := t.pool.Exec(ctx, sql, args...)
	if err != nil {
		return t.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *PgxTable[T]) checkColumns(fields map[string]any) error {
	for name := range fields {
		if !t.meta.has(name) {
			return fmt.Errorf("%s: unknown column %q", t.table, name)
		}
	}
	return nil
}

// mapError translates pgx errors into the gateway's sentinel errors.
func (t *PgxTable[T]) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgerrcode.InvalidTextRepresentation:
			// A malformed uuid can never match a stored row.
			return ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", t.table, err)
}
