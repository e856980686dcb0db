package store

import (
	"context"
	"errors"

	perr "crowdgit/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is returned by One when the query matched nothing
var ErrNoRows = perr.New(perr.ErrorCodeNotFound, "no rows")

// ExecAffected runs a write and returns the affected row count
func ExecAffected(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "exec")
	}
	return tag.RowsAffected(), nil
}

// Scalar scans the first column of the first row into T
// A missing row yields ErrNoRows
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNoRows
		}
		return zero, perr.FromPostgres(err, "scan")
	}
	return v, nil
}

// Many maps every row through scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "query")
	}
	defer rs.Close()

	var out []T
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rs.Err()
}
