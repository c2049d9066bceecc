package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/infra/metrics"
)

// execSQL runs a statement on the tx when one is present, otherwise the pool.
func execSQL(ctx context.Context, pool *pgxpool.Pool, tx interface{}, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	tag, err := ex.Exec(ctx, sql, args...)
	if err != nil {
		metrics.IncDBError("exec")
	}
	return tag, err
}

func pickRow(ctx context.Context, pool *pgxpool.Pool, tx interface{}, sql string, args ...interface{}) (pgx.Row, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	return ex.QueryRow(ctx, sql, args...), nil
}

func queryRows(ctx context.Context, pool *pgxpool.Pool, tx interface{}, sql string, args ...interface{}) (pgx.Rows, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, sql, args...)
	if err != nil {
		metrics.IncDBError("query")
	}
	return rows, err
}

// normExecErr keeps executor-context errors intact and folds the rest into
// the storage failure sentinel.
func normExecErr(err error) error {
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
		return err
	}
	return domain.ErrOperationFailed
}

// normScanErr distinguishes an empty result from a broken row.
func normScanErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	metrics.IncDBError("scan")
	return domain.ErrReadDatabaseRow
}
