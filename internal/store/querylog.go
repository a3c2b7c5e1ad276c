package store

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"
)

// queryLogger decorates a DBTX and logs every statement at debug level.
type queryLogger struct {
	db     DBTX
	logger *slog.Logger
}

// NewQueryLogger wraps db so each statement is echoed to logger at debug
// level together with its duration. Arguments are never logged.
func NewQueryLogger(db DBTX, logger *slog.Logger) DBTX {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryLogger{
		db:     db,
		logger: logger.With(slog.String("component", "sql")),
	}
}

func (q *queryLogger) log(ctx context.Context, op, query string, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("query", compactQuery(query)),
		slog.Int64("duration_us", time.Since(start).Microseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	q.logger.LogAttrs(ctx, slog.LevelDebug, "sql statement", attrs...)
}

// ExecContext implements DBTX.
func (q *queryLogger) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.db.ExecContext(ctx, query, args...)
	q.log(ctx, "exec", query, start, err)
	return res, err
}

// PrepareContext implements DBTX.
func (q *queryLogger) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	start := time.Now()
	stmt, err := q.db.PrepareContext(ctx, query)
	q.log(ctx, "prepare", query, start, err)
	return stmt, err
}

// QueryContext implements DBTX.
func (q *queryLogger) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.db.QueryContext(ctx, query, args...)
	q.log(ctx, "query", query, start, err)
	return rows, err
}

// QueryRowContext implements DBTX. Row errors surface on Scan, so only the
// statement and its latency are logged here.
func (q *queryLogger) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := q.db.QueryRowContext(ctx, query, args...)
	q.log(ctx, "query_row", query, start, nil)
	return row
}

// compactQuery collapses the whitespace of a multi-line statement.
func compactQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
