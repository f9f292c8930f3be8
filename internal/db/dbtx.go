package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories run statements on: the pool or an open
// transaction. Statements are written with "?" placeholders and passed
// through Rebind for the connection's Dialect before execution.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
