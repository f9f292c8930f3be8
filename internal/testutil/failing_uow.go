package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/cityguide/internal/db"
)

// FaultyUoW runs transactions against DB but fails one write. The Nth
// ExecContext whose statement contains Match (any statement when Match is
// empty) returns Err instead of executing. Counting starts at 1; reads are
// never counted.
type FaultyUoW struct {
	DB     *sql.DB
	FailOn int
	Match  string
	Err    error

	// Execs is the number of matching writes seen by the last transaction.
	Execs int
}

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	f := &faultyTx{DBTX: tx, uow: u}
	u.Execs = 0
	if err := fn(ctx, f); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type faultyTx struct {
	db.DBTX
	uow *FaultyUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.uow.Execs++
		if f.uow.Execs == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
