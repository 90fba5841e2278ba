package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/itinera/internal/db"
)

// FailingUoW wraps a real unit of work and fails the Nth write whose SQL
// contains Match (every write counts when Match is empty). The real
// transaction then rolls back, so tests can check that multi-write use cases
// leave nothing half-saved.
type FailingUoW struct {
	Inner db.UnitOfWork
	Match string
	N     int
	Err   error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u})
	})
}

type failingTx struct {
	db.DBTX
	uow  *FailingUoW
	seen int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.seen++
		if f.seen == f.uow.N {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
