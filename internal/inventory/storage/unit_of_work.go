package storage

import (
	"context"
	"database/sql"
	"fmt"

	"goinventory_api/internal/inventory/business"
)

// PgUnitOfWork opens one read-committed transaction per call and guarantees
// rollback on every failure path. The merge executor runs each confirmed match
// under its own unit of work; restore does the same per call.
type PgUnitOfWork struct {
	db *sql.DB
}

func NewPgUnitOfWork(db *sql.DB) *PgUnitOfWork {
	return &PgUnitOfWork{db: db}
}

func (u *PgUnitOfWork) WithinTx(ctx context.Context, fn func(tx business.RepositoryTx) error) (err error) {
	sqlTx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&pgTx{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Products() business.ProductStore {
	return NewProductRepository(t.tx)
}

func (t *pgTx) Links() business.LinkStore {
	return NewLinkRepository(t.tx)
}

func (t *pgTx) MergeLog() business.MergeLogStore {
	return NewMergeLogRepository(t.tx)
}

// LockProduct takes a transaction-scoped advisory lock keyed by product id, so
// two concurrent runs cannot merge or restore the same product at once. The
// lock releases automatically at commit or rollback.
func (t *pgTx) LockProduct(ctx context.Context, productID int) error {
	_, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(productID))
	if err != nil {
		return fmt.Errorf("advisory lock product %d: %w", productID, err)
	}
	return nil
}
