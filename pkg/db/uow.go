package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UOW struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (u *UOW) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("can't begin tx, %w", err)
	}
	u.tx = tx
	return u.tx, nil
}

func (u *UOW) GetTx() pgx.Tx {
	return u.tx
}

func (u *UOW) Commit(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("transaction is not started yet")
	}
	return u.tx.Commit(ctx)
}

func (u *UOW) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("transaction is not started yet")
	}
	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// Finalize commits when *errp is nil and rolls back otherwise. A failed
// commit is reported through errp, so callers must defer it with a named
// error result.
func (u *UOW) Finalize(ctx context.Context, errp *error) {
	if u.tx == nil {
		return
	}
	if *errp != nil {
		if rbErr := u.Rollback(ctx); rbErr != nil {
			*errp = errors.Join(*errp, fmt.Errorf("rollback failed, %w", rbErr))
		}
		return
	}
	if err := u.tx.Commit(ctx); err != nil {
		*errp = fmt.Errorf("commit failed, %w", err)
	}
}

type UOWFactory struct {
	Pool *pgxpool.Pool
}

func (u *UOWFactory) GetUoW() *UOW {
	return &UOW{
		pool: u.Pool,
	}
}

func NewUoWFactory(pool *pgxpool.Pool) *UOWFactory {
	return &UOWFactory{
		Pool: pool,
	}
}
