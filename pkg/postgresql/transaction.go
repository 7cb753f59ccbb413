package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/thetanav/trading-system/pkg/errors"
)

type contextKey string

const txKey contextKey = "postgresql_transaction"

// GetTx extracts transaction from context
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// ContextWithTx returns a context carrying tx, so that client calls made with it join the transaction.
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// WithTx executes fn within a transaction. The transaction is rolled back when
// fn returns an error or panics, and committed otherwise.
func WithTx(ctx context.Context, db PostgreSQLClient, fn func(ctx context.Context) error) error {
	return WithTxOptions(ctx, db, pgx.TxOptions{}, fn)
}

// WithTxOptions is WithTx with explicit transaction options.
func WithTxOptions(ctx context.Context, db PostgreSQLClient, txOptions pgx.TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return errors.NewTracer("failed to begin transaction").Wrap(err)
	}
	txCtx := ContextWithTx(ctx, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.NewTracerf("transaction failed: %v, rollback failed", err).Wrap(rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewTracer("failed to commit transaction").Wrap(err)
	}
	return nil
}
