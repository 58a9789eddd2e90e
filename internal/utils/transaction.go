package utils

import (
	"context"
	"errors"
	"fmt"

	"code-atlas/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

// WithTransaction runs fn inside a transaction on the pool. The transaction is rolled back when fn fails
// or panics and committed otherwise.
func WithTransaction(ctx context.Context, pool interfaces.PgxPoolIface, fn func(tx pgx.Tx) error) (err error) {
	LogMessageWithFields(ctx, "debug", "Beginning transaction...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollbackTransaction(ctx, tx)
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		rollbackTransaction(ctx, tx)
		return err
	}

	LogMessageWithFields(ctx, "debug", "Committing transaction...")
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	LogMessageWithFields(ctx, "debug", "Transaction committed")
	return nil
}

func rollbackTransaction(ctx context.Context, tx pgx.Tx) {
	LogMessageWithFields(ctx, "debug", "Rolling back transaction...")

	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		LogMessageWithFieldsAndError(ctx, "error", "Error rolling back transaction", err)
		return
	}
	LogMessageWithFields(ctx, "debug", "Transaction rolled back")
}
