package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type transactionKey struct{}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

func currentTransaction(ctx context.Context) *dbTransaction {
	holder, ok := ctx.Value(transactionKey{}).(*dbTransaction)
	if !ok {
		return nil
	}

	return holder
}

// WithDBTransaction begins a database transaction and replaces the value
// returned by DB() until the transaction completes. If the context already
// carries an unfinished transaction, it is reused, so nested domain calls
// join the same atomic unit.
func WithDBTransaction(ctx context.Context) context.Context {
	if holder := currentTransaction(ctx); holder != nil && !holder.done {
		return ctx
	}

	return context.WithValue(ctx, transactionKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction. It is a no-op if
// the transaction already completed.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if holder := currentTransaction(ctx); holder != nil && !holder.done {
		holder.tx.Commit()
		holder.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction. It is a no-op
// if the transaction already completed, so it is safe to defer right after
// WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder := currentTransaction(ctx); holder != nil && !holder.done {
		holder.tx.Rollback()
		holder.done = true
	}

	return ctx
}
