package transaction

import (
	"context"

	"gorm.io/gorm"

	domaintx "roottrack-api/internal/domain/transaction"
)

type contextKey struct{}

// Database hands repositories the transaction bound to ctx, if any.
type Database struct {
	db *gorm.DB
}

var _ domaintx.Manager = (*Database)(nil)

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// GetTx returns the transaction in ctx or the root connection, bound to ctx.
func (d *Database) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// WithinTransaction runs fn in a transaction. Nested calls use a savepoint.
func (d *Database) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.GetTx(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, contextKey{}, tx))
	})
}
