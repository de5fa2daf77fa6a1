package transaction

import "context"

// Manager runs fn inside a single database transaction. Repositories called
// with the ctx passed to fn join that transaction.
type Manager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopManager runs fn directly. It is used by tests with in-memory fakes.
type NoopManager struct{}

func (NoopManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
