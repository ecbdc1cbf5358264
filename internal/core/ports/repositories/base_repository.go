package repositories

import "context"

// TransactionManager runs a unit of work atomically. Repository calls made with
// the ctx passed to fn join the transaction; if fn returns an error every write
// in the unit, audit records included, is rolled back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
