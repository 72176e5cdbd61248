package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// RunInTx executes fn inside a transaction carried by the context passed to fn.
	// Repositories called with that context join the transaction. Any error returned by fn
	// rolls the whole unit back. Nested calls join the outer transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
