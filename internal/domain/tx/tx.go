package tx

import "context"

// Manager runs fn inside a transaction carried by txCtx. Repositories called
// with txCtx join the transaction.
type Manager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
