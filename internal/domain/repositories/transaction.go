package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Every repository call
// made with the ctx passed to fn joins the transaction; if fn returns an
// error nothing it wrote is visible afterwards.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
