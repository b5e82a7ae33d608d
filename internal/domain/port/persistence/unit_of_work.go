package persistence

import (
	"context"
)

// UnitOfWork coordinates one storage transaction across repositories
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Do runs fn inside a transaction and commits when it returns nil.
	// When ctx already carries a transaction fn joins it instead, so nested calls
	// form a single atomic unit. Transient failures of the outermost unit are retried.
	Do(ctx context.Context, fn func(txCtx context.Context) error) error

	// GetWalletRepository returns a wallet repository bound to the current transaction
	GetWalletRepository(ctx context.Context) WalletRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetSessionRepository returns a session repository bound to the current transaction
	GetSessionRepository(ctx context.Context) SessionRepository
}
