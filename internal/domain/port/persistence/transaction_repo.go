package persistence

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
)

// TransactionRepository is the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger row
	//
	// Possible errors:
	// - ErrConstraintViolation: duplicate id or idempotency key
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves one ledger row
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no row has the id
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// FindByIdempotencyKey returns the top-up recorded under key, or nil when none exists
	FindByIdempotencyKey(ctx context.Context, userID uint64, key string) (*entity.Transaction, error)

	// FindRelated returns the row of txType that points at relatedID, or nil when none exists
	FindRelated(ctx context.Context, relatedID string, txType entity.TransactionType) (*entity.Transaction, error)

	// ListBySession returns the rows correlated with a session, oldest first
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Transaction, error)

	// ListByUser returns a page of a user's rows, newest first. An empty txType lists every type.
	ListByUser(ctx context.Context, userID uint64, txType entity.TransactionType, limit, offset int) ([]*entity.Transaction, error)
}
