package persistence

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
)

// WalletRepository stores one wallet per user
type WalletRepository interface {
	// GetByUserID reads a wallet without locking it
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet yet
	// - ErrDatabaseConnection: If database connection fails
	GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// GetByUserIDForUpdate reads a wallet and locks its row until the surrounding transaction ends
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet yet
	// - ErrConcurrentUpdate: If the row lock could not be taken
	GetByUserIDForUpdate(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// Create inserts a new wallet
	//
	// Possible errors:
	// - ErrDuplicateWallet: If the user already has a wallet
	Create(ctx context.Context, wallet *entity.Wallet) error

	// UpdateBalances writes balance and reserved balance
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet disappeared
	UpdateBalances(ctx context.Context, wallet *entity.Wallet) error
}
