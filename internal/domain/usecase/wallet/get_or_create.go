package wallet

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// GetOrCreateWallet returns the user's wallet, creating an empty one on first access.
// Concurrent first calls race on the unique user id; the loser is retried and reads the winner's row.
func (u *WalletUseCase) GetOrCreateWallet(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var wallet *entity.Wallet
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.lockWallet(txCtx, userID)
		if err != nil {
			return err
		}
		wallet = w
		return nil
	})
	u.observe("get_or_create", userID, err)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetBalance returns balance, reserved and available amounts
func (u *WalletUseCase) GetBalance(ctx context.Context, userID uint64) (*usecase.BalanceResult, error) {
	wallet, err := u.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.BalanceResult{
		UserID:           wallet.UserID,
		Balance:          wallet.Balance(),
		ReservedBalance:  wallet.ReservedBalance(),
		AvailableBalance: wallet.AvailableBalance(),
		Currency:         wallet.Currency,
	}, nil
}
