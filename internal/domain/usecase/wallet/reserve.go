package wallet

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// Reserve grows the earmark by the requested amount.
// The ledger row snapshots reserved_balance, not the total balance.
func (u *WalletUseCase) Reserve(ctx context.Context, req usecase.ReserveRequest) (*entity.Transaction, error) {
	if err := validateUserID(req.UserID); err != nil {
		return nil, err
	}
	if err := entity.CheckAmount("amount", req.Amount, false); err != nil {
		return nil, err
	}

	var txn *entity.Transaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.lockWallet(txCtx, req.UserID)
		if err != nil {
			return err
		}

		before, after, err := wallet.Reserve(req.Amount, u.timeProvider)
		if err != nil {
			return err
		}

		row, err := u.newTransaction(wallet, entity.TransactionTypeReserve, req.Amount, before, after)
		if err != nil {
			return err
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Reserved %s %s", entity.FormatAmount(req.Amount), wallet.Currency)
		}
		row.WithSession(req.SessionID).WithDescription(description)

		if err := u.persist(txCtx, wallet, row); err != nil {
			return err
		}
		txn = row
		return nil
	})
	u.observe("reserve", req.UserID, err)
	if err != nil {
		return nil, err
	}

	u.logger.Debug("Funds reserved", map[string]any{
		"userId":        req.UserID,
		"sessionId":     req.SessionID,
		"amount":        entity.FormatAmount(req.Amount),
		"transactionId": txn.ID,
	})
	return txn, nil
}
