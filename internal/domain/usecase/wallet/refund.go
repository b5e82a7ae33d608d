package wallet

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// Refund credits the amount back to the balance
func (u *WalletUseCase) Refund(ctx context.Context, req usecase.RefundRequest) (*entity.Transaction, error) {
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

		before, after, err := wallet.Credit(req.Amount, u.timeProvider)
		if err != nil {
			return err
		}

		row, err := u.newTransaction(wallet, entity.TransactionTypeRefund, req.Amount, before, after)
		if err != nil {
			return err
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Refunded %s %s", entity.FormatAmount(req.Amount), wallet.Currency)
		}
		row.WithSession(req.SessionID).WithDescription(description)

		if err := u.persist(txCtx, wallet, row); err != nil {
			return err
		}
		txn = row
		return nil
	})
	u.observe("refund", req.UserID, err)
	if err != nil {
		return nil, err
	}
	return txn, nil
}
