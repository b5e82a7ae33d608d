package wallet

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// Page limits for ledger listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListTransactions returns a page of the user's ledger, newest first
func (u *WalletUseCase) ListTransactions(ctx context.Context, req usecase.ListTransactionsRequest) ([]*entity.Transaction, error) {
	if err := validateUserID(req.UserID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 0 || limit > MaxPageSize {
		return nil, errs.NewInvalidParameterError("limit", "must be between 1 and 100")
	}
	if req.Offset < 0 {
		return nil, errs.NewInvalidParameterError("offset", "cannot be negative")
	}

	var txType entity.TransactionType
	if req.Type != "" {
		var err error
		if txType, err = entity.ParseTransactionType(req.Type); err != nil {
			return nil, err
		}
	}

	var rows []*entity.Transaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		rows, err = u.uow.GetTransactionRepository(txCtx).ListByUser(txCtx, req.UserID, txType, limit, req.Offset)
		return err
	})
	u.observe("list_transactions", req.UserID, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
