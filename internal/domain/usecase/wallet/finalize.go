package wallet

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// FinalizeReservation releases the earmark, then charges the actual amount against the balance.
// A release larger than the stored earmark is clamped at zero, logged and counted, so double
// releases stay visible. A zero actual amount writes no charge row and returns nil.
func (u *WalletUseCase) FinalizeReservation(ctx context.Context, req usecase.FinalizeRequest) (*entity.Transaction, error) {
	if err := validateUserID(req.UserID); err != nil {
		return nil, err
	}
	if err := entity.CheckAmount("reserved_amount", req.ReservedAmount, true); err != nil {
		return nil, err
	}
	if err := entity.CheckAmount("actual_amount", req.ActualAmount, true); err != nil {
		return nil, err
	}

	var txn *entity.Transaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		txn = nil

		wallet, err := u.lockWallet(txCtx, req.UserID)
		if err != nil {
			return err
		}

		u.release(wallet, req.ReservedAmount, req.SessionID)

		if req.ActualAmount.IsZero() {
			return u.persist(txCtx, wallet)
		}

		before, after, err := wallet.Charge(req.ActualAmount, u.timeProvider)
		if err != nil {
			return err
		}

		row, err := u.newTransaction(wallet, entity.TransactionTypeCharge, req.ActualAmount, before, after)
		if err != nil {
			return err
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Charged %s %s for session", entity.FormatAmount(req.ActualAmount), wallet.Currency)
		}
		row.WithSession(req.SessionID).WithDescription(description)

		if err := u.persist(txCtx, wallet, row); err != nil {
			return err
		}
		txn = row
		return nil
	})
	u.observe("finalize", req.UserID, err)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ReleaseReservation drops the earmark without charging. No ledger row is written:
// the released funds never left the balance.
func (u *WalletUseCase) ReleaseReservation(ctx context.Context, req usecase.ReleaseRequest) (*entity.Wallet, error) {
	if err := validateUserID(req.UserID); err != nil {
		return nil, err
	}
	if err := entity.CheckAmount("reserved_amount", req.ReservedAmount, true); err != nil {
		return nil, err
	}

	var wallet *entity.Wallet
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.lockWallet(txCtx, req.UserID)
		if err != nil {
			return err
		}
		u.release(w, req.ReservedAmount, req.SessionID)
		if err := u.persist(txCtx, w); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	u.observe("release", req.UserID, err)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (u *WalletUseCase) release(wallet *entity.Wallet, amount decimal.Decimal, sessionID string) {
	stored := wallet.ReservedBalance()
	released, clamped := wallet.ReleaseReservation(amount, u.timeProvider)
	if !clamped {
		return
	}

	u.metrics.ReservationClamped()
	u.logger.Warn("Reservation release clamped at zero", map[string]any{
		"userId":    wallet.UserID,
		"walletId":  wallet.ID,
		"sessionId": sessionID,
		"requested": entity.FormatAmount(amount),
		"stored":    entity.FormatAmount(stored),
		"released":  entity.FormatAmount(released),
	})
}
