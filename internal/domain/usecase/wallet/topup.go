package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// MaxIdempotencyKeyLength bounds client supplied idempotency keys
const MaxIdempotencyKeyLength = 128

// TopUp credits the amount plus its tier bonus.
// The topup row is written first (b -> b+amount) and the bonus row second
// (b+amount -> b+amount+bonus). A repeated idempotency key returns the original result.
func (u *WalletUseCase) TopUp(ctx context.Context, req usecase.TopUpRequest) (*usecase.TopUpResult, error) {
	if err := validateUserID(req.UserID); err != nil {
		return nil, err
	}
	amount, err := entity.ParsePositiveAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	paymentMethodID := strings.TrimSpace(req.PaymentMethodID)
	if paymentMethodID == "" {
		return nil, errs.NewInvalidParameterError("payment_method_id", "empty value")
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if len(key) > MaxIdempotencyKeyLength {
		return nil, errs.NewInvalidParameterError("idempotency_key",
			fmt.Sprintf("longer than %d characters", MaxIdempotencyKeyLength))
	}

	bonus, percentage := u.bonusPolicy.Bonus(amount)

	var result *usecase.TopUpResult
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if key != "" {
			previous, err := u.replayTopUp(txCtx, req.UserID, key, amount)
			if err != nil {
				return err
			}
			if previous != nil {
				result = previous
				return nil
			}
		}

		wallet, err := u.lockWallet(txCtx, req.UserID)
		if err != nil {
			return err
		}

		before, credited, err := wallet.Credit(amount, u.timeProvider)
		if err != nil {
			return err
		}
		topup, err := u.newTransaction(wallet, entity.TransactionTypeTopUp, amount, before, credited)
		if err != nil {
			return err
		}
		topup.PaymentMethodID = paymentMethodID
		topup.IdempotencyKey = key
		topup.WithDescription(fmt.Sprintf("Top-up of %s %s", entity.FormatAmount(amount), wallet.Currency))

		rows := []*entity.Transaction{topup}
		res := &usecase.TopUpResult{
			TransactionID:   topup.ID,
			Amount:          amount,
			BonusAmount:     bonus,
			BonusPercentage: percentage,
			TotalAmount:     amount.Add(bonus),
			BalanceBefore:   before,
			BalanceAfter:    credited,
		}

		if bonus.IsPositive() {
			_, after, err := wallet.Credit(bonus, u.timeProvider)
			if err != nil {
				return err
			}
			bonusRow, err := u.newTransaction(wallet, entity.TransactionTypeBonus, bonus, credited, after)
			if err != nil {
				return err
			}
			bonusRow.RelatedID = topup.ID
			bonusRow.WithDescription(fmt.Sprintf("%s%% bonus on top-up %s", percentage.String(), topup.ID))

			rows = append(rows, bonusRow)
			res.BonusTransactionID = bonusRow.ID
			res.BalanceAfter = after
		}

		if err := u.persist(txCtx, wallet, rows...); err != nil {
			return err
		}
		result = res
		return nil
	})
	u.observe("topup", req.UserID, err)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Wallet topped up", map[string]any{
		"userId":        req.UserID,
		"transactionId": result.TransactionID,
		"amount":        entity.FormatAmount(result.Amount),
		"bonus":         entity.FormatAmount(result.BonusAmount),
		"balanceAfter":  entity.FormatAmount(result.BalanceAfter),
		"replayed":      result.Replayed,
	})

	if !result.Replayed {
		u.publish(ctx, gateway.Event{
			Type:   gateway.EventWalletToppedUp,
			UserID: req.UserID,
			Amount: entity.FormatAmount(result.TotalAmount),
			Attributes: map[string]string{
				"transaction_id": result.TransactionID,
				"bonus_amount":   entity.FormatAmount(result.BonusAmount),
				"balance_after":  entity.FormatAmount(result.BalanceAfter),
			},
			OccurredAt: u.timeProvider.Now(),
		})
	}
	return result, nil
}

// replayTopUp rebuilds the result of an earlier top-up recorded under key, or returns nil when there is none
func (u *WalletUseCase) replayTopUp(ctx context.Context, userID uint64, key string, amount decimal.Decimal) (*usecase.TopUpResult, error) {
	txnRepo := u.uow.GetTransactionRepository(ctx)

	previous, err := txnRepo.FindByIdempotencyKey(ctx, userID, key)
	if err != nil || previous == nil {
		return nil, err
	}
	if !previous.Amount.Equal(amount) {
		return nil, errs.NewInvalidParameterError("idempotency_key", "already used for a different amount")
	}

	result := &usecase.TopUpResult{
		TransactionID:   previous.ID,
		Amount:          previous.Amount,
		BonusAmount:     decimal.Zero,
		BonusPercentage: decimal.Zero,
		TotalAmount:     previous.Amount,
		BalanceBefore:   previous.BalanceBefore,
		BalanceAfter:    previous.BalanceAfter,
		Replayed:        true,
	}

	bonus, err := txnRepo.FindRelated(ctx, previous.ID, entity.TransactionTypeBonus)
	if err != nil {
		return nil, err
	}
	if bonus != nil {
		result.BonusAmount = bonus.Amount
		result.BonusPercentage = bonus.Amount.Mul(decimal.NewFromInt(100)).Div(previous.Amount).Round(2)
		result.TotalAmount = previous.Amount.Add(bonus.Amount)
		result.BalanceAfter = bonus.BalanceAfter
		result.BonusTransactionID = bonus.ID
	}
	return result, nil
}
