package wallet

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

var _ usecase.WalletUseCase = (*WalletUseCase)(nil)

// WalletUseCase handles wallet-related business logic.
// It holds no balance state; every call works through the injected unit of work.
type WalletUseCase struct {
	uow          persistence.UnitOfWork
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
	publisher    gateway.EventPublisher
	bonusPolicy  *entity.BonusPolicy
	currency     string
}

// NewWalletUseCase creates a new WalletUseCase. publisher may be nil.
func NewWalletUseCase(
	uow persistence.UnitOfWork,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	publisher gateway.EventPublisher,
	bonusPolicy *entity.BonusPolicy,
	currency string,
) *WalletUseCase {
	if bonusPolicy == nil {
		bonusPolicy = entity.DefaultBonusPolicy()
	}
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	return &WalletUseCase{
		uow:          uow,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		publisher:    publisher,
		bonusPolicy:  bonusPolicy,
		currency:     currency,
	}
}

func validateUserID(userID uint64) error {
	if userID == 0 {
		return errs.NewInvalidParameterError("user_id", "must be positive")
	}
	return nil
}

// lockWallet returns the user's wallet locked for the surrounding transaction, creating it on first access
func (u *WalletUseCase) lockWallet(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	repo := u.uow.GetWalletRepository(ctx)

	wallet, err := repo.GetByUserIDForUpdate(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, errs.ErrWalletNotFound) {
		return nil, err
	}

	wallet, err = entity.NewWallet(u.idGenerator.NewID(), userID, u.currency, u.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	u.logger.Info("Wallet created", map[string]any{
		"userId":   userID,
		"walletId": wallet.ID,
		"currency": wallet.Currency,
	})
	return wallet, nil
}

// newTransaction builds a ledger row stamped with the current time
func (u *WalletUseCase) newTransaction(
	wallet *entity.Wallet,
	txType entity.TransactionType,
	amount, before, after decimal.Decimal,
) (*entity.Transaction, error) {
	return entity.NewTransaction(u.idGenerator.NewID(), wallet, txType, amount, before, after, u.timeProvider.Now())
}

// persist checks the wallet invariants, then writes the wallet and appends the rows
func (u *WalletUseCase) persist(ctx context.Context, wallet *entity.Wallet, rows ...*entity.Transaction) error {
	if err := wallet.Validate(); err != nil {
		return err
	}
	if err := u.uow.GetWalletRepository(ctx).UpdateBalances(ctx, wallet); err != nil {
		return err
	}

	txnRepo := u.uow.GetTransactionRepository(ctx)
	for _, row := range rows {
		if err := txnRepo.Create(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// observe counts the call and logs unexpected failures
func (u *WalletUseCase) observe(operation string, userID uint64, err error) {
	outcome := errs.Outcome(err)
	u.metrics.WalletOperation(operation, outcome)

	if outcome == "error" || outcome == "conflict" {
		fields := errs.LogFields(err)
		fields["operation"] = operation
		fields["userId"] = userID
		u.logger.Error("Wallet operation failed", fields)
	}
}

// publish emits a committed change; delivery failures never fail the operation
func (u *WalletUseCase) publish(ctx context.Context, event gateway.Event) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Warn("Failed to publish event", map[string]any{
			"type":   string(event.Type),
			"userId": event.UserID,
			"error":  err.Error(),
		})
	}
}
