package usecase

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceResult is the balance view of a wallet
type BalanceResult struct {
	UserID           uint64
	Balance          decimal.Decimal
	ReservedBalance  decimal.Decimal
	AvailableBalance decimal.Decimal
	Currency         string
}

// ReserveRequest earmarks funds for a pending session
type ReserveRequest struct {
	UserID      uint64
	Amount      decimal.Decimal
	SessionID   string
	Description string
}

// FinalizeRequest releases an earmark and charges ActualAmount.
// Session settlement passes the whole reserved amount as ActualAmount, so the charge row
// records what was reserved rather than what was used; the unused part is returned by a
// separate Refund. ActualAmount is therefore not the usage cost of a session, which is
// SettlementView.ActualCost.
type FinalizeRequest struct {
	UserID         uint64
	ReservedAmount decimal.Decimal
	ActualAmount   decimal.Decimal
	SessionID      string
	Description    string
}

// ReleaseRequest releases an earmark without charging
type ReleaseRequest struct {
	UserID         uint64
	ReservedAmount decimal.Decimal
	SessionID      string
}

// RefundRequest credits funds back to a wallet
type RefundRequest struct {
	UserID      uint64
	Amount      decimal.Decimal
	SessionID   string
	Description string
}

// TopUpRequest represents an incoming top-up. Amount is the raw decimal string.
type TopUpRequest struct {
	UserID          uint64
	Amount          string
	PaymentMethodID string
	IdempotencyKey  string
}

// TopUpResult contains the computed totals of a top-up
type TopUpResult struct {
	TransactionID      string
	Amount             decimal.Decimal
	BonusAmount        decimal.Decimal
	BonusPercentage    decimal.Decimal
	TotalAmount        decimal.Decimal
	BalanceBefore      decimal.Decimal
	BalanceAfter       decimal.Decimal
	BonusTransactionID string
	// Replayed is true when the result was rebuilt from an earlier request with the same idempotency key
	Replayed bool
}

// ListTransactionsRequest selects a page of ledger rows. An empty Type lists every type.
type ListTransactionsRequest struct {
	UserID uint64
	Type   string
	Limit  int
	Offset int
}

// WalletUseCase defines the wallet operations.
// Every operation runs in one storage transaction, or joins the one carried by ctx.
type WalletUseCase interface {
	// GetOrCreateWallet returns the user's wallet, creating an empty one on first access
	GetOrCreateWallet(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// GetBalance returns balance, reserved and available amounts
	GetBalance(ctx context.Context, userID uint64) (*BalanceResult, error)

	// Reserve grows the earmark by the requested amount
	//
	// Possible errors:
	// - InsufficientBalanceError: If available balance is below the amount
	// - InvalidParameterError: If the amount is not positive
	Reserve(ctx context.Context, req ReserveRequest) (*entity.Transaction, error)

	// FinalizeReservation releases the earmark and charges the actual amount.
	// Returns a nil transaction when the actual amount is zero.
	//
	// Possible errors:
	// - InsufficientBalanceError: If the spendable balance is below the actual amount
	FinalizeReservation(ctx context.Context, req FinalizeRequest) (*entity.Transaction, error)

	// ReleaseReservation releases the earmark without a charge and returns the updated wallet
	ReleaseReservation(ctx context.Context, req ReleaseRequest) (*entity.Wallet, error)

	// Refund credits the amount back to the balance
	Refund(ctx context.Context, req RefundRequest) (*entity.Transaction, error)

	// TopUp credits the amount plus its tier bonus
	//
	// Possible errors:
	// - InvalidParameterError: If the amount is malformed or the idempotency key was used for another amount
	TopUp(ctx context.Context, req TopUpRequest) (*TopUpResult, error)

	// ListTransactions returns ledger rows newest first
	ListTransactions(ctx context.Context, req ListTransactionsRequest) ([]*entity.Transaction, error)
}
