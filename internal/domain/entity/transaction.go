package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger event kinds.
// Switches over it must list every value.
type TransactionType string

// Transaction types
const (
	TransactionTypeTopUp   TransactionType = "topup"
	TransactionTypeReserve TransactionType = "reserve"
	TransactionTypeCharge  TransactionType = "charge"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypeBonus   TransactionType = "bonus"
)

// TransactionTypes lists every transaction type in ledger order of introduction
var TransactionTypes = []TransactionType{
	TransactionTypeTopUp,
	TransactionTypeReserve,
	TransactionTypeCharge,
	TransactionTypeRefund,
	TransactionTypeBonus,
}

// BalanceField names the wallet field a transaction snapshots
type BalanceField string

// Snapshotted fields
const (
	BalanceFieldTotal    BalanceField = "balance"
	BalanceFieldReserved BalanceField = "reserved_balance"
)

// ParseTransactionType converts a raw value into a TransactionType
func ParseTransactionType(value string) (TransactionType, error) {
	t := TransactionType(value)
	if !t.IsValid() {
		return "", errs.NewInvalidParameterError("type", fmt.Sprintf("unknown transaction type %q", value))
	}
	return t, nil
}

// IsValid reports whether t belongs to the closed set
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTopUp, TransactionTypeReserve, TransactionTypeCharge, TransactionTypeRefund, TransactionTypeBonus:
		return true
	}
	return false
}

// SnapshotField returns which balance the before/after values describe
func (t TransactionType) SnapshotField() BalanceField {
	switch t {
	case TransactionTypeReserve:
		return BalanceFieldReserved
	case TransactionTypeTopUp, TransactionTypeCharge, TransactionTypeRefund, TransactionTypeBonus:
		return BalanceFieldTotal
	}
	panic(fmt.Sprintf("unhandled transaction type %q", string(t)))
}

// SignedAmount returns the effect on the snapshotted field: positive grows it, negative shrinks it
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TransactionTypeTopUp, TransactionTypeRefund, TransactionTypeBonus, TransactionTypeReserve:
		return amount
	case TransactionTypeCharge:
		return amount.Neg()
	}
	panic(fmt.Sprintf("unhandled transaction type %q", string(t)))
}

// Transaction is an immutable ledger row describing one balance-affecting event
type Transaction struct {
	ID              string
	WalletID        string
	UserID          uint64
	Type            TransactionType
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	SessionID       string
	PaymentMethodID string
	IdempotencyKey  string

	// RelatedID points a bonus row at the top-up that earned it
	RelatedID   string
	Description string
	CreatedAt   time.Time
}

// NewTransaction validates a ledger row before it is appended
func NewTransaction(
	id string,
	wallet *Wallet,
	txType TransactionType,
	amount, before, after decimal.Decimal,
	createdAt time.Time,
) (*Transaction, error) {
	if id == "" {
		return nil, errs.NewInvalidParameterError("transaction_id", "empty value")
	}
	if !txType.IsValid() {
		return nil, errs.NewInvalidParameterError("type", fmt.Sprintf("unknown transaction type %q", string(txType)))
	}
	if !amount.IsPositive() {
		return nil, errs.NewInvalidParameterError("amount", "must be greater than zero")
	}
	if !before.Add(txType.SignedAmount(amount)).Equal(after) {
		return nil, fmt.Errorf("%w: %s snapshot %s -> %s does not match amount %s",
			errs.ErrInternalServer, txType, FormatAmount(before), FormatAmount(after), FormatAmount(amount))
	}

	return &Transaction{
		ID:            id,
		WalletID:      wallet.ID,
		UserID:        wallet.UserID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     createdAt,
	}, nil
}

// WithSession correlates the transaction with a session
func (t *Transaction) WithSession(sessionID string) *Transaction {
	t.SessionID = sessionID
	return t
}

// WithDescription sets a human readable description
func (t *Transaction) WithDescription(description string) *Transaction {
	t.Description = description
	return t
}
