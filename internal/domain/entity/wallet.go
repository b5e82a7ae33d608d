package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured
const DefaultCurrency = "NPR"

// Wallet is the prepaid balance of one user.
// Balance is the total owned; ReservedBalance is earmarked for in-flight sessions.
type Wallet struct {
	ID        string
	UserID    uint64
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time

	balance  decimal.Decimal
	reserved decimal.Decimal
}

// NewWallet creates an empty wallet for the user
func NewWallet(id string, userID uint64, currency string, timeProvider coreport.TimeProvider) (*Wallet, error) {
	if userID == 0 {
		return nil, errs.NewInvalidParameterError("user_id", "must be positive")
	}
	if id == "" {
		return nil, errs.NewInvalidParameterError("wallet_id", "empty value")
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	now := timeProvider.Now()
	return &Wallet{
		ID:        id,
		UserID:    userID,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
		balance:   decimal.Zero,
		reserved:  decimal.Zero,
	}, nil
}

// RestoreWallet rebuilds a wallet from stored values (for repositories)
func RestoreWallet(id string, userID uint64, balance, reserved decimal.Decimal, currency string, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		ID:        id,
		UserID:    userID,
		Currency:  currency,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		balance:   balance,
		reserved:  reserved,
	}
}

// Balance returns the total funds owned
func (w *Wallet) Balance() decimal.Decimal {
	return w.balance
}

// ReservedBalance returns the funds earmarked for in-flight sessions
func (w *Wallet) ReservedBalance() decimal.Decimal {
	return w.reserved
}

// AvailableBalance returns balance - reserved_balance
func (w *Wallet) AvailableBalance() decimal.Decimal {
	return w.balance.Sub(w.reserved)
}

// Reserve grows the earmark by amount when enough funds are available.
// It returns the reserved_balance before and after the change.
func (w *Wallet) Reserve(amount decimal.Decimal, timeProvider coreport.TimeProvider) (decimal.Decimal, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, errs.NewInvalidParameterError("amount", "must be greater than zero")
	}

	available := w.AvailableBalance()
	if available.LessThan(amount) {
		return decimal.Zero, decimal.Zero, errs.NewInsufficientBalanceError(
			w.UserID, "reserve", FormatAmount(amount), FormatAmount(available),
		)
	}

	before := w.reserved
	w.reserved = w.reserved.Add(amount)
	w.UpdatedAt = timeProvider.Now()
	return before, w.reserved, nil
}

// ReleaseReservation shrinks the earmark by amount, flooring at zero.
// The returned flag reports whether the stored earmark was smaller than amount.
func (w *Wallet) ReleaseReservation(amount decimal.Decimal, timeProvider coreport.TimeProvider) (decimal.Decimal, bool) {
	if !amount.IsPositive() {
		return decimal.Zero, false
	}

	released := amount
	clamped := false
	if w.reserved.LessThan(amount) {
		released = w.reserved
		clamped = true
	}

	w.reserved = w.reserved.Sub(released)
	w.UpdatedAt = timeProvider.Now()
	return released, clamped
}

// Charge takes amount out of the spendable part of the balance.
// It returns the total balance before and after the change.
func (w *Wallet) Charge(amount decimal.Decimal, timeProvider coreport.TimeProvider) (decimal.Decimal, decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, errs.NewInvalidParameterError("amount", "cannot be negative")
	}

	available := w.AvailableBalance()
	if available.LessThan(amount) {
		return decimal.Zero, decimal.Zero, errs.NewInsufficientBalanceError(
			w.UserID, "charge", FormatAmount(amount), FormatAmount(available),
		)
	}

	before := w.balance
	w.balance = w.balance.Sub(amount)
	w.UpdatedAt = timeProvider.Now()
	return before, w.balance, nil
}

// Credit adds amount to the balance and returns the balance before and after
func (w *Wallet) Credit(amount decimal.Decimal, timeProvider coreport.TimeProvider) (decimal.Decimal, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, errs.NewInvalidParameterError("amount", "must be greater than zero")
	}

	before := w.balance
	w.balance = w.balance.Add(amount)
	w.UpdatedAt = timeProvider.Now()
	return before, w.balance, nil
}

// Validate checks balance >= 0, reserved >= 0 and balance >= reserved
func (w *Wallet) Validate() error {
	switch {
	case w.balance.IsNegative():
		return fmt.Errorf("%w: wallet %s balance %s is negative", errs.ErrConstraintViolation, w.ID, FormatAmount(w.balance))
	case w.reserved.IsNegative():
		return fmt.Errorf("%w: wallet %s reserved balance %s is negative", errs.ErrConstraintViolation, w.ID, FormatAmount(w.reserved))
	case w.balance.LessThan(w.reserved):
		return fmt.Errorf("%w: wallet %s reserved balance %s exceeds balance %s",
			errs.ErrConstraintViolation, w.ID, FormatAmount(w.reserved), FormatAmount(w.balance))
	}
	return nil
}
