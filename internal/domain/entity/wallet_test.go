package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/coaching-wallet/mocks/port/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T, at time.Time) *coremocks.MockTimeProvider {
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(at).Maybe()
	return mockTime
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewWallet(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mockTime := fixedClock(t, fixedTime)

	t.Run("Valid wallet", func(t *testing.T) {
		wallet, err := NewWallet("w-1", 7, "", mockTime)

		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, wallet.Currency)
		assert.True(t, wallet.Balance().IsZero())
		assert.True(t, wallet.ReservedBalance().IsZero())
		assert.Equal(t, fixedTime, wallet.CreatedAt)
	})

	t.Run("Zero user id", func(t *testing.T) {
		wallet, err := NewWallet("w-1", 0, "USD", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		assert.Nil(t, wallet)
	})

	t.Run("Empty id", func(t *testing.T) {
		_, err := NewWallet("", 7, "USD", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	})
}

func TestWallet_ReserveAndRelease(t *testing.T) {
	mockTime := fixedClock(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	wallet := RestoreWallet("w-1", 7, amount("500.00"), decimal.Zero, "USD", time.Time{}, time.Time{})

	before, after, err := wallet.Reserve(amount("300.00"), mockTime)
	require.NoError(t, err)
	assert.Equal(t, "0.00", FormatAmount(before))
	assert.Equal(t, "300.00", FormatAmount(after))
	assert.Equal(t, "200.00", FormatAmount(wallet.AvailableBalance()))

	_, _, err = wallet.Reserve(amount("200.01"), mockTime)
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Equal(t, "300.00", FormatAmount(wallet.ReservedBalance()))

	released, clamped := wallet.ReleaseReservation(amount("100.00"), mockTime)
	assert.Equal(t, "100.00", FormatAmount(released))
	assert.False(t, clamped)

	released, clamped = wallet.ReleaseReservation(amount("250.00"), mockTime)
	assert.Equal(t, "200.00", FormatAmount(released))
	assert.True(t, clamped)
	assert.True(t, wallet.ReservedBalance().IsZero())
	assert.NoError(t, wallet.Validate())
}

func TestWallet_ChargeAndCredit(t *testing.T) {
	mockTime := fixedClock(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	wallet := RestoreWallet("w-1", 7, amount("100.00"), amount("40.00"), "USD", time.Time{}, time.Time{})

	t.Run("Charge cannot touch reserved funds", func(t *testing.T) {
		_, _, err := wallet.Charge(amount("60.01"), mockTime)

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, "100.00", FormatAmount(wallet.Balance()))
	})

	t.Run("Charge within available", func(t *testing.T) {
		before, after, err := wallet.Charge(amount("60.00"), mockTime)

		require.NoError(t, err)
		assert.Equal(t, "100.00", FormatAmount(before))
		assert.Equal(t, "40.00", FormatAmount(after))
	})

	t.Run("Credit requires a positive amount", func(t *testing.T) {
		_, _, err := wallet.Credit(decimal.Zero, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidParameter)

		before, after, err := wallet.Credit(amount("10.50"), mockTime)
		require.NoError(t, err)
		assert.Equal(t, "40.00", FormatAmount(before))
		assert.Equal(t, "50.50", FormatAmount(after))
	})
}

func TestWallet_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		balance  string
		reserved string
		valid    bool
	}{
		{"healthy", "10.00", "5.00", true},
		{"fully reserved", "10.00", "10.00", true},
		{"negative balance", "-1.00", "0.00", false},
		{"negative reserved", "10.00", "-1.00", false},
		{"reserved above balance", "10.00", "10.01", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wallet := RestoreWallet("w-1", 7, amount(tc.balance), amount(tc.reserved), "USD", time.Time{}, time.Time{})

			err := wallet.Validate()

			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrConstraintViolation)
			}
		})
	}
}
