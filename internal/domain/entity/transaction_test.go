package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType(t *testing.T) {
	for _, txType := range TransactionTypes {
		t.Run(string(txType), func(t *testing.T) {
			parsed, err := ParseTransactionType(string(txType))
			require.NoError(t, err)
			assert.Equal(t, txType, parsed)
			assert.NotPanics(t, func() { txType.SnapshotField() })
		})
	}

	assert.Equal(t, BalanceFieldReserved, TransactionTypeReserve.SnapshotField())
	assert.Equal(t, BalanceFieldTotal, TransactionTypeCharge.SnapshotField())
	assert.Equal(t, "-5.00", FormatAmount(TransactionTypeCharge.SignedAmount(amount("5.00"))))

	_, err := ParseTransactionType("withdrawal")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestNewTransaction(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	wallet := RestoreWallet("w-1", 7, amount("100.00"), amount("0.00"), "USD", at, at)

	t.Run("Snapshot must match the amount", func(t *testing.T) {
		tx, err := NewTransaction("t-1", wallet, TransactionTypeCharge, amount("30.00"), amount("100.00"), amount("70.00"), at)

		require.NoError(t, err)
		assert.Equal(t, "w-1", tx.WalletID)
		assert.Equal(t, uint64(7), tx.UserID)

		tx.WithSession("s-1").WithDescription("session charge")
		assert.Equal(t, "s-1", tx.SessionID)
		assert.Equal(t, "session charge", tx.Description)
	})

	t.Run("Reserve snapshots the reserved balance", func(t *testing.T) {
		_, err := NewTransaction("t-2", wallet, TransactionTypeReserve, amount("30.00"), amount("0.00"), amount("30.00"), at)

		assert.NoError(t, err)
	})

	t.Run("Mismatched snapshot", func(t *testing.T) {
		_, err := NewTransaction("t-3", wallet, TransactionTypeRefund, amount("30.00"), amount("100.00"), amount("100.00"), at)

		assert.ErrorIs(t, err, errs.ErrInternalServer)
	})

	t.Run("Zero amount", func(t *testing.T) {
		_, err := NewTransaction("t-4", wallet, TransactionTypeTopUp, amount("0"), amount("100.00"), amount("100.00"), at)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := NewTransaction("t-5", wallet, TransactionType("gift"), amount("1.00"), amount("100.00"), amount("101.00"), at)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	})
}
