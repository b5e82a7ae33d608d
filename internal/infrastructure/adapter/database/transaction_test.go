package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/time"
)

func setupUnitOfWork(t *testing.T) (*TestDBManager, *UnitOfWork) {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Millisecond)
	testDB := NewTestDBManager(t, logger.NewNoopLogger(), clock)
	testDB.Connect(t)
	testDB.CreateTestWallet(t, "w-1", 7, "100.00")

	return testDB, testDB.Manager.CreateUnitOfWork().(*UnitOfWork)
}

func balanceOf(t *testing.T, uow *UnitOfWork, userID uint64) string {
	t.Helper()

	wallet, err := uow.GetWalletRepository(context.Background()).GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return wallet.Balance().StringFixed(2)
}

func TestUnitOfWork_DoCommits(t *testing.T) {
	// Arrange
	_, uow := setupUnitOfWork(t)
	ctx := context.Background()

	// Act
	err := uow.Do(ctx, func(txCtx context.Context) error {
		repo := uow.GetWalletRepository(txCtx)
		wallet, err := repo.GetByUserIDForUpdate(txCtx, 7)
		if err != nil {
			return err
		}
		if _, _, err := wallet.Credit(decimal.NewFromInt(50), timeadapter.NewRealTimeProvider()); err != nil {
			return err
		}
		return repo.UpdateBalances(txCtx, wallet)
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "150.00", balanceOf(t, uow, 7))
}

func TestUnitOfWork_DoRollsBackOnError(t *testing.T) {
	// Arrange
	_, uow := setupUnitOfWork(t)
	ctx := context.Background()
	boom := errs.NewInvalidParameterError("amount", "rejected after write")

	// Act
	err := uow.Do(ctx, func(txCtx context.Context) error {
		repo := uow.GetWalletRepository(txCtx)
		wallet, err := repo.GetByUserIDForUpdate(txCtx, 7)
		if err != nil {
			return err
		}
		_, _, _ = wallet.Credit(decimal.NewFromInt(50), timeadapter.NewRealTimeProvider())
		if err := repo.UpdateBalances(txCtx, wallet); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	assert.Equal(t, "100.00", balanceOf(t, uow, 7))
}

func TestUnitOfWork_NestedDoJoinsOuterTransaction(t *testing.T) {
	// Arrange
	_, uow := setupUnitOfWork(t)
	ctx := context.Background()
	innerCalls := 0

	// Act
	err := uow.Do(ctx, func(outerCtx context.Context) error {
		innerErr := uow.Do(outerCtx, func(innerCtx context.Context) error {
			innerCalls++
			assert.Equal(t, outerCtx, innerCtx)

			repo := uow.GetWalletRepository(innerCtx)
			wallet, err := repo.GetByUserIDForUpdate(innerCtx, 7)
			if err != nil {
				return err
			}
			_, _, _ = wallet.Credit(decimal.NewFromInt(25), timeadapter.NewRealTimeProvider())
			return repo.UpdateBalances(innerCtx, wallet)
		})
		if innerErr != nil {
			return innerErr
		}
		return errors.New("outer failure")
	})

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 1, innerCalls)
	assert.Equal(t, "100.00", balanceOf(t, uow, 7), "inner write must roll back with the outer unit")
}

func TestUnitOfWork_RetriesTransientErrors(t *testing.T) {
	_, uow := setupUnitOfWork(t)
	attempts := 0

	err := uow.Do(context.Background(), func(txCtx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: simulated", errs.ErrConcurrentUpdate)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestUnitOfWork_DoesNotRetryBusinessErrors(t *testing.T) {
	_, uow := setupUnitOfWork(t)
	attempts := 0

	err := uow.Do(context.Background(), func(txCtx context.Context) error {
		attempts++
		return errs.NewInsufficientBalanceError(7, "reserve", "10.00", "0.00")
	})

	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Equal(t, 1, attempts)
}

func TestUnitOfWork_GivesUpAfterMaxRetries(t *testing.T) {
	_, uow := setupUnitOfWork(t)
	attempts := 0

	err := uow.Do(context.Background(), func(txCtx context.Context) error {
		attempts++
		return errs.ErrDuplicateKey
	})

	assert.ErrorIs(t, err, errs.ErrDuplicateKey)
	assert.Equal(t, uow.retryConfig.MaxRetries, attempts)
}

func TestUnitOfWork_RollsBackOnPanic(t *testing.T) {
	_, uow := setupUnitOfWork(t)

	assert.Panics(t, func() {
		_ = uow.Do(context.Background(), func(txCtx context.Context) error {
			repo := uow.GetWalletRepository(txCtx)
			wallet, _ := repo.GetByUserIDForUpdate(txCtx, 7)
			_, _, _ = wallet.Credit(decimal.NewFromInt(10), timeadapter.NewRealTimeProvider())
			_ = repo.UpdateBalances(txCtx, wallet)
			panic("boom")
		})
	})

	assert.Equal(t, "100.00", balanceOf(t, uow, 7))
}

func TestUnitOfWork_CommitWithoutTransaction(t *testing.T) {
	_, uow := setupUnitOfWork(t)

	assert.Error(t, uow.Commit(context.Background()))
}
