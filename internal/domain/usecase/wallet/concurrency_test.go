package wallet_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	timeadapter "github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/time"
)

const concurrentCallers = 8

func newConcurrentWalletFixture(t *testing.T) *walletFixture {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Millisecond)
	testDB := database.NewConcurrentTestDBManager(t, logger.NewNoopLogger(), clock, concurrentCallers)
	return newWalletFixtureOn(t, testDB, clock)
}

func TestReserve_ConcurrentCallersCannotOverspend(t *testing.T) {
	// Arrange
	f := newConcurrentWalletFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "100.00")

	var wg sync.WaitGroup
	start := make(chan struct{})
	errChan := make(chan error, concurrentCallers)

	// Act
	for i := 0; i < concurrentCallers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.useCase.Reserve(ctx, usecase.ReserveRequest{UserID: 7, Amount: dec("60")})
			errChan <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errChan)

	// Assert
	succeeded, insufficient := 0, 0
	for err := range errChan {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, errs.ErrInsufficientBalance):
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, concurrentCallers-1, insufficient)

	result := f.balance(t, 7)
	assert.Equal(t, "100.00", entity.FormatAmount(result.Balance))
	assert.Equal(t, "60.00", entity.FormatAmount(result.ReservedBalance))
	assert.Equal(t, "40.00", entity.FormatAmount(result.AvailableBalance))

	rows, err := f.useCase.ListTransactions(ctx, usecase.ListTransactionsRequest{UserID: 7, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGetOrCreateWallet_ConcurrentFirstAccessCreatesOneWallet(t *testing.T) {
	// Arrange
	f := newConcurrentWalletFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	start := make(chan struct{})
	errChan := make(chan error, concurrentCallers)
	idChan := make(chan string, concurrentCallers)

	// Act
	for i := 0; i < concurrentCallers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			w, err := f.useCase.GetOrCreateWallet(ctx, 77)
			if err != nil {
				errChan <- err
				return
			}
			idChan <- w.ID
		}()
	}
	close(start)
	wg.Wait()
	close(errChan)
	close(idChan)

	// Assert
	for err := range errChan {
		assert.NoError(t, err)
	}
	ids := make(map[string]struct{})
	for id := range idChan {
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 1)

	var count int64
	require.NoError(t, f.testDB.Manager.DB().Model(&model.Wallet{}).Where("user_id = ?", 77).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
