package repository

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ persistence.WalletRepository = (*WalletRepository)(nil)

// WalletRepository implements WalletRepository interface using GORM
type WalletRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *WalletRepository) modelToEntity(m *model.Wallet) *entity.Wallet {
	return entity.RestoreWallet(m.ID, m.UserID, m.Balance, m.ReservedBalance, m.Currency, m.CreatedAt, m.UpdatedAt)
}

// handleDatabaseError standardizes database error handling
func (r *WalletRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	mapped := r.errorClassifier.MapError(err, errs.ErrWalletNotFound, errs.ErrDuplicateWallet)
	if errs.IsNotFoundError(mapped) {
		return mapped
	}

	r.logger.Warn("Database error when "+operation, map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return mapped
}

// GetByUserID reads a wallet without locking it
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	var walletModel model.Wallet
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&walletModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting wallet", result.Error, userID)
	}
	return r.modelToEntity(&walletModel), nil
}

// GetByUserIDForUpdate reads a wallet with SELECT ... FOR UPDATE.
// SQLite has no row locks; there the single writer connection serializes access.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	var walletModel model.Wallet
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&walletModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking wallet", result.Error, userID)
	}

	r.logger.Debug("Wallet locked", map[string]any{
		"user_id":   userID,
		"wallet_id": walletModel.ID,
	})
	return r.modelToEntity(&walletModel), nil
}

// Create inserts a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	walletModel := model.Wallet{
		ID:              wallet.ID,
		UserID:          wallet.UserID,
		Balance:         wallet.Balance(),
		ReservedBalance: wallet.ReservedBalance(),
		Currency:        wallet.Currency,
		CreatedAt:       wallet.CreatedAt.UTC(),
		UpdatedAt:       wallet.UpdatedAt.UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&walletModel).Error; err != nil {
		return r.handleDatabaseError("creating wallet", err, wallet.UserID)
	}
	return nil
}

// UpdateBalances writes balance and reserved balance
func (r *WalletRepository) UpdateBalances(ctx context.Context, wallet *entity.Wallet) error {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"balance":          wallet.Balance(),
			"reserved_balance": wallet.ReservedBalance(),
			"updated_at":       wallet.UpdatedAt.UTC(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating wallet", result.Error, wallet.UserID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Wallet not found during update", map[string]any{
			"wallet_id": wallet.ID,
			"user_id":   wallet.UserID,
		})
		return errs.ErrWalletNotFound
	}
	return nil
}
