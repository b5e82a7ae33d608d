package repository

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:              transaction.ID,
		WalletID:        transaction.WalletID,
		UserID:          transaction.UserID,
		Type:            string(transaction.Type),
		Amount:          transaction.Amount,
		BalanceBefore:   transaction.BalanceBefore,
		BalanceAfter:    transaction.BalanceAfter,
		SessionID:       nullableString(transaction.SessionID),
		PaymentMethodID: nullableString(transaction.PaymentMethodID),
		IdempotencyKey:  nullableString(transaction.IdempotencyKey),
		RelatedID:       nullableString(transaction.RelatedID),
		Description:     transaction.Description,
		CreatedAt:       transaction.CreatedAt.UTC(),
	}
}

// modelToEntity converts a database model to a transaction entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:              m.ID,
		WalletID:        m.WalletID,
		UserID:          m.UserID,
		Type:            entity.TransactionType(m.Type),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		SessionID:       stringValue(m.SessionID),
		PaymentMethodID: stringValue(m.PaymentMethodID),
		IdempotencyKey:  stringValue(m.IdempotencyKey),
		RelatedID:       stringValue(m.RelatedID),
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *TransactionRepository) modelsToEntities(models []model.Transaction) []*entity.Transaction {
	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions
}

// Create appends a ledger row
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           string(transaction.Type),
	})

	transactionModel := r.entityToModel(transaction)
	if err := r.db.WithContext(ctx).Create(&transactionModel).Error; err != nil {
		mapped := r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
		if errors.Is(mapped, errs.ErrDuplicateKey) {
			r.logger.Warn("Duplicate transaction detected", map[string]any{
				"transaction_id":  transaction.ID,
				"user_id":         transaction.UserID,
				"idempotency_key": transaction.IdempotencyKey,
			})
			return mapped
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
			"error":          err.Error(),
		})
		return mapped
	}

	return nil
}

// GetByID retrieves one ledger row
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
	}
	return r.modelToEntity(&transactionModel), nil
}

// FindByIdempotencyKey returns the top-up recorded under key, or nil when none exists
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, userID uint64, key string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&transactionModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
	}
	return r.modelToEntity(&transactionModel), nil
}

// FindRelated returns the row of txType that points at relatedID, or nil when none exists
func (r *TransactionRepository) FindRelated(ctx context.Context, relatedID string, txType entity.TransactionType) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	err := r.db.WithContext(ctx).
		Where("related_id = ? AND type = ?", relatedID, string(txType)).
		First(&transactionModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
	}
	return r.modelToEntity(&transactionModel), nil
}

// ListBySession returns the rows correlated with a session, oldest first
func (r *TransactionRepository) ListBySession(ctx context.Context, sessionID string) ([]*entity.Transaction, error) {
	var models []model.Transaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
	}
	return r.modelsToEntities(models), nil
}

// ListByUser returns a page of a user's rows, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint64, txType entity.TransactionType, limit, offset int) ([]*entity.Transaction, error) {
	var models []model.Transaction
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", string(txType))
	}
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTransactionNotFound, errs.ErrDuplicateKey)
	}
	return r.modelsToEntities(models), nil
}
