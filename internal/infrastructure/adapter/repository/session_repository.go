package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ persistence.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements SessionRepository interface using GORM
type SessionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *gorm.DB, logger coreport.Logger) *SessionRepository {
	return &SessionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *SessionRepository) entityToModel(session *entity.Session) (model.Session, error) {
	metadata, err := json.Marshal(session.Metadata)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: encoding session metadata: %s", errs.ErrInternalServer, err.Error())
	}

	return model.Session{
		ID:              session.ID,
		UserID:          session.UserID,
		ActivityType:    string(session.ActivityType),
		DurationMinutes: session.DurationMinutes,
		Cost:            session.Cost,
		Status:          string(session.Status),
		ReservedAt:      session.ReservedAt.UTC(),
		StartedAt:       utcPtr(session.StartedAt),
		DueAt:           utcPtr(session.DueAt()),
		CompletedAt:     utcPtr(session.CompletedAt),
		CancelledAt:     utcPtr(session.CancelledAt),
		TransactionID:   nullableString(session.TransactionID),
		Metadata:        datatypes.JSON(metadata),
		CreatedAt:       session.CreatedAt.UTC(),
		UpdatedAt:       session.UpdatedAt.UTC(),
	}, nil
}

func (r *SessionRepository) modelToEntity(m *model.Session) (*entity.Session, error) {
	var metadata entity.SessionMetadata
	if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding metadata of session %s: %s", errs.ErrInternalServer, m.ID, err.Error())
	}

	return &entity.Session{
		ID:              m.ID,
		UserID:          m.UserID,
		ActivityType:    entity.ActivityType(m.ActivityType),
		DurationMinutes: m.DurationMinutes,
		Cost:            m.Cost,
		Status:          entity.SessionStatus(m.Status),
		ReservedAt:      m.ReservedAt,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		TransactionID:   stringValue(m.TransactionID),
		Metadata:        metadata,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func (r *SessionRepository) handleDatabaseError(operation, sessionID string, err error) error {
	mapped := r.errorClassifier.MapError(err, errs.ErrSessionNotFound, errs.ErrDuplicateKey)
	if errs.IsNotFoundError(mapped) {
		return mapped
	}

	r.logger.Warn("Database error when "+operation, map[string]any{
		"session_id": sessionID,
		"error":      err.Error(),
	})
	return mapped
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionModel, err := r.entityToModel(session)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&sessionModel).Error; err != nil {
		return r.handleDatabaseError("creating session", session.ID, err)
	}
	return nil
}

// Get reads a session owned by userID. Sessions of other users are reported as not found.
func (r *SessionRepository) Get(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error) {
	return r.get(ctx, r.db.WithContext(ctx), sessionID, userID)
}

// GetForUpdate reads a session owned by userID and locks its row
func (r *SessionRepository) GetForUpdate(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), sessionID, userID)
}

func (r *SessionRepository) get(_ context.Context, db *gorm.DB, sessionID string, userID uint64) (*entity.Session, error) {
	var sessionModel model.Session
	if err := db.Where("id = ? AND user_id = ?", sessionID, userID).First(&sessionModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting session", sessionID, err)
	}
	return r.modelToEntity(&sessionModel)
}

// Update writes the mutable fields of a session
func (r *SessionRepository) Update(ctx context.Context, session *entity.Session) error {
	sessionModel, err := r.entityToModel(session)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"duration_minutes": sessionModel.DurationMinutes,
			"cost":             sessionModel.Cost,
			"status":           sessionModel.Status,
			"started_at":       sessionModel.StartedAt,
			"due_at":           sessionModel.DueAt,
			"completed_at":     sessionModel.CompletedAt,
			"cancelled_at":     sessionModel.CancelledAt,
			"transaction_id":   sessionModel.TransactionID,
			"metadata":         sessionModel.Metadata,
			"updated_at":       sessionModel.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating session", session.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrSessionNotFound
	}
	return nil
}

// ListStale returns reserved sessions created before reservedBefore and active
// sessions whose due_at is before overdueBefore, oldest first. Sessions that are
// not stale yet never take a place in the batch.
func (r *SessionRepository) ListStale(ctx context.Context, reservedBefore, overdueBefore time.Time, limit int) ([]*entity.Session, error) {
	var models []model.Session
	err := r.db.WithContext(ctx).
		Where("(status = ? AND reserved_at < ?) OR (status = ? AND due_at < ?)",
			string(entity.SessionStatusReserved), reservedBefore.UTC(),
			string(entity.SessionStatusActive), overdueBefore.UTC()).
		Order("reserved_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing stale sessions", "", err)
	}

	return r.modelsToEntities(models), nil
}

// ListByUser returns a page of a user's sessions, newest first
func (r *SessionRepository) ListByUser(ctx context.Context, userID uint64, status entity.SessionStatus, limit, offset int) ([]*entity.Session, error) {
	var models []model.Session
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	err := query.
		Order("reserved_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing user sessions", "", err)
	}
	return r.modelsToEntities(models), nil
}

// modelsToEntities drops rows whose metadata cannot be decoded
func (r *SessionRepository) modelsToEntities(models []model.Session) []*entity.Session {
	sessions := make([]*entity.Session, 0, len(models))
	for i := range models {
		session, err := r.modelToEntity(&models[i])
		if err != nil {
			r.logger.Error("Skipping unreadable session", map[string]any{
				"session_id": models[i].ID,
				"error":      err.Error(),
			})
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}
