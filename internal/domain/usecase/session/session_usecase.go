package session

import (
	"context"
	"strings"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

var _ usecase.SessionUseCase = (*SessionUseCase)(nil)

// Settings tunes the session lifecycle
type Settings struct {
	// ReservationTTL is how long a session may stay reserved before the sweeper refunds it
	ReservationTTL time.Duration
	// ActiveGrace is added to started_at + estimate before an active session is auto-completed
	ActiveGrace time.Duration
	// SweepBatchSize caps the sessions closed per sweep
	SweepBatchSize int
	// AssessmentTimeout bounds one assessor call
	AssessmentTimeout time.Duration
	// VideoBaseURL prefixes video ids to build playback urls
	VideoBaseURL string
}

// DefaultSettings returns the settings used when configuration gives none
func DefaultSettings() Settings {
	return Settings{
		ReservationTTL:    30 * time.Minute,
		ActiveGrace:       15 * time.Minute,
		SweepBatchSize:    100,
		AssessmentTimeout: 10 * time.Second,
		VideoBaseURL:      "https://videos.example.com/watch",
	}
}

// SessionUseCase orchestrates reserve -> run -> settle for coaching sessions
type SessionUseCase struct {
	uow          persistence.UnitOfWork
	wallets      usecase.WalletUseCase
	costModel    *entity.CostModel
	assessor     gateway.Assessor
	publisher    gateway.EventPublisher
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
	settings     Settings
}

// NewSessionUseCase creates a new SessionUseCase
func NewSessionUseCase(
	uow persistence.UnitOfWork,
	wallets usecase.WalletUseCase,
	costModel *entity.CostModel,
	assessor gateway.Assessor,
	publisher gateway.EventPublisher,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	settings Settings,
) *SessionUseCase {
	if costModel == nil {
		costModel = entity.DefaultCostModel()
	}
	defaults := DefaultSettings()
	if settings.ReservationTTL <= 0 {
		settings.ReservationTTL = defaults.ReservationTTL
	}
	if settings.ActiveGrace < 0 {
		settings.ActiveGrace = defaults.ActiveGrace
	}
	if settings.SweepBatchSize <= 0 {
		settings.SweepBatchSize = defaults.SweepBatchSize
	}
	if settings.AssessmentTimeout <= 0 {
		settings.AssessmentTimeout = defaults.AssessmentTimeout
	}
	if settings.VideoBaseURL == "" {
		settings.VideoBaseURL = defaults.VideoBaseURL
	}
	settings.VideoBaseURL = strings.TrimRight(settings.VideoBaseURL, "/")

	return &SessionUseCase{
		uow:          uow,
		wallets:      wallets,
		costModel:    costModel,
		assessor:     assessor,
		publisher:    publisher,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		settings:     settings,
	}
}

func validateRef(sessionID string, userID uint64) error {
	if strings.TrimSpace(sessionID) == "" {
		return errs.NewInvalidParameterError("session_id", "empty value")
	}
	if userID == 0 {
		return errs.NewInvalidParameterError("user_id", "must be positive")
	}
	return nil
}

// GetSession returns a session owned by the user
func (u *SessionUseCase) GetSession(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error) {
	if err := validateRef(sessionID, userID); err != nil {
		return nil, err
	}
	return u.uow.GetSessionRepository(ctx).Get(ctx, sessionID, userID)
}

// publish emits an event after commit. Delivery failures are logged, never returned.
func (u *SessionUseCase) publish(ctx context.Context, eventType gateway.EventType, session *entity.Session, amount string) {
	event := gateway.Event{
		Type:      eventType,
		UserID:    session.UserID,
		SessionID: session.ID,
		Amount:    amount,
		Attributes: map[string]string{
			"activity_type": string(session.ActivityType),
			"status":        string(session.Status),
		},
		OccurredAt: u.timeProvider.Now(),
	}

	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Warn("Failed to publish session event", map[string]any{
			"event":     string(eventType),
			"sessionId": session.ID,
			"error":     err.Error(),
		})
	}
}

func (u *SessionUseCase) transitioned(session *entity.Session, from entity.SessionStatus) {
	if from == session.Status {
		return
	}
	u.metrics.SessionTransition(string(session.ActivityType), string(from), string(session.Status))
}
