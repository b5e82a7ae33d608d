package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StartSessionRequest books a session and reserves its estimated cost
type StartSessionRequest struct {
	UserID           uint64
	ActivityType     string
	EstimatedMinutes int
	Track            string
	Language         string
	VideoID          string
	Extras           map[string]string
}

// SessionView is a session plus the wallet's spendable balance after the operation
type SessionView struct {
	Session          *entity.Session
	ReservedAmount   decimal.Decimal
	AvailableBalance decimal.Decimal
}

// InteractRequest carries either a voice answer or a video progress report
type InteractRequest struct {
	SessionID string
	UserID    uint64

	// voice
	EventIndex *int
	Answer     string

	// video
	ProgressPercent *decimal.Decimal
	PositionSeconds int
}

// InteractionResult is the activity-specific outcome of an interaction
type InteractionResult struct {
	SessionID       string
	Status          entity.SessionStatus
	Score           *int
	SubScores       map[string]int
	Feedback        string
	ProgressPercent *decimal.Decimal
}

// CompleteSessionRequest settles a session. Both usage fields are optional.
type CompleteSessionRequest struct {
	SessionID             string
	UserID                uint64
	ActualDurationMinutes *int
	CompletionPercent     *decimal.Decimal
}

// SettlementView is the receipt of a completed or cancelled session
type SettlementView struct {
	SessionID           string
	Status              entity.SessionStatus
	ReservedAmount      decimal.Decimal
	ActualCost          decimal.Decimal
	RefundAmount        decimal.Decimal
	ActualMinutes       decimal.Decimal
	ChargeTransactionID string
	RefundTransactionID string
	SettledAt           time.Time
}

// ListSessionsRequest pages through a user's sessions. Status is optional.
type ListSessionsRequest struct {
	UserID uint64
	Status string
	Limit  int
	Offset int
}

// CostEstimate is the price of a booking before any reservation is made
type CostEstimate struct {
	ActivityType     entity.ActivityType
	EstimatedMinutes int
	RatePerMinute    decimal.Decimal
	Cost             decimal.Decimal
}

// SessionUseCase defines the coaching session lifecycle
type SessionUseCase interface {
	// StartSession validates the booking, reserves its cost and stores the session as reserved
	//
	// Possible errors:
	// - InvalidParameterError: unknown activity, duration out of bounds, unknown track
	// - InsufficientBalanceError: If the wallet cannot cover the estimate; nothing is stored
	StartSession(ctx context.Context, req StartSessionRequest) (*SessionView, error)

	// Interact records an answer or playback progress
	//
	// Possible errors:
	// - ErrSessionNotFound: If the user has no such session
	// - InvalidStateError: If the session is no longer open
	// - UpstreamServiceError: If assessment failed; nothing is recorded
	Interact(ctx context.Context, req InteractRequest) (*InteractionResult, error)

	// CompleteSession charges actual usage and refunds the rest of the reservation
	//
	// Possible errors:
	// - ErrSessionNotFound: If the user has no such session
	// - InvalidStateError: If the session is no longer open
	CompleteSession(ctx context.Context, req CompleteSessionRequest) (*SettlementView, error)

	// CancelSession releases the whole reservation without a charge
	CancelSession(ctx context.Context, sessionID string, userID uint64) (*SettlementView, error)

	// GetSession returns a session owned by the user
	GetSession(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error)

	// ListSessions returns a page of the user's sessions, newest first
	//
	// Possible errors:
	// - InvalidParameterError: bad paging or unknown status
	ListSessions(ctx context.Context, req ListSessionsRequest) ([]*entity.Session, error)

	// EstimateCost prices a booking without touching the wallet
	//
	// Possible errors:
	// - InvalidParameterError: unknown activity or duration out of bounds
	EstimateCost(ctx context.Context, activityType string, estimatedMinutes int) (*CostEstimate, error)

	// ExpireStaleSessions closes abandoned sessions and returns how many were closed
	ExpireStaleSessions(ctx context.Context, now time.Time) (int, error)
}
