package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a coaching session
type SessionStatus string

// Session statuses
const (
	SessionStatusReserved  SessionStatus = "reserved"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusRefunded  SessionStatus = "refunded"
)

// IsOpen reports whether the session still holds a reservation
func (s SessionStatus) IsOpen() bool {
	switch s {
	case SessionStatusReserved, SessionStatusActive:
		return true
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusRefunded:
		return false
	}
	return false
}

// ParseSessionStatus converts a raw value into a SessionStatus
func ParseSessionStatus(value string) (SessionStatus, error) {
	st := SessionStatus(value)
	switch st {
	case SessionStatusReserved, SessionStatusActive, SessionStatusCompleted, SessionStatusCancelled, SessionStatusRefunded:
		return st, nil
	}
	return "", errs.NewInvalidParameterError("status", fmt.Sprintf("unknown session status %q", value))
}

// CanTransitionTo encodes reserved -> active -> completed and the
// reserved|active -> cancelled|refunded alternate terminals.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionStatusReserved:
		return next == SessionStatusActive || next == SessionStatusCompleted ||
			next == SessionStatusCancelled || next == SessionStatusRefunded
	case SessionStatusActive:
		return next == SessionStatusCompleted || next == SessionStatusCancelled || next == SessionStatusRefunded
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusRefunded:
		return false
	}
	return false
}

// ActivityKind groups activity types that share duration bounds and metadata
type ActivityKind string

// Activity kinds
const (
	ActivityKindVoice ActivityKind = "voice"
	ActivityKindVideo ActivityKind = "video"
)

// ActivityType is the priced variant of an activity
type ActivityType string

// Activity types
const (
	ActivityVoiceStandard ActivityType = "voice_standard"
	ActivityVoiceRealtime ActivityType = "voice_realtime"
	ActivityVideo         ActivityType = "video"
)

// ActivityTypes lists every priced activity
var ActivityTypes = []ActivityType{ActivityVoiceStandard, ActivityVoiceRealtime, ActivityVideo}

// ParseActivityType converts a raw value into an ActivityType
func ParseActivityType(value string) (ActivityType, error) {
	a := ActivityType(value)
	switch a {
	case ActivityVoiceStandard, ActivityVoiceRealtime, ActivityVideo:
		return a, nil
	}
	return "", errs.NewInvalidParameterError("activity_type", fmt.Sprintf("unknown activity type %q", value))
}

// Kind returns the activity family
func (a ActivityType) Kind() ActivityKind {
	switch a {
	case ActivityVoiceStandard, ActivityVoiceRealtime:
		return ActivityKindVoice
	case ActivityVideo:
		return ActivityKindVideo
	}
	return ""
}

// Session is one metered, timed activity funded by a reservation
type Session struct {
	ID              string
	UserID          uint64
	ActivityType    ActivityType
	DurationMinutes decimal.Decimal
	Cost            decimal.Decimal
	Status          SessionStatus
	ReservedAt      time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	TransactionID   string
	Metadata        SessionMetadata
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewSession creates a session in the reserved state
func NewSession(
	id string,
	userID uint64,
	activity ActivityType,
	durationMinutes, cost decimal.Decimal,
	metadata SessionMetadata,
	timeProvider coreport.TimeProvider,
) (*Session, error) {
	if id == "" {
		return nil, errs.NewInvalidParameterError("session_id", "empty value")
	}
	if userID == 0 {
		return nil, errs.NewInvalidParameterError("user_id", "must be positive")
	}
	if metadata.State == nil || metadata.State.Kind() != activity.Kind() {
		return nil, errs.NewInvalidParameterError("metadata", "does not match activity type")
	}

	now := timeProvider.Now()
	return &Session{
		ID:              id,
		UserID:          userID,
		ActivityType:    activity,
		DurationMinutes: durationMinutes,
		Cost:            cost,
		Status:          SessionStatusReserved,
		ReservedAt:      now,
		Metadata:        metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// EnsureOpen fails with InvalidState unless the session is reserved or active
func (s *Session) EnsureOpen(operation string) error {
	if !s.Status.IsOpen() {
		return errs.NewInvalidStateError(s.ID, string(s.Status), operation)
	}
	return nil
}

func (s *Session) transition(next SessionStatus, operation string) error {
	if !s.Status.CanTransitionTo(next) {
		return errs.NewInvalidStateError(s.ID, string(s.Status), operation)
	}
	s.Status = next
	return nil
}

// Activate moves reserved -> active on the first interaction. Active sessions stay active.
func (s *Session) Activate(timeProvider coreport.TimeProvider) error {
	if err := s.EnsureOpen("interact"); err != nil {
		return err
	}
	now := timeProvider.Now()
	if s.Status == SessionStatusReserved {
		if err := s.transition(SessionStatusActive, "interact"); err != nil {
			return err
		}
		s.StartedAt = &now
	}
	s.UpdatedAt = now
	return nil
}

// Complete records the settlement outcome
func (s *Session) Complete(actualMinutes, actualCost decimal.Decimal, chargeTransactionID string, timeProvider coreport.TimeProvider) error {
	if err := s.transition(SessionStatusCompleted, "complete"); err != nil {
		return err
	}
	now := timeProvider.Now()
	s.DurationMinutes = actualMinutes
	s.Cost = actualCost
	s.CompletedAt = &now
	s.UpdatedAt = now
	if chargeTransactionID != "" {
		s.TransactionID = chargeTransactionID
	}
	return nil
}

// Cancel ends the session without a charge
func (s *Session) Cancel(timeProvider coreport.TimeProvider) error {
	if err := s.transition(SessionStatusCancelled, "cancel"); err != nil {
		return err
	}
	now := timeProvider.Now()
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// Expire ends an abandoned reservation and returns its funds
func (s *Session) Expire(timeProvider coreport.TimeProvider) error {
	if err := s.transition(SessionStatusRefunded, "expire"); err != nil {
		return err
	}
	now := timeProvider.Now()
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// EstimatedMinutes returns the duration the reservation was sized for.
// Before completion DurationMinutes holds the estimate.
func (s *Session) EstimatedMinutes() decimal.Decimal {
	return s.DurationMinutes
}

// DueAt is when an active session's estimated time runs out. Nil until the session starts.
func (s *Session) DueAt() *time.Time {
	if s.StartedAt == nil {
		return nil
	}
	due := s.StartedAt.Add(time.Duration(s.EstimatedMinutes().IntPart()) * time.Minute)
	return &due
}

// ClockStart is the moment usage began: started_at when known, otherwise reserved_at
func (s *Session) ClockStart() time.Time {
	if s.StartedAt != nil {
		return *s.StartedAt
	}
	return s.ReservedAt
}
