package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
)

// SessionRepository stores coaching sessions
type SessionRepository interface {
	// Create inserts a session
	Create(ctx context.Context, session *entity.Session) error

	// Get reads a session owned by the user
	//
	// Possible errors:
	// - ErrSessionNotFound: If no session matches id and user
	Get(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error)

	// GetForUpdate reads a session owned by the user and locks its row
	//
	// Possible errors:
	// - ErrSessionNotFound: If no session matches id and user
	GetForUpdate(ctx context.Context, sessionID string, userID uint64) (*entity.Session, error)

	// Update writes status, cost, duration, timestamps, transaction id and metadata
	Update(ctx context.Context, session *entity.Session) error

	// ListByUser returns a page of a user's sessions, newest first. An empty status lists every status.
	ListByUser(ctx context.Context, userID uint64, status entity.SessionStatus, limit, offset int) ([]*entity.Session, error)

	// ListStale returns open sessions that are either reserved before reservedBefore
	// or active with started_at + estimate before overdueBefore, oldest first
	ListStale(ctx context.Context, reservedBefore, overdueBefore time.Time, limit int) ([]*entity.Session, error)
}
