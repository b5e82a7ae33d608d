package session

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// ExpireStaleSessions closes abandoned sessions:
//   - reserved sessions older than ReservationTTL are released and marked refunded
//   - active sessions past started_at + estimate + ActiveGrace are completed through normal settlement
//
// Each session is closed in its own unit of work; one failure does not stop the sweep.
func (u *SessionUseCase) ExpireStaleSessions(ctx context.Context, now time.Time) (int, error) {
	reservedBefore := now.Add(-u.settings.ReservationTTL)
	overdueBefore := now.Add(-u.settings.ActiveGrace)

	candidates, err := u.uow.GetSessionRepository(ctx).ListStale(ctx, reservedBefore, overdueBefore, u.settings.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		if !u.isStale(candidate, now) {
			continue
		}

		ok, err := u.expire(ctx, candidate.ID, candidate.UserID, now)
		if err != nil {
			fields := errs.LogFields(err)
			fields["sessionId"] = candidate.ID
			u.logger.Error("Failed to expire stale session", fields)
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 {
		u.metrics.SessionsExpired(closed)
		u.logger.Info("Stale sessions closed", map[string]any{
			"count":      closed,
			"candidates": len(candidates),
		})
	}
	return closed, nil
}

func (u *SessionUseCase) isStale(session *entity.Session, now time.Time) bool {
	switch session.Status {
	case entity.SessionStatusReserved:
		return session.ReservedAt.Add(u.settings.ReservationTTL).Before(now)
	case entity.SessionStatusActive:
		due := session.DueAt()
		return due != nil && due.Add(u.settings.ActiveGrace).Before(now)
	case entity.SessionStatusCompleted, entity.SessionStatusCancelled, entity.SessionStatusRefunded:
		return false
	}
	return false
}

// expire re-reads the session under lock and closes it when it is still stale
func (u *SessionUseCase) expire(ctx context.Context, sessionID string, userID uint64, now time.Time) (bool, error) {
	var (
		closed    *entity.Session
		view      *usecase.SettlementView
		eventType gateway.EventType
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		closed = nil

		session, err := u.uow.GetSessionRepository(txCtx).GetForUpdate(txCtx, sessionID, userID)
		if err != nil {
			return err
		}
		if !u.isStale(session, now) {
			return nil
		}

		if session.Status == entity.SessionStatusReserved {
			view, err = u.release(txCtx, session, session.Expire)
			eventType = gateway.EventSessionExpired
		} else {
			view, err = u.settle(txCtx, session, usage{})
			eventType = gateway.EventSessionCompleted
		}
		if err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil || closed == nil {
		return false, err
	}

	u.afterSettle(ctx, closed, view, eventType)
	return true, nil
}
