package session

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// CancelSession releases the whole reservation without a charge
func (u *SessionUseCase) CancelSession(ctx context.Context, sessionID string, userID uint64) (*usecase.SettlementView, error) {
	if err := validateRef(sessionID, userID); err != nil {
		return nil, err
	}

	var (
		cancelled *entity.Session
		view      *usecase.SettlementView
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		session, err := u.uow.GetSessionRepository(txCtx).GetForUpdate(txCtx, sessionID, userID)
		if err != nil {
			return err
		}
		if err := session.EnsureOpen("cancel"); err != nil {
			return err
		}

		view, err = u.release(txCtx, session, session.Cancel)
		if err != nil {
			return err
		}
		cancelled = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.afterSettle(ctx, cancelled, view, gateway.EventSessionCancelled)
	return view, nil
}

// release drops the earmark of a locked open session and applies the closing transition
func (u *SessionUseCase) release(
	ctx context.Context,
	session *entity.Session,
	closeFn func(coreport.TimeProvider) error,
) (*usecase.SettlementView, error) {
	from := session.Status
	reserved := session.Cost

	if _, err := u.wallets.ReleaseReservation(ctx, usecase.ReleaseRequest{
		UserID:         session.UserID,
		ReservedAmount: reserved,
		SessionID:      session.ID,
	}); err != nil {
		return nil, err
	}

	if err := closeFn(u.timeProvider); err != nil {
		return nil, err
	}
	if err := u.uow.GetSessionRepository(ctx).Update(ctx, session); err != nil {
		return nil, err
	}
	u.transitioned(session, from)

	return &usecase.SettlementView{
		SessionID:      session.ID,
		Status:         session.Status,
		ReservedAmount: reserved,
		ActualCost:     decimal.Zero,
		RefundAmount:   reserved,
		ActualMinutes:  decimal.Zero,
		SettledAt:      *session.CancelledAt,
	}, nil
}
