package session

import (
	"context"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// usage is what a client may report when settling a session
type usage struct {
	minutes *int
	percent *decimal.Decimal
}

// CompleteSession charges actual usage and refunds the unused part of the reservation.
// Release, charge, refund and the session update commit together or not at all.
func (u *SessionUseCase) CompleteSession(ctx context.Context, req usecase.CompleteSessionRequest) (*usecase.SettlementView, error) {
	if err := validateRef(req.SessionID, req.UserID); err != nil {
		return nil, err
	}
	if req.ActualDurationMinutes != nil && *req.ActualDurationMinutes < 0 {
		return nil, errs.NewInvalidParameterError("actual_duration_minutes", "cannot be negative")
	}
	if req.CompletionPercent != nil {
		if err := validatePercent("completion_percent", *req.CompletionPercent); err != nil {
			return nil, err
		}
	}

	var (
		settled *entity.Session
		view    *usecase.SettlementView
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		session, err := u.uow.GetSessionRepository(txCtx).GetForUpdate(txCtx, req.SessionID, req.UserID)
		if err != nil {
			return err
		}
		if err := session.EnsureOpen("complete"); err != nil {
			return err
		}

		view, err = u.settle(txCtx, session, usage{minutes: req.ActualDurationMinutes, percent: req.CompletionPercent})
		if err != nil {
			return err
		}
		settled = session
		return nil
	})
	if err != nil {
		if errs.IsInsufficientBalanceError(err) {
			u.logger.Error("Settlement failed: insufficient balance", errs.LogFields(err))
		}
		return nil, err
	}

	u.afterSettle(ctx, settled, view, gateway.EventSessionCompleted)
	return view, nil
}

// settle finalizes the reservation of a locked open session, refunds the unused part
// and marks it completed. The charge row carries the authorized amount and the refund row
// the unused part, so the balance nets to before_reserve - actual_cost.
func (u *SessionUseCase) settle(ctx context.Context, session *entity.Session, reported usage) (*usecase.SettlementView, error) {
	from := session.Status
	reserved := session.Cost

	actualMinutes, err := u.actualMinutes(session, reported)
	if err != nil {
		return nil, err
	}
	actualCost, err := u.costModel.Cost(session.ActivityType, actualMinutes)
	if err != nil {
		return nil, err
	}
	if actualCost.GreaterThan(reserved) {
		actualCost = reserved
	}

	charge, err := u.wallets.FinalizeReservation(ctx, usecase.FinalizeRequest{
		UserID:         session.UserID,
		ReservedAmount: reserved,
		ActualAmount:   reserved,
		SessionID:      session.ID,
		Description:    fmt.Sprintf("Charge for %s session", session.ActivityType),
	})
	if err != nil {
		return nil, err
	}

	view := &usecase.SettlementView{
		SessionID:      session.ID,
		ReservedAmount: reserved,
		ActualCost:     actualCost,
		RefundAmount:   reserved.Sub(actualCost),
		ActualMinutes:  actualMinutes,
	}
	if charge != nil {
		view.ChargeTransactionID = charge.ID
	}

	if view.RefundAmount.IsPositive() {
		refund, err := u.wallets.Refund(ctx, usecase.RefundRequest{
			UserID:      session.UserID,
			Amount:      view.RefundAmount,
			SessionID:   session.ID,
			Description: fmt.Sprintf("Refund of unused %s session time", session.ActivityType),
		})
		if err != nil {
			return nil, err
		}
		view.RefundTransactionID = refund.ID
	}

	if err := session.Complete(actualMinutes, actualCost, view.ChargeTransactionID, u.timeProvider); err != nil {
		return nil, err
	}
	if err := u.uow.GetSessionRepository(ctx).Update(ctx, session); err != nil {
		return nil, err
	}

	view.Status = session.Status
	view.SettledAt = *session.CompletedAt
	u.transitioned(session, from)
	return view, nil
}

// actualMinutes derives usage from the report or from the session itself, capped at the estimate.
// Voice sessions are billed per started minute; video sessions by completion fraction.
func (u *SessionUseCase) actualMinutes(session *entity.Session, reported usage) (decimal.Decimal, error) {
	estimated := session.EstimatedMinutes()

	var minutes decimal.Decimal
	switch session.ActivityType.Kind() {
	case entity.ActivityKindVoice:
		if reported.minutes != nil {
			minutes = decimal.NewFromInt(int64(*reported.minutes))
		} else {
			minutes = elapsedMinutes(session.ClockStart(), u.timeProvider.Now())
		}
	case entity.ActivityKindVideo:
		percent := decimal.NewFromInt(100)
		if reported.percent != nil {
			percent = *reported.percent
		} else if video, ok := session.Metadata.Video(); ok {
			percent = video.ProgressPercent
		}
		minutes = entity.RoundAmount(estimated.Mul(percent).Div(decimal.NewFromInt(100)))
	default:
		return decimal.Zero, errs.NewInvalidParameterError("activity_type", fmt.Sprintf("unknown activity type %q", string(session.ActivityType)))
	}

	if minutes.GreaterThan(estimated) {
		minutes = estimated
	}
	return minutes, nil
}

func elapsedMinutes(start, now time.Time) decimal.Decimal {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return decimal.Zero
	}
	whole := int64(elapsed / time.Minute)
	if elapsed%time.Minute != 0 {
		whole++
	}
	return decimal.NewFromInt(whole)
}

func (u *SessionUseCase) afterSettle(ctx context.Context, session *entity.Session, view *usecase.SettlementView, eventType gateway.EventType) {
	charged, _ := view.ActualCost.Float64()
	refunded, _ := view.RefundAmount.Float64()
	u.metrics.ObserveSettlement(string(session.ActivityType), charged, refunded)

	u.logger.Info("Session settled", map[string]any{
		"sessionId":      session.ID,
		"userId":         session.UserID,
		"status":         string(view.Status),
		"reservedAmount": entity.FormatAmount(view.ReservedAmount),
		"actualCost":     entity.FormatAmount(view.ActualCost),
		"refundAmount":   entity.FormatAmount(view.RefundAmount),
	})
	u.publish(ctx, eventType, session, entity.FormatAmount(view.ActualCost))
}
