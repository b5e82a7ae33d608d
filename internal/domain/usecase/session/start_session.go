package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// MaxExtras bounds the free-form metadata a client may attach
const MaxExtras = 16

// StartSession validates the booking, then in one atomic unit stores the session as reserved
// and reserves its estimated cost. An insufficient balance leaves no session behind.
func (u *SessionUseCase) StartSession(ctx context.Context, req usecase.StartSessionRequest) (*usecase.SessionView, error) {
	if req.UserID == 0 {
		return nil, errs.NewInvalidParameterError("user_id", "must be positive")
	}
	activity, err := entity.ParseActivityType(req.ActivityType)
	if err != nil {
		return nil, err
	}
	if err := u.costModel.ValidateDuration(activity, req.EstimatedMinutes); err != nil {
		return nil, err
	}
	if len(req.Extras) > MaxExtras {
		return nil, errs.NewInvalidParameterError("extras", "too many entries")
	}

	minutes := decimal.NewFromInt(int64(req.EstimatedMinutes))
	cost, err := u.costModel.Cost(activity, minutes)
	if err != nil {
		return nil, err
	}

	metadata, err := u.buildMetadata(activity, req)
	if err != nil {
		return nil, err
	}

	session, err := entity.NewSession(u.idGenerator.NewID(), req.UserID, activity, minutes, cost, metadata, u.timeProvider)
	if err != nil {
		return nil, err
	}

	var available decimal.Decimal
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		session.TransactionID = ""

		if _, err := u.wallets.GetOrCreateWallet(txCtx, req.UserID); err != nil {
			return err
		}

		repo := u.uow.GetSessionRepository(txCtx)
		if err := repo.Create(txCtx, session); err != nil {
			return err
		}

		reservation, err := u.wallets.Reserve(txCtx, usecase.ReserveRequest{
			UserID:      req.UserID,
			Amount:      cost,
			SessionID:   session.ID,
			Description: "Reservation for " + string(activity) + " session",
		})
		if err != nil {
			return err
		}

		session.TransactionID = reservation.ID
		if err := repo.Update(txCtx, session); err != nil {
			return err
		}

		balance, err := u.wallets.GetBalance(txCtx, req.UserID)
		if err != nil {
			return err
		}
		available = balance.AvailableBalance
		return nil
	})
	if err != nil {
		if errs.IsInsufficientBalanceError(err) {
			u.logger.Info("Session not started: insufficient balance", errs.LogFields(err))
		}
		return nil, err
	}

	u.metrics.SessionTransition(string(activity), "none", string(session.Status))
	u.logger.Info("Session reserved", map[string]any{
		"sessionId":      session.ID,
		"userId":         session.UserID,
		"activityType":   string(activity),
		"estimatedMin":   req.EstimatedMinutes,
		"reservedAmount": entity.FormatAmount(cost),
	})
	u.publish(ctx, gateway.EventSessionStarted, session, entity.FormatAmount(cost))

	return &usecase.SessionView{
		Session:          session,
		ReservedAmount:   cost,
		AvailableBalance: available,
	}, nil
}

func (u *SessionUseCase) buildMetadata(activity entity.ActivityType, req usecase.StartSessionRequest) (entity.SessionMetadata, error) {
	metadata := entity.SessionMetadata{Extras: req.Extras}

	switch activity.Kind() {
	case entity.ActivityKindVoice:
		state, err := entity.NewVoiceState(req.Track, req.Language, req.EstimatedMinutes)
		if err != nil {
			return entity.SessionMetadata{}, errs.NewInvalidParameterError("track", err.Error())
		}
		metadata.State = state
	case entity.ActivityKindVideo:
		videoID := strings.TrimSpace(req.VideoID)
		if videoID == "" {
			return entity.SessionMetadata{}, errs.NewInvalidParameterError("video_id", "empty value")
		}
		metadata.State = entity.NewVideoState(videoID,
			u.settings.VideoBaseURL+"/"+url.PathEscape(videoID), req.EstimatedMinutes)
	default:
		return entity.SessionMetadata{}, errs.NewInvalidParameterError("activity_type", "unsupported activity")
	}

	return metadata, nil
}
