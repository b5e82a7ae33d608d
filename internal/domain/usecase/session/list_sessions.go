package session

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// Page limits for session listings
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ListSessions returns a page of the user's sessions, newest first
func (u *SessionUseCase) ListSessions(ctx context.Context, req usecase.ListSessionsRequest) ([]*entity.Session, error) {
	if req.UserID == 0 {
		return nil, errs.NewInvalidParameterError("user_id", "must be positive")
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 0 || limit > MaxPageSize {
		return nil, errs.NewInvalidParameterError("limit", "must be between 1 and 100")
	}
	if req.Offset < 0 {
		return nil, errs.NewInvalidParameterError("offset", "cannot be negative")
	}

	var status entity.SessionStatus
	if req.Status != "" {
		var err error
		if status, err = entity.ParseSessionStatus(req.Status); err != nil {
			return nil, err
		}
	}

	return u.uow.GetSessionRepository(ctx).ListByUser(ctx, req.UserID, status, limit, req.Offset)
}

// EstimateCost prices a booking with the same rules StartSession applies
func (u *SessionUseCase) EstimateCost(_ context.Context, activityType string, estimatedMinutes int) (*usecase.CostEstimate, error) {
	activity, err := entity.ParseActivityType(activityType)
	if err != nil {
		return nil, err
	}
	if err := u.costModel.ValidateDuration(activity, estimatedMinutes); err != nil {
		return nil, err
	}

	rate, err := u.costModel.Rate(activity)
	if err != nil {
		return nil, err
	}
	cost, err := u.costModel.Cost(activity, decimal.NewFromInt(int64(estimatedMinutes)))
	if err != nil {
		return nil, err
	}

	return &usecase.CostEstimate{
		ActivityType:     activity,
		EstimatedMinutes: estimatedMinutes,
		RatePerMinute:    rate,
		Cost:             cost,
	}, nil
}
