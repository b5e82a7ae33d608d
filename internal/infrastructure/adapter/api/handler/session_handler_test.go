package handler_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var reservedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func videoSession(status entity.SessionStatus) *entity.Session {
	return &entity.Session{
		ID:              "sess-1",
		UserID:          42,
		ActivityType:    entity.ActivityVideo,
		DurationMinutes: dec("20"),
		Cost:            dec("300"),
		Status:          status,
		ReservedAt:      reservedAt,
		Metadata: entity.SessionMetadata{
			State: entity.NewVideoState("intro", "https://videos.example.com/watch/intro", 20),
		},
	}
}

func voiceSession() *entity.Session {
	state, err := entity.NewVoiceState("interview", "en", 15)
	if err != nil {
		panic(err)
	}
	return &entity.Session{
		ID:              "sess-2",
		UserID:          42,
		ActivityType:    entity.ActivityVoiceStandard,
		DurationMinutes: dec("15"),
		Cost:            dec("30"),
		Status:          entity.SessionStatusReserved,
		ReservedAt:      reservedAt,
		Metadata:        entity.SessionMetadata{State: state},
	}
}

func TestStartSession_Video(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	f.sessions.On("StartSession", mock.Anything, usecase.StartSessionRequest{
		UserID:           42,
		ActivityType:     "video",
		EstimatedMinutes: 20,
		VideoID:          "intro",
	}).Return(&usecase.SessionView{
		Session:          videoSession(entity.SessionStatusReserved),
		ReservedAmount:   dec("300"),
		AvailableBalance: dec("200"),
	}, nil)

	// Act
	w := f.do(t, http.MethodPost, "/user/42/sessions", map[string]any{
		"activity_type":              "video",
		"params":                     map[string]any{"video_id": "intro"},
		"estimated_duration_minutes": 20,
	})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.SessionResponse](t, w)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "reserved", resp.Status)
	assert.Equal(t, "300.00", resp.ReservedAmount)
	assert.Equal(t, "200.00", resp.AvailableBalance)
	assert.Equal(t, "https://videos.example.com/watch/intro", resp.VideoURL)
	assert.True(t, resp.ReservedAt.Equal(reservedAt))
	require.Len(t, resp.Timeline, 4)
	assert.Equal(t, entity.TimelineQuestion, resp.Timeline[0].Type)
	assert.Equal(t, entity.TimelinePractice, resp.Timeline[1].Type)
	assert.Nil(t, resp.AverageScore)
}

func TestStartSession_VoiceReturnsTimeline(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	f.sessions.On("StartSession", mock.Anything, mock.MatchedBy(func(req usecase.StartSessionRequest) bool {
		return req.Track == "interview" && req.Language == "en"
	})).Return(&usecase.SessionView{
		Session:          voiceSession(),
		ReservedAmount:   dec("30"),
		AvailableBalance: dec("70"),
	}, nil)

	// Act
	w := f.do(t, http.MethodPost, "/user/42/sessions", map[string]any{
		"activity_type":              "voice_standard",
		"params":                     map[string]any{"track": "interview", "language": "en"},
		"estimated_duration_minutes": 15,
	})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.SessionResponse](t, w)
	assert.Equal(t, "interview", resp.Track)
	require.Len(t, resp.Timeline, 4)
	assert.Equal(t, entity.TimelineWarmup, resp.Timeline[0].Type)
	assert.Equal(t, entity.TimelineWrapup, resp.Timeline[3].Type)
	assert.Empty(t, resp.VideoURL)
}

func TestStartSession_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		useCaseErr error
		wantStatus int
		wantCode   int
	}{
		{
			name:       "unknown activity rejected by binding",
			body:       map[string]any{"activity_type": "chess", "estimated_duration_minutes": 20},
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerr.CodeInvalidParameter,
		},
		{
			name:       "missing duration",
			body:       map[string]any{"activity_type": "video"},
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerr.CodeInvalidParameter,
		},
		{
			name:       "insufficient balance",
			body:       map[string]any{"activity_type": "video", "estimated_duration_minutes": 20},
			useCaseErr: domainerr.NewInsufficientBalanceError(42, "reserve", "300.00", "100.00"),
			wantStatus: http.StatusPaymentRequired,
			wantCode:   domainerr.CodeInsufficientBalance,
		},
		{
			name:       "duration out of bounds",
			body:       map[string]any{"activity_type": "video", "estimated_duration_minutes": 500},
			useCaseErr: domainerr.NewInvalidParameterError("estimated_duration_minutes", "must be between 10 and 120 for video sessions"),
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerr.CodeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newAPIFixture(t)
			if tt.useCaseErr != nil {
				f.sessions.On("StartSession", mock.Anything, mock.Anything).Return(nil, tt.useCaseErr)
			}

			// Act
			w := f.do(t, http.MethodPost, "/user/42/sessions", tt.body)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestGetSession(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		session := videoSession(entity.SessionStatusActive)
		session.Metadata.State.(*entity.VideoState).ProgressPercent = dec("40")
		f.sessions.On("GetSession", mock.Anything, "sess-1", uint64(42)).Return(session, nil)

		// Act
		w := f.do(t, http.MethodGet, "/user/42/sessions/sess-1", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.SessionResponse](t, w)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "300.00", resp.ReservedAmount)
		assert.Equal(t, "40.00", resp.ProgressPercent)
	})

	t.Run("settled session has no reservation", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		f.sessions.On("GetSession", mock.Anything, "sess-1", uint64(42)).
			Return(videoSession(entity.SessionStatusCompleted), nil)

		// Act
		w := f.do(t, http.MethodGet, "/user/42/sessions/sess-1", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[dto.SessionResponse](t, w).ReservedAmount)
	})

	t.Run("not found", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		f.sessions.On("GetSession", mock.Anything, "missing", uint64(42)).Return(nil, domainerr.ErrSessionNotFound)

		// Act
		w := f.do(t, http.MethodGet, "/user/42/sessions/missing", nil)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, domainerr.CodeSessionNotFound, decodeError(t, w).Code)
	})
}

func TestInteract_Voice(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	score := 85
	f.sessions.On("Interact", mock.Anything, mock.MatchedBy(func(req usecase.InteractRequest) bool {
		return req.SessionID == "sess-2" && req.UserID == 42 &&
			req.EventIndex != nil && *req.EventIndex == 1 &&
			req.Answer == "I led the migration" && req.ProgressPercent == nil
	})).Return(&usecase.InteractionResult{
		SessionID: "sess-2",
		Status:    entity.SessionStatusActive,
		Score:     &score,
		SubScores: map[string]int{"fluency": 80, "grammar": 90},
		Feedback:  "Good structure",
	}, nil)

	// Act
	w := f.do(t, http.MethodPost, "/user/42/sessions/sess-2/interact", map[string]any{
		"event_index": 1,
		"answer":      "I led the migration",
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.InteractResponse](t, w)
	assert.Equal(t, "active", resp.Status)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 85, *resp.Score)
	assert.Equal(t, 90, resp.SubScores["grammar"])
	assert.Empty(t, resp.ProgressPercent)
}

func TestInteract_VideoProgress(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	progress := dec("55.5")
	f.sessions.On("Interact", mock.Anything, mock.MatchedBy(func(req usecase.InteractRequest) bool {
		return req.ProgressPercent != nil && req.ProgressPercent.Equal(dec("55.5")) && req.PositionSeconds == 600
	})).Return(&usecase.InteractionResult{
		SessionID:       "sess-1",
		Status:          entity.SessionStatusActive,
		ProgressPercent: &progress,
	}, nil)

	// Act
	w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/interact", map[string]any{
		"progress_percent": "55.5",
		"position_seconds": 600,
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "55.50", decode[dto.InteractResponse](t, w).ProgressPercent)
}

func TestInteract_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		useCaseErr error
		wantStatus int
		wantCode   int
	}{
		{
			name:       "malformed progress",
			body:       map[string]any{"progress_percent": "half"},
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerr.CodeInvalidParameter,
		},
		{
			name:       "completed session",
			body:       map[string]any{"event_index": 0, "answer": "hi"},
			useCaseErr: domainerr.NewInvalidStateError("sess-1", "completed", "interact"),
			wantStatus: http.StatusConflict,
			wantCode:   domainerr.CodeInvalidState,
		},
		{
			name:       "assessment failed",
			body:       map[string]any{"event_index": 0, "answer": "hi"},
			useCaseErr: domainerr.NewUpstreamServiceError("assessor", errors.New("timeout")),
			wantStatus: http.StatusBadGateway,
			wantCode:   domainerr.CodeUpstreamService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newAPIFixture(t)
			if tt.useCaseErr != nil {
				f.sessions.On("Interact", mock.Anything, mock.Anything).Return(nil, tt.useCaseErr)
			}

			// Act
			w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/interact", tt.body)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestCompleteSession(t *testing.T) {
	settledAt := reservedAt.Add(20 * time.Minute)
	settlement := &usecase.SettlementView{
		SessionID:           "sess-1",
		Status:              entity.SessionStatusCompleted,
		ReservedAmount:      dec("300"),
		ActualCost:          dec("150"),
		RefundAmount:        dec("150"),
		ActualMinutes:       dec("10"),
		ChargeTransactionID: "tx-charge",
		RefundTransactionID: "tx-refund",
		SettledAt:           settledAt,
	}

	t.Run("with completion percent", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		f.sessions.On("CompleteSession", mock.Anything, mock.MatchedBy(func(req usecase.CompleteSessionRequest) bool {
			return req.SessionID == "sess-1" && req.CompletionPercent != nil &&
				req.CompletionPercent.Equal(dec("50")) && req.ActualDurationMinutes == nil
		})).Return(settlement, nil)

		// Act
		w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/complete", map[string]any{"completion_percent": "50"})

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.SettlementResponse](t, w)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "300.00", resp.ReservedAmount)
		assert.Equal(t, "150.00", resp.ActualCost)
		assert.Equal(t, "150.00", resp.RefundAmount)
		require.NotNil(t, resp.CompletedAt)
		assert.True(t, resp.CompletedAt.Equal(settledAt))
		assert.Nil(t, resp.CancelledAt)
	})

	t.Run("empty body", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		f.sessions.On("CompleteSession", mock.Anything, usecase.CompleteSessionRequest{SessionID: "sess-1", UserID: 42}).
			Return(settlement, nil)

		// Act
		w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/complete", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("double complete", func(t *testing.T) {
		// Arrange
		f := newAPIFixture(t)
		f.sessions.On("CompleteSession", mock.Anything, mock.Anything).
			Return(nil, domainerr.NewInvalidStateError("sess-1", "completed", "complete"))

		// Act
		w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/complete", map[string]any{})

		// Assert
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, domainerr.CodeInvalidState, decodeError(t, w).Code)
	})
}

func TestCancelSession(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	cancelledAt := reservedAt.Add(5 * time.Minute)
	f.sessions.On("CancelSession", mock.Anything, "sess-1", uint64(42)).Return(&usecase.SettlementView{
		SessionID:      "sess-1",
		Status:         entity.SessionStatusCancelled,
		ReservedAmount: dec("300"),
		ActualCost:     dec("0"),
		RefundAmount:   dec("300"),
		ActualMinutes:  dec("0"),
		SettledAt:      cancelledAt,
	}, nil)

	// Act
	w := f.do(t, http.MethodPost, "/user/42/sessions/sess-1/cancel", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.SettlementResponse](t, w)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "300.00", resp.RefundAmount)
	assert.Equal(t, "0.00", resp.ActualCost)
	require.NotNil(t, resp.CancelledAt)
	assert.True(t, resp.CancelledAt.Equal(cancelledAt))
	assert.Nil(t, resp.CompletedAt)
}

func TestListSessions(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	f.sessions.On("ListSessions", mock.Anything, usecase.ListSessionsRequest{UserID: 42, Status: "reserved", Limit: 50}).
		Return([]*entity.Session{videoSession(entity.SessionStatusReserved), voiceSession()}, nil)

	// Act
	w := f.do(t, http.MethodGet, "/user/42/sessions?status=reserved", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.SessionListResponse](t, w)
	assert.Equal(t, uint64(42), resp.UserID)
	assert.Equal(t, "reserved", resp.Status)
	assert.Equal(t, 50, resp.Limit)
	require.Len(t, resp.Sessions, 2)
	assert.Equal(t, "sess-1", resp.Sessions[0].SessionID)
	assert.Equal(t, "https://videos.example.com/watch/intro", resp.Sessions[0].VideoURL)
	assert.Equal(t, "interview", resp.Sessions[1].Track)
}

func TestListSessions_Errors(t *testing.T) {
	t.Run("non-numeric offset", func(t *testing.T) {
		f := newAPIFixture(t)

		w := f.do(t, http.MethodGet, "/user/42/sessions?offset=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domainerr.CodeInvalidParameter, decodeError(t, w).Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newAPIFixture(t)
		f.sessions.On("ListSessions", mock.Anything, usecase.ListSessionsRequest{UserID: 42, Status: "paused", Limit: 50}).
			Return(nil, domainerr.NewInvalidParameterError("status", `unknown session status "paused"`))

		w := f.do(t, http.MethodGet, "/user/42/sessions?status=paused", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEstimateCost(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)
	f.sessions.On("EstimateCost", mock.Anything, "voice_realtime", 10).Return(&usecase.CostEstimate{
		ActivityType:     entity.ActivityVoiceRealtime,
		EstimatedMinutes: 10,
		RatePerMinute:    dec("40"),
		Cost:             dec("400"),
	}, nil)

	// Act
	w := f.do(t, http.MethodGet, "/pricing/estimate?activity_type=voice_realtime&duration_minutes=10", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.CostEstimateResponse](t, w)
	assert.Equal(t, "voice_realtime", resp.ActivityType)
	assert.Equal(t, 10, resp.EstimatedDurationMinutes)
	assert.Equal(t, "40.00", resp.RatePerMinute)
	assert.Equal(t, "400.00", resp.EstimatedCost)
}

func TestEstimateCost_OutOfBounds(t *testing.T) {
	f := newAPIFixture(t)
	f.sessions.On("EstimateCost", mock.Anything, "video", 200).
		Return(nil, domainerr.NewInvalidParameterError("estimated_duration_minutes", "must be between 10 and 120 for video sessions"))

	w := f.do(t, http.MethodGet, "/pricing/estimate?activity_type=video&duration_minutes=200", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domainerr.CodeInvalidParameter, decodeError(t, w).Code)
}

func TestHealth(t *testing.T) {
	// Arrange
	f := newAPIFixture(t)

	// Act
	w := f.do(t, http.MethodGet, "/health", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
