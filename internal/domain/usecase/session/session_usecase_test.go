package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/session"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/events"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/metrics"
	timeadapter "github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/time"
	gatewaymocks "github.com/amirhossein-jamali/coaching-wallet/mocks/port/gateway"
)

var fixedStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type sessionFixture struct {
	sessions *session.SessionUseCase
	wallets  *wallet.WalletUseCase
	testDB   *database.TestDBManager
	clock    *timeadapter.ManualTimeProvider
	assessor *gatewaymocks.MockAssessor
	logger   *logger.RecordingLogger
	metrics  *metrics.Prometheus
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	return newSessionFixtureWithSettings(t, session.DefaultSettings())
}

func newSessionFixtureWithSettings(t *testing.T, settings session.Settings) *sessionFixture {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(fixedStart, 0)
	recorder := logger.NewRecordingLogger()
	testDB := database.NewTestDBManager(t, logger.NewNoopLogger(), clock)
	testDB.Connect(t)

	uow := testDB.Manager.CreateUnitOfWork()
	m := metrics.New(nil)
	ids := idgen.NewUUIDGenerator()
	assessor := gatewaymocks.NewMockAssessor(t)

	wallets := wallet.NewWalletUseCase(uow, ids, clock, recorder, m, events.NoopPublisher{}, nil, "USD")
	sessions := session.NewSessionUseCase(uow, wallets, entity.DefaultCostModel(), assessor, events.NoopPublisher{},
		ids, clock, recorder, m, settings)

	return &sessionFixture{
		sessions: sessions,
		wallets:  wallets,
		testDB:   testDB,
		clock:    clock,
		assessor: assessor,
		logger:   recorder,
		metrics:  m,
	}
}

func (f *sessionFixture) balance(t *testing.T, userID uint64) (string, string, string) {
	t.Helper()
	result, err := f.wallets.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return entity.FormatAmount(result.Balance), entity.FormatAmount(result.ReservedBalance), entity.FormatAmount(result.AvailableBalance)
}

func (f *sessionFixture) ledgerTypes(t *testing.T, sessionID string) map[entity.TransactionType]string {
	t.Helper()
	rows, err := f.testDB.Manager.CreateUnitOfWork().GetTransactionRepository(context.Background()).
		ListBySession(context.Background(), sessionID)
	require.NoError(t, err)

	out := make(map[entity.TransactionType]string, len(rows))
	for _, row := range rows {
		out[row.Type] = entity.FormatAmount(row.Amount)
	}
	return out
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestVideoSession_ReserveProgressSettle(t *testing.T) {
	// Arrange
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")

	// Act
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{
		UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "intro-101",
	})
	require.NoError(t, err)
	sessionID := view.Session.ID

	progress, err := f.sessions.Interact(ctx, usecase.InteractRequest{
		SessionID: sessionID, UserID: 7, ProgressPercent: decPtr("50"), PositionSeconds: 600,
	})
	require.NoError(t, err)

	settlement, err := f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{SessionID: sessionID, UserID: 7})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "300.00", entity.FormatAmount(view.ReservedAmount))
	assert.Equal(t, "200.00", entity.FormatAmount(view.AvailableBalance))
	assert.Equal(t, entity.SessionStatusReserved, view.Session.Status)
	assert.NotEmpty(t, view.Session.TransactionID)
	video, ok := view.Session.Metadata.Video()
	require.True(t, ok)
	assert.Equal(t, "https://videos.example.com/watch/intro-101", video.VideoURL)

	assert.Equal(t, entity.SessionStatusActive, progress.Status)
	assert.Equal(t, "50.00", progress.ProgressPercent.StringFixed(2))

	assert.Equal(t, entity.SessionStatusCompleted, settlement.Status)
	assert.Equal(t, "150.00", entity.FormatAmount(settlement.ActualCost))
	assert.Equal(t, "150.00", entity.FormatAmount(settlement.RefundAmount))
	assert.Equal(t, "10.00", entity.FormatAmount(settlement.ActualMinutes))
	assert.NotEmpty(t, settlement.ChargeTransactionID)
	assert.NotEmpty(t, settlement.RefundTransactionID)

	balance, reserved, available := f.balance(t, 7)
	assert.Equal(t, "350.00", balance)
	assert.Equal(t, "0.00", reserved)
	assert.Equal(t, "350.00", available)

	assert.Equal(t, map[entity.TransactionType]string{
		entity.TransactionTypeReserve: "300.00",
		entity.TransactionTypeCharge:  "300.00",
		entity.TransactionTypeRefund:  "150.00",
	}, f.ledgerTypes(t, sessionID))

	stored, err := f.sessions.GetSession(ctx, sessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, "150.00", entity.FormatAmount(stored.Cost))
	assert.Equal(t, settlement.ChargeTransactionID, stored.TransactionID)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.SessionTransitions.WithLabelValues("video", "active", "completed")))
}

func TestVideoSession_ExplicitCompletionPercent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"})
	require.NoError(t, err)

	settlement, err := f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{
		SessionID: view.Session.ID, UserID: 7, CompletionPercent: decPtr("25"),
	})

	require.NoError(t, err)
	assert.Equal(t, "75.00", entity.FormatAmount(settlement.ActualCost))
	balance, _, _ := f.balance(t, 7)
	assert.Equal(t, "425.00", balance)
}

func TestVideoSession_AnswerTimelineQuestion(t *testing.T) {
	// Arrange
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")

	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{
		UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "intro-101",
	})
	require.NoError(t, err)
	video, ok := view.Session.Metadata.Video()
	require.True(t, ok)
	require.Len(t, video.Timeline, 4)
	question := video.Timeline[2]
	require.Equal(t, entity.TimelineQuestion, question.Type)

	f.assessor.On("Assess", mock.Anything, mock.MatchedBy(func(req gateway.AssessmentRequest) bool {
		return req.SessionID == view.Session.ID && req.Track == session.VideoAssessmentTrack && req.Prompt == question.Prompt
	})).Return(&gateway.Assessment{Overall: 64, Feedback: "Mention the second example too."}, nil).Once()

	// Act
	result, err := f.sessions.Interact(ctx, usecase.InteractRequest{
		SessionID: view.Session.ID, UserID: 7, EventIndex: intPtr(2), Answer: "Spaced repetition beats cramming.",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 64, *result.Score)
	assert.Equal(t, entity.SessionStatusActive, result.Status)
	assert.Nil(t, result.ProgressPercent)

	stored, err := f.sessions.GetSession(ctx, view.Session.ID, 7)
	require.NoError(t, err)
	storedVideo, ok := stored.Metadata.Video()
	require.True(t, ok)
	require.Len(t, storedVideo.Answers, 1)
	assert.Equal(t, 2, storedVideo.Answers[0].EventIndex)
	assert.Equal(t, 64, storedVideo.AverageScore())
	assert.Equal(t, "0.00", entity.FormatAmount(storedVideo.ProgressPercent))
	_, reserved, _ := f.balance(t, 7)
	assert.Equal(t, "300.00", reserved)
}

func TestVideoSession_AnswerRejectsNonQuestionEvents(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{
		UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "intro-101",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  usecase.InteractRequest
	}{
		{"practice prompt", usecase.InteractRequest{EventIndex: intPtr(1), Answer: "done"}},
		{"index out of range", usecase.InteractRequest{EventIndex: intPtr(4), Answer: "done"}},
		{"answer and progress together", usecase.InteractRequest{EventIndex: intPtr(0), Answer: "done", ProgressPercent: decPtr("10")}},
		{"empty answer", usecase.InteractRequest{EventIndex: intPtr(0), Answer: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.SessionID, req.UserID = view.Session.ID, 7

			_, err := f.sessions.Interact(ctx, req)

			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		})
	}

	stored, err := f.sessions.GetSession(ctx, view.Session.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusReserved, stored.Status)
	f.assessor.AssertNotCalled(t, "Assess", mock.Anything, mock.Anything)
}

func TestVoiceSession_AnswerAndElapsedBilling(t *testing.T) {
	// Arrange
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "100.00")

	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{
		UserID: 7, ActivityType: "voice_standard", EstimatedMinutes: 15, Track: "interview", Language: "en",
	})
	require.NoError(t, err)
	voice, ok := view.Session.Metadata.Voice()
	require.True(t, ok)

	f.assessor.On("Assess", mock.Anything, mock.MatchedBy(func(req gateway.AssessmentRequest) bool {
		return req.SessionID == view.Session.ID && req.Track == "interview" && req.Prompt == voice.Timeline[1].Prompt
	})).Return(&gateway.Assessment{Overall: 80, SubScores: map[string]int{"fluency": 20}, Feedback: "Good pace."}, nil).Once()

	// Act
	result, err := f.sessions.Interact(ctx, usecase.InteractRequest{
		SessionID: view.Session.ID, UserID: 7, EventIndex: intPtr(1), Answer: "I led a team of five.",
	})
	require.NoError(t, err)

	f.clock.Advance(6*time.Minute + 30*time.Second)
	settlement, err := f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{SessionID: view.Session.ID, UserID: 7})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "30.00", entity.FormatAmount(view.ReservedAmount))
	assert.Equal(t, 80, *result.Score)
	assert.Equal(t, "Good pace.", result.Feedback)
	assert.Equal(t, entity.SessionStatusActive, result.Status)

	assert.Equal(t, "7", settlement.ActualMinutes.String())
	assert.Equal(t, "14.00", entity.FormatAmount(settlement.ActualCost))
	assert.Equal(t, "16.00", entity.FormatAmount(settlement.RefundAmount))
	balance, reserved, _ := f.balance(t, 7)
	assert.Equal(t, "86.00", balance)
	assert.Equal(t, "0.00", reserved)
	assert.Equal(t, map[entity.TransactionType]string{
		entity.TransactionTypeReserve: "30.00",
		entity.TransactionTypeCharge:  "30.00",
		entity.TransactionTypeRefund:  "16.00",
	}, f.ledgerTypes(t, view.Session.ID))

	stored, err := f.sessions.GetSession(ctx, view.Session.ID, 7)
	require.NoError(t, err)
	storedVoice, ok := stored.Metadata.Voice()
	require.True(t, ok)
	require.Len(t, storedVoice.Answers, 1)
	assert.Equal(t, 80, storedVoice.Answers[0].Overall)
}

func TestVoiceSession_ReportedMinutesCappedAtEstimate(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "100.00")
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_standard", EstimatedMinutes: 15})
	require.NoError(t, err)

	settlement, err := f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{
		SessionID: view.Session.ID, UserID: 7, ActualDurationMinutes: intPtr(20),
	})

	require.NoError(t, err)
	assert.Equal(t, "15", settlement.ActualMinutes.String())
	assert.Equal(t, "30.00", entity.FormatAmount(settlement.ActualCost))
	assert.True(t, settlement.RefundAmount.IsZero())
	assert.Empty(t, settlement.RefundTransactionID)
	assert.NotContains(t, f.ledgerTypes(t, view.Session.ID), entity.TransactionTypeRefund)
	balance, _, _ := f.balance(t, 7)
	assert.Equal(t, "70.00", balance)
}

func TestSession_TerminalStatesRejectFurtherOperations(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")

	completed, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 10, VideoID: "a"})
	require.NoError(t, err)
	_, err = f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{SessionID: completed.Session.ID, UserID: 7})
	require.NoError(t, err)

	cancelled, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 10, VideoID: "b"})
	require.NoError(t, err)
	_, err = f.sessions.CancelSession(ctx, cancelled.Session.ID, 7)
	require.NoError(t, err)

	for _, id := range []string{completed.Session.ID, cancelled.Session.ID} {
		_, err = f.sessions.CompleteSession(ctx, usecase.CompleteSessionRequest{SessionID: id, UserID: 7})
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		_, err = f.sessions.CancelSession(ctx, id, 7)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		_, err = f.sessions.Interact(ctx, usecase.InteractRequest{SessionID: id, UserID: 7, ProgressPercent: decPtr("10")})
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	}

	balance, reserved, _ := f.balance(t, 7)
	assert.Equal(t, "350.00", balance)
	assert.Equal(t, "0.00", reserved)
}

func TestCancelSession_ReleasesWholeReservation(t *testing.T) {
	// Arrange
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"})
	require.NoError(t, err)

	// Act
	settlement, err := f.sessions.CancelSession(ctx, view.Session.ID, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusCancelled, settlement.Status)
	assert.Equal(t, "300.00", entity.FormatAmount(settlement.RefundAmount))
	assert.True(t, settlement.ActualCost.IsZero())
	balance, reserved, available := f.balance(t, 7)
	assert.Equal(t, "500.00", balance)
	assert.Equal(t, "0.00", reserved)
	assert.Equal(t, "500.00", available)
	assert.Equal(t, map[entity.TransactionType]string{entity.TransactionTypeReserve: "300.00"}, f.ledgerTypes(t, view.Session.ID))
}

func TestStartSession_InsufficientBalanceStoresNothing(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "10.00")

	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"})

	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Nil(t, view)

	var count int64
	require.NoError(t, f.testDB.Manager.DB().Table("coaching_sessions").Count(&count).Error)
	assert.Zero(t, count)
	balance, reserved, _ := f.balance(t, 7)
	assert.Equal(t, "10.00", balance)
	assert.Equal(t, "0.00", reserved)
}

func TestStartSession_SecondReservationCannotSpendTheSameFunds(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "300.00")
	req := usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"}

	_, err := f.sessions.StartSession(ctx, req)
	require.NoError(t, err)
	_, err = f.sessions.StartSession(ctx, req)

	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	balance, reserved, available := f.balance(t, 7)
	assert.Equal(t, "300.00", balance)
	assert.Equal(t, "300.00", reserved)
	assert.Equal(t, "0.00", available)
}

func TestStartSession_Validation(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  usecase.StartSessionRequest
	}{
		{"missing user", usecase.StartSessionRequest{ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"}},
		{"unknown activity", usecase.StartSessionRequest{UserID: 7, ActivityType: "podcast", EstimatedMinutes: 20}},
		{"voice too short", usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_standard", EstimatedMinutes: 4}},
		{"video too long", usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 121, VideoID: "v"}},
		{"unknown track", usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_realtime", EstimatedMinutes: 10, Track: "karaoke"}},
		{"video without id", usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sessions.StartSession(ctx, tc.req)

			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		})
	}
}

func TestGetSession_OtherUsersSessionIsNotFound(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
	view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 20, VideoID: "v"})
	require.NoError(t, err)

	_, err = f.sessions.GetSession(ctx, view.Session.ID, 8)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	_, err = f.sessions.CancelSession(ctx, view.Session.ID, 8)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestInteract_AssessmentFailureRecordsNothing(t *testing.T) {
	testCases := []struct {
		name       string
		assessment *gateway.Assessment
		err        error
	}{
		{"assessor error", nil, context.DeadlineExceeded},
		{"score out of range", &gateway.Assessment{Overall: 140}, nil},
		{"sub-score out of range", &gateway.Assessment{Overall: 50, SubScores: map[string]int{"fluency": -1}}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newSessionFixture(t)
			ctx := context.Background()
			f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
			view, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_realtime", EstimatedMinutes: 5})
			require.NoError(t, err)
			f.assessor.On("Assess", mock.Anything, mock.Anything).Return(tc.assessment, tc.err).Once()

			// Act
			_, err = f.sessions.Interact(ctx, usecase.InteractRequest{
				SessionID: view.Session.ID, UserID: 7, EventIndex: intPtr(0), Answer: "Hello, I am Sam.",
			})

			// Assert
			assert.ErrorIs(t, err, errs.ErrUpstreamService)
			stored, err := f.sessions.GetSession(ctx, view.Session.ID, 7)
			require.NoError(t, err)
			assert.Equal(t, entity.SessionStatusReserved, stored.Status)
			assert.Nil(t, stored.StartedAt)
			voice, _ := stored.Metadata.Voice()
			assert.Empty(t, voice.Answers)
			assert.Contains(t, f.logger.Messages(core.LogLevelWarn), "Assessment failed, answer not recorded")
		})
	}
}

func TestInteract_Validation(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "500.00")
	voice, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_standard", EstimatedMinutes: 10})
	require.NoError(t, err)
	video, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 10, VideoID: "v"})
	require.NoError(t, err)

	testCases := []struct {
		name string
		req  usecase.InteractRequest
	}{
		{"voice without event", usecase.InteractRequest{SessionID: voice.Session.ID, UserID: 7, Answer: "hi"}},
		{"voice event out of range", usecase.InteractRequest{SessionID: voice.Session.ID, UserID: 7, EventIndex: intPtr(9), Answer: "hi"}},
		{"voice empty answer", usecase.InteractRequest{SessionID: voice.Session.ID, UserID: 7, EventIndex: intPtr(0), Answer: "  "}},
		{"video without progress", usecase.InteractRequest{SessionID: video.Session.ID, UserID: 7}},
		{"video progress above 100", usecase.InteractRequest{SessionID: video.Session.ID, UserID: 7, ProgressPercent: decPtr("100.5")}},
		{"negative position", usecase.InteractRequest{SessionID: video.Session.ID, UserID: 7, ProgressPercent: decPtr("5"), PositionSeconds: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sessions.Interact(ctx, tc.req)

			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		})
	}
}

func TestListSessions(t *testing.T) {
	// Arrange
	f := newSessionFixture(t)
	ctx := context.Background()
	f.testDB.CreateTestWallet(t, "w-1", 7, "1000.00")

	first, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "voice_standard", EstimatedMinutes: 10})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.sessions.StartSession(ctx, usecase.StartSessionRequest{UserID: 7, ActivityType: "video", EstimatedMinutes: 10, VideoID: "v-1"})
	require.NoError(t, err)
	_, err = f.sessions.CancelSession(ctx, first.Session.ID, 7)
	require.NoError(t, err)

	// Act
	all, err := f.sessions.ListSessions(ctx, usecase.ListSessionsRequest{UserID: 7})
	require.NoError(t, err)
	cancelled, err := f.sessions.ListSessions(ctx, usecase.ListSessionsRequest{UserID: 7, Status: "cancelled"})
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 2)
	assert.Equal(t, second.Session.ID, all[0].ID)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.Session.ID, cancelled[0].ID)
}

func TestListSessions_InvalidRequest(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  usecase.ListSessionsRequest
	}{
		{name: "missing user", req: usecase.ListSessionsRequest{}},
		{name: "limit too large", req: usecase.ListSessionsRequest{UserID: 7, Limit: 101}},
		{name: "negative offset", req: usecase.ListSessionsRequest{UserID: 7, Offset: -1}},
		{name: "unknown status", req: usecase.ListSessionsRequest{UserID: 7, Status: "paused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sessions.ListSessions(ctx, tt.req)
			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		})
	}
}

func TestEstimateCost(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tests := []struct {
		activity string
		minutes  int
		rate     string
		cost     string
	}{
		{activity: "voice_standard", minutes: 15, rate: "2.00", cost: "30.00"},
		{activity: "voice_realtime", minutes: 10, rate: "40.00", cost: "400.00"},
		{activity: "video", minutes: 20, rate: "15.00", cost: "300.00"},
	}

	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			estimate, err := f.sessions.EstimateCost(ctx, tt.activity, tt.minutes)

			require.NoError(t, err)
			assert.Equal(t, tt.rate, entity.FormatAmount(estimate.RatePerMinute))
			assert.Equal(t, tt.cost, entity.FormatAmount(estimate.Cost))
		})
	}

	_, err := f.sessions.EstimateCost(ctx, "video", 5)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = f.sessions.EstimateCost(ctx, "podcast", 10)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}
