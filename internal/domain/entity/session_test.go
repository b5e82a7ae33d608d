package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVideoSession(t *testing.T, at time.Time) *Session {
	t.Helper()
	session, err := NewSession("s-1", 7, ActivityVideo, decimal.NewFromInt(20), amount("300.00"),
		SessionMetadata{State: &VideoState{VideoID: "v-1"}}, fixedClock(t, at))
	require.NoError(t, err)
	return session
}

func TestSessionStatus_Transitions(t *testing.T) {
	testCases := []struct {
		from SessionStatus
		to   SessionStatus
		ok   bool
	}{
		{SessionStatusReserved, SessionStatusActive, true},
		{SessionStatusReserved, SessionStatusCompleted, true},
		{SessionStatusReserved, SessionStatusCancelled, true},
		{SessionStatusReserved, SessionStatusRefunded, true},
		{SessionStatusActive, SessionStatusCompleted, true},
		{SessionStatusActive, SessionStatusReserved, false},
		{SessionStatusActive, SessionStatusActive, false},
		{SessionStatusCompleted, SessionStatusCancelled, false},
		{SessionStatusCancelled, SessionStatusActive, false},
		{SessionStatusRefunded, SessionStatusCompleted, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestNewSession(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mockTime := fixedClock(t, at)

	t.Run("Starts reserved", func(t *testing.T) {
		session := newTestVideoSession(t, at)

		assert.Equal(t, SessionStatusReserved, session.Status)
		assert.Equal(t, at, session.ReservedAt)
		assert.Equal(t, at, session.ClockStart())
		assert.Nil(t, session.StartedAt)
	})

	t.Run("Metadata must match the activity", func(t *testing.T) {
		_, err := NewSession("s-1", 7, ActivityVoiceStandard, decimal.NewFromInt(15), amount("30.00"),
			SessionMetadata{State: &VideoState{}}, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	})

	t.Run("Metadata is required", func(t *testing.T) {
		_, err := NewSession("s-1", 7, ActivityVideo, decimal.NewFromInt(15), amount("30.00"), SessionMetadata{}, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	})
}

func TestSession_Lifecycle(t *testing.T) {
	reservedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	startedAt := reservedAt.Add(2 * time.Minute)
	completedAt := reservedAt.Add(12 * time.Minute)

	session := newTestVideoSession(t, reservedAt)

	require.NoError(t, session.Activate(fixedClock(t, startedAt)))
	assert.Equal(t, SessionStatusActive, session.Status)
	assert.Equal(t, startedAt, session.ClockStart())

	require.NoError(t, session.Activate(fixedClock(t, startedAt.Add(time.Minute))))
	assert.Equal(t, startedAt, *session.StartedAt)

	require.NoError(t, session.Complete(decimal.NewFromInt(10), amount("150.00"), "t-9", fixedClock(t, completedAt)))
	assert.Equal(t, SessionStatusCompleted, session.Status)
	assert.Equal(t, "150.00", FormatAmount(session.Cost))
	assert.Equal(t, "t-9", session.TransactionID)
	assert.Equal(t, completedAt, *session.CompletedAt)

	err := session.Cancel(fixedClock(t, completedAt))
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.ErrorIs(t, session.Activate(fixedClock(t, completedAt)), errs.ErrInvalidState)
	assert.ErrorIs(t, session.EnsureOpen("interact"), errs.ErrInvalidState)
}

func TestSession_CancelAndExpire(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	cancelled := newTestVideoSession(t, at)
	require.NoError(t, cancelled.Cancel(fixedClock(t, at.Add(time.Minute))))
	assert.Equal(t, SessionStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	expired := newTestVideoSession(t, at)
	require.NoError(t, expired.Expire(fixedClock(t, at.Add(time.Hour))))
	assert.Equal(t, SessionStatusRefunded, expired.Status)
	assert.ErrorIs(t, expired.Expire(fixedClock(t, at.Add(time.Hour))), errs.ErrInvalidState)
}

func TestParseActivityType(t *testing.T) {
	activity, err := ParseActivityType("voice_realtime")
	require.NoError(t, err)
	assert.Equal(t, ActivityKindVoice, activity.Kind())

	_, err = ParseActivityType("podcast")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}
