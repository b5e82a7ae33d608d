package time

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTimeProvider_NowTicks(t *testing.T) {
	// Arrange
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := NewManualTimeProvider(start, time.Millisecond)

	// Act
	first := clock.Now()
	second := clock.Now()

	// Assert
	assert.Equal(t, start, first)
	assert.Equal(t, start.Add(time.Millisecond), second)
	assert.Equal(t, start.Add(2*time.Millisecond), clock.Peek())
}

func TestManualTimeProvider_AdvanceAndSince(t *testing.T) {
	// Arrange
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := NewManualTimeProvider(start, 0)

	// Act
	clock.Advance(90 * time.Second)
	clock.Sleep(core.Duration(30 * time.Second))

	// Assert
	assert.Equal(t, 2*time.Minute, clock.Since(start).Std())
	assert.Equal(t, -2*time.Minute, clock.Until(start).Std())
}

func TestManualTimeProvider_Set(t *testing.T) {
	// Arrange
	clock := NewManualTimeProvider(time.Now(), 0)
	target := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	// Act
	clock.Set(target)

	// Assert
	assert.Equal(t, target, clock.Now())
}

func TestRealTimeProvider(t *testing.T) {
	// Arrange
	provider := NewRealTimeProvider()

	// Act
	now := provider.Now()
	d, err := provider.ParseDuration("1500ms")
	ctx, cancel := provider.WithTimeout(context.Background(), core.Second)
	defer cancel()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%1000)
	assert.Equal(t, 1500*time.Millisecond, d.Std())
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}
