package time

import (
	"context"
	"sync"
	"time"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
)

// ManualTimeProvider is a controllable clock for tests and load scripts.
// Every call to Now advances the clock by step, so consecutive rows never share a timestamp.
type ManualTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewManualTimeProvider starts a clock at start that ticks by step on each Now call
func NewManualTimeProvider(start time.Time, step time.Duration) *ManualTimeProvider {
	return &ManualTimeProvider{now: start.UTC(), step: step}
}

// Now returns the current time and then advances the clock by step
func (p *ManualTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now
	p.now = p.now.Add(p.step)
	return now
}

// Peek returns the current time without ticking
func (p *ManualTimeProvider) Peek() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Advance moves the clock forward by d
func (p *ManualTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

// Set moves the clock to t
func (p *ManualTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t.UTC()
}

// Since returns the time elapsed since t
func (p *ManualTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.Peek().Sub(t))
}

// Until returns the duration until t
func (p *ManualTimeProvider) Until(t time.Time) core.Duration {
	return core.Duration(t.Sub(p.Peek()))
}

// Sleep advances the clock instead of blocking
func (p *ManualTimeProvider) Sleep(d core.Duration) {
	p.Advance(d.Std())
}

// WithTimeout uses a real timer; contexts cannot follow a manual clock
func (p *ManualTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// ParseDuration parses a duration string
func (p *ManualTimeProvider) ParseDuration(s string) (core.Duration, error) {
	d, err := time.ParseDuration(s)
	return core.Duration(d), err
}
