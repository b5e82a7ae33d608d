package session

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/usecase"
)

// Sweeper periodically expires stale sessions
type Sweeper struct {
	sessions     usecase.SessionUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	interval     time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(
	sessions usecase.SessionUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	interval time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		sessions:     sessions,
		timeProvider: timeProvider,
		logger:       logger,
		interval:     interval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Session sweeper started", map[string]any{
		"interval": s.interval.String(),
	})

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce runs a single sweep and returns how many sessions were closed
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	closed, err := s.sessions.ExpireStaleSessions(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Session sweep failed", map[string]any{
			"error": err.Error(),
		})
	}
	return closed
}

// Shutdown stops the loop and waits for an in-flight sweep to finish or ctx to expire
func (s *Sweeper) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	// never started: nothing to wait for
	s.startOnce.Do(func() {
		close(s.doneChan)
	})

	select {
	case <-s.doneChan:
		s.logger.Info("Session sweeper stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
