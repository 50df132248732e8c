// Package scheduler runs a callback on a fixed interval until stopped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-interactive/logging"
)

// ErrInvalidInterval is returned when a non-positive tick interval is requested
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// TickFunc is invoked once per tick. A returned error is logged and the timer keeps
// running.
type TickFunc func() error

// Scheduler owns at most one repeating timer.
//
// After Stop returns no new tick is started. A tick that had already started when
// Stop was called is allowed to finish.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	onTick   TickFunc
	cancel   context.CancelFunc
	logger   *slog.Logger
}

// New returns an idle Scheduler. A nil logger discards tick failures.
func New(interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{interval: interval, logger: logger}
}

// Start cancels any running timer and begins firing onTick every interval
func (s *Scheduler) Start(interval time.Duration, onTick TickFunc) error {
	if interval <= 0 {
		return errors.Wrapf(ErrInvalidInterval, "[Start] interval=%s", interval)
	}
	if onTick == nil {
		return errors.New("[Start] nil tick function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.interval = interval
	s.onTick = onTick
	s.startLocked()
	return nil
}

// Stop cancels the active timer. It is a no-op when nothing is running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Retune changes the interval. A running timer is restarted with the new period and
// its phase reset; an idle scheduler only remembers the interval for the next Start.
func (s *Scheduler) Retune(interval time.Duration) error {
	if interval <= 0 {
		return errors.Wrapf(ErrInvalidInterval, "[Retune] interval=%s", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = interval
	if s.cancel == nil {
		return nil
	}
	s.stopLocked()
	s.startLocked()
	return nil
}

// Running reports whether a timer is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Interval returns the configured tick interval
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx, s.interval, s.onTick)
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, onTick TickFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.admit(ctx) {
				return
			}
			s.fire(onTick)
		}
	}
}

// admit checks cancellation under the same lock Stop cancels with, so a tick either
// starts before Stop returns or not at all
func (s *Scheduler) admit(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ctx.Err() == nil
}

func (s *Scheduler) fire(onTick TickFunc) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("tick panicked", "panic", fmt.Sprint(r))
		}
	}()

	if err := onTick(); err != nil {
		s.logger.Warn("tick failed", "err", err)
	}
}
