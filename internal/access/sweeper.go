package access

import (
	"context"
	"log/slog"
	"time"

	accessmetrics "docport/internal/access/metrics"
)

// Sweeper periodically deletes expired sessions so the store does not grow
// with abandoned logins. Expiry correctness never depends on it; Get already
// refuses expired sessions.
type Sweeper struct {
	sessions SessionStore
	interval time.Duration
	metrics  *accessmetrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// SweeperOption configures the sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperClock overrides the time source for tests.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

// WithSweeperMetrics attaches prometheus metrics.
func WithSweeperMetrics(m *accessmetrics.Metrics) SweeperOption {
	return func(s *Sweeper) { s.metrics = m }
}

// NewSweeper constructs a sweeper running every interval.
func NewSweeper(sessions SessionStore, interval time.Duration, logger *slog.Logger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("swept expired sessions", "removed", removed)
	}
	if s.metrics != nil {
		s.metrics.SessionsSwept.Add(float64(removed))
	}
}
