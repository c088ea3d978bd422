package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/observability/metrics"
)

// Purger drops expired entries and reports how many remain
type Purger interface {
	PurgeExpired() int
	Len() int
}

// SessionSweeper periodically removes expired password recovery sessions
type SessionSweeper struct {
	sessions Purger
	logger   *slog.Logger
	interval time.Duration
}

// NewSessionSweeper creates a new sweeper
func NewSessionSweeper(sessions Purger, logger *slog.Logger, interval time.Duration) *SessionSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{sessions: sessions, logger: logger, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("session sweeper started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs a single purge pass
func (w *SessionSweeper) Sweep() int {
	removed := w.sessions.PurgeExpired()
	live := w.sessions.Len()
	metrics.SetRecoverySessions(live)
	if removed > 0 {
		w.logger.Debug("expired recovery sessions purged",
			slog.Int("removed", removed),
			slog.Int("live", live),
		)
	}
	return removed
}
