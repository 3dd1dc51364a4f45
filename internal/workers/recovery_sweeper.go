package workers

import (
	"context"
	"time"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
)

const defaultSweepInterval = time.Hour

// RecoverySweeper periodically clears expired password-reset tokens and
// recovery codes from the store. Expired artifacts are already rejected by
// every lookup, so the sweeper is storage hygiene, not a security boundary.
type RecoverySweeper struct {
	repo     store.UserRepository
	interval time.Duration
	logger   *logger.Logger
	stop     chan struct{}
}

// NewRecoverySweeper builds a sweeper over repo. A non-positive interval
// falls back to the hourly default.
func NewRecoverySweeper(repo store.UserRepository, interval time.Duration, log *logger.Logger) *RecoverySweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &RecoverySweeper{
		repo:     repo,
		interval: interval,
		logger:   log,
		stop:     make(chan struct{}),
	}
}

// Run starts the sweep loop in its own goroutine and returns.
func (s *RecoverySweeper) Run() {
	s.logger.Info().Dur("interval", s.interval).Msg("recovery artifact sweeper started")
	go s.loop()
}

// Stop terminates the sweep loop. Safe to call once.
func (s *RecoverySweeper) Stop() {
	close(s.stop)
}

func (s *RecoverySweeper) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(context.Background())
		}
	}
}

func (s *RecoverySweeper) sweep(ctx context.Context) {
	purged, err := s.repo.PurgeExpiredRecoveryArtifacts(ctx, time.Now())
	if err != nil {
		s.logger.Err(err).Msg("error purging expired recovery artifacts")
		return
	}

	if purged > 0 {
		s.logger.Info().Int64("purged", purged).Msg("expired recovery artifacts cleared")
	}
}
