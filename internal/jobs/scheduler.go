package jobs

import (
	"log/slog"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic leaderboard pass. Recompute is idempotent,
// so an overlapping or repeated run is harmless.
type Scheduler struct {
	cron        *cron.Cron
	leaderboard *services.LeaderboardService
	interval    time.Duration
}

func NewScheduler(leaderboard *services.LeaderboardService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		cron:        cron.New(),
		leaderboard: leaderboard,
		interval:    interval,
	}
}

// Start registers the recompute job and launches the cron loop. One pass
// runs immediately so a fresh deployment has ranks before the first tick.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every "+s.interval.String(), func() {
		if err := s.leaderboard.Recompute(); err != nil {
			slog.Error("scheduled leaderboard recompute failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	go func() {
		if err := s.leaderboard.Recompute(); err != nil {
			slog.Error("initial leaderboard recompute failed", "error", err)
		}
	}()

	s.cron.Start()
	slog.Info("leaderboard scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("leaderboard scheduler stopped")
}
