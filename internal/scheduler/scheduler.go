package scheduler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Evictor drops sessions that have been idle for longer than maxIdle and
// reports how many were removed.
type Evictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// Scheduler periodically sweeps idle dashboard sessions.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	sessions    Evictor
	idleTimeout time.Duration
	interval    time.Duration
	logger      *slog.Logger
}

// New creates a new Scheduler.
func New(sessions Evictor, idleTimeout, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		sessions:    sessions,
		idleTimeout: idleTimeout,
		interval:    interval,
		logger:      logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.idleTimeout <= 0 {
		s.logger.Info("session expiry disabled; nothing to schedule")
		return nil
	}
	if s.interval <= 0 {
		return errors.New("sweep interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).Do(s.Sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Sweep runs a single eviction pass.
func (s *Scheduler) Sweep() {
	evicted := s.sessions.EvictIdle(s.idleTimeout)
	if evicted > 0 {
		s.logger.Info("evicted idle sessions", "count", evicted, "idle_timeout", s.idleTimeout)
		return
	}
	s.logger.Debug("session sweep found nothing to evict")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
