package scheduler

import (
	"time"

	"temperature-history/internal/domain/recorder"
	"temperature-history/internal/platform/logger"

	"github.com/go-co-op/gocron"
)

// RecentRefresher es lo que el scheduler necesita del recorder.
type RecentRefresher interface {
	RefreshRecent(start, end time.Time) <-chan recorder.RecentOutcome
	RecentWindow() time.Duration
}

// Scheduler relee periódicamente la ventana reciente del recorder.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    RecentRefresher
	interval  time.Duration
	now       func() time.Time
	log       logger.Logger
}

func New(target RecentRefresher, interval time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		now:       time.Now,
		log:       log.With(map[string]any{"component": "scheduler"}),
	}
}

// Start programa el job; interval <= 0 => no se programa nada.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("recent refresh disabled", nil)
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("recent refresh scheduled", map[string]any{"interval": s.interval.String()})
	return nil
}

// RunOnce refresca [now-window, now] y espera a que termine.
func (s *Scheduler) RunOnce() {
	now := s.now()
	res := <-s.target.RefreshRecent(now.Add(-s.target.RecentWindow()), now)
	if res.Superseded {
		s.log.Debug("recent refresh superseded", nil)
		return
	}
	s.log.Debug("recent list refreshed", map[string]any{"count": len(res.Value.Items)})
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
