package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insights/internal/metrics"
)

// Purger drops expired entries and reports how many were removed.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Scheduler periodically purges expired upstream responses.
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    Purger
	interval  time.Duration
	log       logrus.FieldLogger
	metrics   *metrics.Collector
}

// New creates a new Scheduler. A non-positive interval defaults to 15 minutes.
func New(purger Purger, interval time.Duration, log logrus.FieldLogger, m *metrics.Collector) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		interval:  interval,
		log:       log.WithField("component", "scheduler"),
		metrics:   m,
	}
}

// Start schedules the purge job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.purger == nil {
		s.log.Info("no response cache configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.runPurge)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.purger.Purge(ctx)
	if err != nil {
		s.log.WithError(err).Error("response cache purge failed")
		return
	}
	s.metrics.RecordResponseCachePurge(n)
	if n > 0 {
		s.log.WithField("removed", n).Info("purged expired forecast responses")
	}
}
