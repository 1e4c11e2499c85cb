package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/config"
)

const digestTimeout = 5 * time.Minute

// DigestSender delivers the weekly earnings digests.
type DigestSender interface {
	SendWeeklyDigests(ctx context.Context, now time.Time) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	sender DigestSender
	now    func() time.Time
	logger *zap.Logger
}

// NewScheduler creates a scheduler running the weekly digest on the
// configured standard (5 field) cron expression, evaluated in loc.
func NewScheduler(cfg config.DigestConfig, loc *time.Location, sender DigestSender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		sender: sender,
		now:    time.Now,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(cfg.CronSchedule, s.sendWeeklyDigest); err != nil {
		return nil, fmt.Errorf("schedule weekly digest %q: %w", cfg.CronSchedule, err)
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Next returns when the digest runs next. It is zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) sendWeeklyDigest() {
	s.logger.Info("sending weekly digests")
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	sent, err := s.sender.SendWeeklyDigests(ctx, s.now())
	if err != nil {
		s.logger.Error("weekly digest run had failures", zap.Int("sent", sent), zap.Error(err))
		return
	}
	s.logger.Info("weekly digests sent", zap.Int("sent", sent))
}
