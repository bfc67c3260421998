package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const retryTimeout = 2 * time.Minute

// AuditRetrier redelivers audit records that previously failed.
type AuditRetrier interface {
	RetryPending(ctx context.Context) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	retrier  AuditRetrier
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. schedule is a standard
// 5-field cron expression.
func NewScheduler(schedule string, retrier AuditRetrier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		retrier:  retrier,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.retryAudit); err != nil {
		return fmt.Errorf("schedule audit redelivery %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("audit_retry_schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) retryAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), retryTimeout)
	defer cancel()

	remaining, err := s.retrier.RetryPending(ctx)
	if err != nil {
		s.logger.Error("audit redelivery interrupted", zap.Int("pending", remaining), zap.Error(err))
		return
	}
	if remaining > 0 {
		s.logger.Warn("audit records still pending", zap.Int("pending", remaining))
	}
}
