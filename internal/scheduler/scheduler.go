// Package scheduler enqueues recurring jobs on cron specs
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/worker"
)

// Enqueuer accepts jobs for background execution
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron *cron.Cron
	pool Enqueuer
}

// New creates a new scheduler feeding pool. Specs use the standard
// five-field cron format.
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		pool: pool,
	}
}

// Schedule registers job to be enqueued on spec. A tick that finds the
// queue full is skipped rather than blocking the cron loop.
func (s *Scheduler) Schedule(name, spec string, job worker.Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if !s.pool.TryEnqueue(job) {
			logger.Warn(LogMsgTickSkipped, "job", name)
		}
	})
	if err != nil {
		return fmt.Errorf(ErrMsgInvalidSpec, name, spec, err)
	}
	logger.Info(LogMsgJobScheduled, "job", name, "spec", spec)
	return nil
}

// Start starts the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for the current tick to finish enqueueing
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs lists the number of registered entries
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
