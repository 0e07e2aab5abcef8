package worker

import (
	"context"
	"time"

	"github.com/osse101/Underworld_Go/internal/logger"
)

// CountFunc is a batch operation that reports how many records it touched
type CountFunc func(ctx context.Context) (int, error)

// BatchJob adapts a CountFunc to Job and logs its outcome under name
type BatchJob struct {
	name string
	fn   CountFunc
}

// NewBatchJob creates a new BatchJob
func NewBatchJob(name string, fn CountFunc) *BatchJob {
	return &BatchJob{name: name, fn: fn}
}

// Name returns the job's log name
func (j *BatchJob) Name() string { return j.name }

// Process runs the batch once
func (j *BatchJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx).With("job", j.name)
	start := time.Now()
	n, err := j.fn(ctx)
	if err != nil {
		log.Error(LogMsgBatchJobFailed, "error", err, "duration", time.Since(start))
		return err
	}
	log.Info(LogMsgBatchJobCompleted, "count", n, "duration", time.Since(start))
	return nil
}
