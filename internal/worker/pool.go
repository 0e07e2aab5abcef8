package worker

import (
	"context"
	"sync"

	"github.com/osse101/Underworld_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool represents a worker pool
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPool creates a new worker pool. Jobs run with ctx, which is cancelled by Stop.
func NewPool(ctx context.Context, workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	log := logger.FromContext(p.ctx).With("worker", id)
	for {
		select {
		case job := <-p.jobQueue:
			if err := job.Process(p.ctx); err != nil {
				log.Error(LogMsgWorkerJobFailed, "error", err)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// Enqueue adds a job to the queue. It blocks while the queue is full and
// reports false once the pool is stopping.
func (p *Pool) Enqueue(job Job) bool {
	// a buffered send can still win the select after Stop
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TryEnqueue adds a job without blocking and reports false when the queue is full
func (p *Pool) TryEnqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgQueueFull)
		return false
	}
}

// Stop stops the workers and waits for them to finish. Queued jobs that have
// not started are dropped.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}
