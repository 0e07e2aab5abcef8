package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/logger"
)

// BaseWorker provides common functionality for background workers that manage timers
type BaseWorker struct {
	mu       sync.Mutex
	timers   map[uuid.UUID]*time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[uuid.UUID]*time.Timer)
	}
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

// schedule runs fn for id after d, replacing any timer already pending for id.
// fn runs in a tracked goroutine so shutdown can wait for it.
func (w *BaseWorker) schedule(id uuid.UUID, d time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdown:
		return
	default:
	}

	if existing, ok := w.timers[id]; ok {
		existing.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		w.mu.Lock()
		select {
		case <-w.shutdown:
			w.mu.Unlock()
			return
		default:
		}
		// a newer schedule for id replaced this timer
		if w.timers[id] != timer {
			w.mu.Unlock()
			return
		}
		delete(w.timers, id)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		fn()
	})
	w.timers[id] = timer
}

func (w *BaseWorker) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	w.mu.Lock()
	close(w.shutdown)
	for id, timer := range w.timers {
		timer.Stop()
		log.Debug("Cancelled pending "+workerName+" execution", "id", id)
	}
	w.timers = make(map[uuid.UUID]*time.Timer)
	w.mu.Unlock()

	// Wait for in-flight executions
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(workerName + " shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn(workerName + " shutdown timeout")
		return ctx.Err()
	}
}
