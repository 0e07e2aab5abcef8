package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/Underworld_Go/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
	due      time.Time
}

// ResilientPublisher wraps a Bus with a background retry queue.
// Events that still fail after maxRetries attempts go to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher starts the retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries < 1 {
		maxRetries = RetryMaxAttempts
	}
	if retryDelay <= 0 {
		retryDelay = RetryInitialDelaySeconds * time.Second
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// PublishWithRetry publishes once and hands failures to the retry worker
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}
	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	rp.enqueue(retryEntry{
		event:    evt,
		attempts: 1,
		lastErr:  err,
		due:      time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	})
}

// Publish implements Bus. Delivery failures are retried in the background.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case rp.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry)
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if rp.deadLetter == nil {
		return
	}
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			if !rp.waitUntil(entry.due) {
				rp.finalAttempt(entry)
				rp.drain()
				return
			}
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// waitUntil reports false when shutdown interrupted the wait
func (rp *ResilientPublisher) waitUntil(due time.Time) bool {
	d := time.Until(due)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-rp.shutdown:
		return false
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	err := rp.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempts)
		return
	}

	entry.lastErr = err
	if entry.attempts >= rp.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts)
		rp.writeDeadLetter(entry)
		return
	}

	entry.attempts++
	entry.due = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempts))
	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)
	rp.enqueue(entry)
}

// finalAttempt publishes once more without waiting, dead-lettering on failure
func (rp *ResilientPublisher) finalAttempt(entry retryEntry) {
	if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
		entry.lastErr = err
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type, "error", err)
		rp.writeDeadLetter(entry)
	}
}

func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			rp.finalAttempt(entry)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

// Shutdown stops the worker after draining the queue
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if rp.deadLetter != nil {
			return rp.deadLetter.Close()
		}
		return nil
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
