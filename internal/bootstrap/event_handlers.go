package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/metrics"
	"github.com/osse101/Underworld_Go/internal/sse"
	"github.com/osse101/Underworld_Go/internal/worker"
)

// EventHandlerDependencies holds the subscribers wired onto the bus.
// Every field but EventBus is optional.
type EventHandlerDependencies struct {
	EventBus      event.Bus
	Journal       eventlog.Service
	ReleaseWorker *worker.ReleaseWorker
	Stream        *sse.Hub
}

// RegisterEventHandlers subscribes the metrics collector, the event journal,
// the release worker and the live stream.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Journal != nil {
		if err := deps.Journal.Subscribe(deps.EventBus); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
		}
		slog.Info(LogMsgEventLoggerInitialized)
	}

	if deps.ReleaseWorker != nil {
		deps.ReleaseWorker.Subscribe(deps.EventBus)
		slog.Info(LogMsgReleaseWorkerSubscribed)
	}

	if deps.Stream != nil {
		sse.NewSubscriber(deps.Stream).Subscribe(deps.EventBus)
	}

	return nil
}
