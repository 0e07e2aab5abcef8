package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/scheduler"
	"github.com/osse101/Underworld_Go/internal/server"
	"github.com/osse101/Underworld_Go/internal/sse"
	"github.com/osse101/Underworld_Go/internal/telemetry"
	"github.com/osse101/Underworld_Go/internal/worker"
)

// ShutdownComponents holds everything that needs a graceful stop. Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Stream             *sse.Hub
	Scheduler          *scheduler.Scheduler
	ReleaseWorker      *worker.ReleaseWorker
	Pool               *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Journal            io.Closer
	CloseStore         func()
	Tracing            telemetry.ShutdownFunc
}

// GracefulShutdown stops components in dependency order:
//  1. live stream, then HTTP server (no new requests)
//  2. scheduler, release timers and worker pool (no new background writes)
//  3. event publisher (flush retries while the journal is still open)
//  4. journal, store and tracer
//
// Errors are logged and the sequence continues.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	// open streams would hold Server.Stop until ctx expires
	if c.Stream != nil {
		c.Stream.Stop()
	}
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		logFailure("scheduler", c.Scheduler.Stop(ctx))
	}
	if c.ReleaseWorker != nil {
		logFailure("release worker", c.ReleaseWorker.Shutdown(ctx))
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Journal != nil {
		logFailure("journal", c.Journal.Close())
	}
	if c.CloseStore != nil {
		c.CloseStore()
	}
	if c.Tracing != nil {
		logFailure("tracing", c.Tracing(ctx))
	}

	slog.Info(LogMsgServerStopped)
}

func logFailure(component string, err error) {
	if err != nil {
		slog.Error(LogMsgComponentShutdownFailed, "component", component, "error", err)
	}
}
