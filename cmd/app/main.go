package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/Underworld_Go/internal/bootstrap"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/config"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/handler"
	"github.com/osse101/Underworld_Go/internal/scheduler"
	"github.com/osse101/Underworld_Go/internal/server"
	"github.com/osse101/Underworld_Go/internal/sse"
	"github.com/osse101/Underworld_Go/internal/telemetry"
	"github.com/osse101/Underworld_Go/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	for _, w := range cfg.Warnings() {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OtelEndpoint, cfg.ServiceName, cfg.Version)
	if err != nil {
		return err
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	cat, err := bootstrap.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		closeStore()
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		closeStore()
		return err
	}

	clk := clock.Real{}
	svc := bootstrap.NewServices(cfg, store, cat, clk, nil, publisher)
	if err := svc.SeedInstruments(ctx); err != nil {
		closeStore()
		return err
	}

	components := bootstrap.ShutdownComponents{
		ResilientPublisher: publisher,
		CloseStore:         closeStore,
		Tracing:            shutdownTracing,
	}

	var journal eventlog.Service
	repo, err := bootstrap.OpenJournal(cfg.JournalPath)
	if err != nil {
		bootstrap.GracefulShutdown(context.Background(), components)
		return err
	}
	if repo != nil {
		journal = eventlog.NewService(repo, clk)
		components.Journal = repo
	}

	stream := sse.NewHub()
	stream.Start()
	components.Stream = stream

	releaser := worker.NewReleaseWorker(svc.Status, store, clk)
	components.ReleaseWorker = releaser
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:      bus,
		Journal:       journal,
		ReleaseWorker: releaser,
		Stream:        stream,
	}); err != nil {
		bootstrap.GracefulShutdown(context.Background(), components)
		return err
	}
	releaser.Start(ctx)

	pool := worker.NewPool(ctx, cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()
	components.Pool = pool

	funcs := bootstrap.BatchFuncs(svc, journal, cfg.JournalRetention)
	sched := scheduler.New(pool)
	components.Scheduler = sched
	if err := bootstrap.ScheduleJobs(sched, cfg.Schedule, funcs, journal, cfg.JournalRetention); err != nil {
		bootstrap.GracefulShutdown(context.Background(), components)
		return err
	}
	sched.Start()

	jobs := make(map[string]handler.BatchFunc, len(funcs))
	for name, fn := range funcs {
		jobs[name] = handler.BatchFunc(fn)
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      server.RateLimit{Requests: cfg.RateLimitRequests, Window: cfg.RateLimitWindow},
		Clock:          clk,
	}, server.Services{
		Store:        store,
		Catalog:      cat,
		Characters:   svc.Characters,
		Status:       svc.Status,
		Encounters:   svc.Encounters,
		Economy:      svc.Economy,
		Achievements: svc.Achievements,
		Journal:      journal,
		Jobs:         jobs,
		Events:       stream,
	})
	components.Server = srv

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, components)
	return err
}
