package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/config"
	"github.com/osse101/Underworld_Go/internal/database"
	"github.com/osse101/Underworld_Go/internal/database/memory"
	"github.com/osse101/Underworld_Go/internal/database/postgres"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// OpenStore opens the configured storage engine. For postgres it connects,
// applies pending migrations and returns a closer for the pool.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.StorageEngine == config.StorageMemory {
		slog.Info(LogMsgStoreOpened, "engine", config.StorageMemory)
		return memory.NewStore(), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdle, cfg.DBMaxLifetime)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}

	slog.Info(LogMsgStoreOpened, "engine", config.StoragePostgres, "host", cfg.DBHost, "db", cfg.DBName)
	return postgres.NewStore(pool), pool.Close, nil
}

// LoadCatalog reads and cross-checks the static game catalog
func LoadCatalog(path string) (*catalog.Static, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	slog.Info(LogMsgCatalogLoaded,
		"path", path,
		"crimes", len(cat.Crimes()),
		"items", len(cat.Items()),
		"stocks", len(cat.Stocks()))
	return cat, nil
}

// OpenJournal opens the SQLite event journal. An empty path disables the journal.
func OpenJournal(path string) (*eventlog.SQLiteRepository, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateJournalDir, err)
	}
	repo, err := eventlog.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenJournal, err)
	}
	slog.Info(LogMsgJournalOpened, "path", path)
	return repo, nil
}
