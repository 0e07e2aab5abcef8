// Command setup creates the Underworld database when it is missing and
// applies every pending migration.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/osse101/Underworld_Go/internal/config"
	"github.com/osse101/Underworld_Go/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// API_KEY is not needed here, so the config is parsed without Validate
	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		fatal("Failed to parse environment", err)
	}

	ctx := context.Background()
	if err := ensureDatabase(ctx, &cfg); err != nil {
		fatal("Failed to create database", err)
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 2, cfg.DBMaxIdle, cfg.DBMaxLifetime)
	if err != nil {
		fatal("Failed to connect", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		fatal("Migration failed", err)
	}
	slog.Info("Migration completed successfully", "db", cfg.DBName)
}

func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	adminConn := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, adminConn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return err
	}
	if exists {
		slog.Info("Database already exists", "db", cfg.DBName)
		return nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return err
	}
	slog.Info("Database created", "db", cfg.DBName)
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
