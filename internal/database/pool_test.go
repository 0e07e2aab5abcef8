package database

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/Underworld_Go/internal/testing/leaktest"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	// testcontainers panics when no docker daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("underworld_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}
}

func TestNewPool_RejectsMalformedConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz", 5, time.Minute, time.Hour)
	assert.ErrorContains(t, err, ErrMsgFailedToParseConnString)
}

func TestNewPool_PingFailureClosesPool(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewPool(ctx, "postgres://nobody:x@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", 2, time.Minute, time.Hour)
	assert.ErrorContains(t, err, ErrMsgFailedToPingDatabase)
}

func TestNewPool_Settings(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, testDBConnString, 1, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, int32(1), pool.Config().MaxConns)
	assert.Equal(t, int32(1), pool.Config().MinConns)

	var appName string
	require.NoError(t, pool.QueryRow(ctx, "SELECT current_setting('application_name')").Scan(&appName))
	assert.Equal(t, ApplicationName, appName)
}

func TestNewPool_MaxConnsEnforced(t *testing.T) {
	requireDB(t)

	const maxConns = 3
	pool, err := NewPool(context.Background(), testDBConnString, maxConns, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var held []func()
	for range maxConns {
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err)
		held = append(held, conn.Release)
	}
	assert.Equal(t, int32(maxConns), pool.Stat().AcquiredConns())

	short, shortCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer shortCancel()
	_, err = pool.Acquire(short)
	assert.Error(t, err, "pool should be exhausted")

	for _, release := range held {
		release()
	}
	assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
}

func TestMigrate_ConcurrentAndIdempotent(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, testDBConnString, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	checker := leaktest.NewGoroutineChecker(t)

	// racing starts serialise on the advisory lock
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = Migrate(ctx, pool)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, Migrate(ctx, pool))

	var tables int
	err = pool.QueryRow(ctx, `SELECT count(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('characters', 'bounties', 'stock_instruments')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)

	checker.Check(2)
}
