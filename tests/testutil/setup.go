// Package testutil provides utilities for integration testing
package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/123ang/iso-document/internal/infrastructure/database"
)

var (
	testDBPool    *pgxpool.Pool
	testContainer *postgres.PostgresContainer
	testDBURL     string
	setupErr      error
	setupOnce     sync.Once
	teardownOnce  sync.Once
)

// TestConfig holds test environment configuration
type TestConfig struct {
	DatabaseURL  string
	JWTSecretKey string
}

// DefaultTestConfig returns default test configuration
// DatabaseURL が空の場合は testcontainers で PostgreSQL を起動する
func DefaultTestConfig() TestConfig {
	return TestConfig{
		DatabaseURL:  os.Getenv("TEST_DATABASE_URL"),
		JWTSecretKey: "test-secret-key-for-integration-tests",
	}
}

// RequireIntegration skips the test unless TEST_INTEGRATION is set
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}
}

// SetupTestEnvironment starts (once) a migrated PostgreSQL and returns a pool
func SetupTestEnvironment(t *testing.T) *pgxpool.Pool {
	t.Helper()
	RequireIntegration(t)

	config := DefaultTestConfig()

	setupOnce.Do(func() {
		ctx := context.Background()

		testDBURL = config.DatabaseURL
		if testDBURL == "" {
			testDBURL, setupErr = startPostgres(ctx)
			if setupErr != nil {
				return
			}
		}

		if setupErr = database.Migrate(testDBURL); setupErr != nil {
			return
		}

		pool, err := pgxpool.New(ctx, testDBURL)
		if err != nil {
			setupErr = fmt.Errorf("failed to connect to test database: %w", err)
			return
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			setupErr = fmt.Errorf("failed to ping test database: %w", err)
			return
		}
		testDBPool = pool
	})

	if setupErr != nil {
		t.Fatalf("failed to setup test environment: %v", setupErr)
	}

	return testDBPool
}

// TestDatabaseURL returns the URL of the database prepared by SetupTestEnvironment
func TestDatabaseURL() string {
	return testDBURL
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("iso_document_test"),
		postgres.WithUsername("iso"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start postgres container: %w", err)
	}
	testContainer = container

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("failed to get connection string: %w", err)
	}
	return url, nil
}

// CleanupTestEnvironment closes test connections and stops the container
func CleanupTestEnvironment() {
	teardownOnce.Do(func() {
		if testDBPool != nil {
			testDBPool.Close()
		}
		if testContainer != nil {
			if err := testContainer.Terminate(context.Background()); err != nil {
				log.Printf("failed to terminate postgres container: %v", err)
			}
		}
	})
}

// TruncateTables clears specified tables for test isolation
func TruncateTables(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()
	ctx := context.Background()

	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}
}

// ResetTables clears every table owned by the versioning schema
func ResetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	TruncateTables(t, pool, "audit_logs", "document_versions", "documents", "document_set_groups", "groups", "document_sets")
}
