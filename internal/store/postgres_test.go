package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/medguard-server/internal/database"
	"github.com/medguard-server/internal/domain"
)

func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

// setupPostgresStore starts a throwaway Postgres container, runs the
// migrations (schema plus seed) and returns a ready store.
func setupPostgresStore(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}

	ctx := context.Background()
	testPassword := generateTestPassword()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	config := domain.DatabaseConfig{
		Host:        host,
		Port:        port.Int(),
		Database:    "testdb",
		Username:    "testuser",
		Password:    testPassword,
		SSLMode:     "disable",
		MaxConns:    10,
		MinConns:    2,
		MaxConnLife: time.Hour,
		MaxConnIdle: time.Minute * 30,
	}

	db, err := database.NewConnection(ctx, config, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}

	databaseURL := "postgres://testuser:" + testPassword + "@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	migrationRunner, err := database.NewMigrationRunner(databaseURL, "../../migrations", logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}
	if err := migrationRunner.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		migrationRunner.Close()
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}

	return NewPostgresStore(db.Pool, logger), cleanup
}

func TestPostgresStore_GetDrug(t *testing.T) {
	store, cleanup := setupPostgresStore(t)
	defer cleanup()

	ctx := context.Background()

	drug, err := store.GetDrug(ctx, "D05")
	require.NoError(t, err)
	assert.Equal(t, "Metronidazole", drug.Molecule)
	assert.True(t, drug.IsAntibiotic)

	_, err = store.GetDrug(ctx, "D99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_ListInteractions_EitherOrder(t *testing.T) {
	store, cleanup := setupPostgresStore(t)
	defer cleanup()

	ctx := context.Background()

	forward, err := store.ListInteractions(ctx, "D04", "D09")
	require.NoError(t, err)
	require.Len(t, forward, 1)

	reverse, err := store.ListInteractions(ctx, "D09", "D04")
	require.NoError(t, err)
	assert.Equal(t, forward, reverse)
}

func TestPostgresStore_Timeline(t *testing.T) {
	store, cleanup := setupPostgresStore(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	id, err := store.InsertTimelineEntry(ctx, "u1", "D02", start)
	require.NoError(t, err)
	assert.NotZero(t, id)

	items, err := store.ListTimeline(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Amoxicillin", items[0].Molecule)
	assert.True(t, items[0].Confirmed)
}

func TestPostgresStore_TableStats(t *testing.T) {
	store, cleanup := setupPostgresStore(t)
	defer cleanup()

	stats, err := store.TableStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats["drug_master"])
	assert.Equal(t, 4, stats["amr_risk_master"])
}
