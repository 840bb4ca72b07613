//go:build integration
// +build integration

package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/storage"
	"github.com/koinonia-app/koinonia-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	assert.NoError(t, err, "Should be able to connect to test database")

	if err == nil {
		assert.NoError(t, postgres.HealthCheck(db))
		postgres.Close(db)
	}
}

func TestDatabaseMigration(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.AutoMigrate(db), "Should be able to run migrations")
}

func TestRelationshipUniqueIndex(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err)
	defer postgres.Close(db)
	require.NoError(t, postgres.AutoMigrate(db))

	store := postgres.NewStore(db)

	u := user.New("itest@example.com", "itest", "I", "T", "")
	require.NoError(t, u.SetPassword("password123"))
	if err := store.Users().Create(u); err != nil {
		// Leftover row from a previous run.
		existing, gerr := store.Users().GetByEmail("itest@example.com")
		require.NoError(t, gerr)
		u = existing
	}

	rel := relationship.New(u.ID, u.ID, relationship.KindSupport)
	defer store.Relationships().Delete(u.ID, u.ID)

	require.NoError(t, store.Relationships().Create(rel))
	err = store.Relationships().Create(relationship.New(u.ID, u.ID, relationship.KindSupport))
	assert.ErrorIs(t, err, storage.ErrRelationshipExists)
}
