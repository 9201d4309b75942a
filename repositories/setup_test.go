package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/fixture-engine/db"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:", 5*time.Second)
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(conn, db.Up), "Failed to apply migrations")
	return conn
}

func seedCompetition(t *testing.T, conn *sqlx.DB, format models.CompetitionFormat) *models.Competition {
	t.Helper()

	c := &models.Competition{
		ID:     uuid.New(),
		Name:   "Spring Cup",
		Format: format,
		State:  models.StateDraft,
	}
	require.NoError(t, NewCompetitionRepository(conn).Create(context.Background(), nil, c))
	return c
}
