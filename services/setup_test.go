package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/fixture-engine/db"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	conn         *sqlx.DB
	registry     *prometheus.Registry
	archive      *fakeArchive
	deps         CompetitionDeps
	competitions CompetitionService
	knockout     KnockoutService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, db.Up))

	registry := prometheus.NewRegistry()
	archive := &fakeArchive{}
	deps := CompetitionDeps{
		Transactor:      repositories.NewTransactor(conn),
		CompetitionRepo: repositories.NewCompetitionRepository(conn),
		RoundRepo:       repositories.NewRoundRepository(conn),
		MatchRepo:       repositories.NewMatchRepository(conn),
		ResultRepo:      repositories.NewResultRepository(conn),
		OwnerRepo:       repositories.NewOwnerRepository(conn),
		Archive:         archive,
		Metrics:         metrics.NewCollector(registry),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	competitions, knockout := NewServices(deps)

	return &testEnv{
		conn:         conn,
		registry:     registry,
		archive:      archive,
		deps:         deps,
		competitions: competitions,
		knockout:     knockout,
	}
}

// newCompetition creates a competition and enters teams in the given order.
func (e *testEnv) newCompetition(t *testing.T, format models.CompetitionFormat, teamIDs ...string) *models.Competition {
	t.Helper()
	ctx := context.Background()

	competition, err := e.competitions.Create(ctx, CreateCompetitionInput{Name: "Autumn League", Format: format})
	require.NoError(t, err)
	for _, teamID := range teamIDs {
		_, err := e.competitions.AddTeam(ctx, competition.ID, teamID)
		require.NoError(t, err)
	}
	return competition
}

func (e *testEnv) setOwner(t *testing.T, teamID, ownerID string) {
	t.Helper()
	_, err := e.conn.Exec(e.conn.Rebind(`INSERT INTO team_owners (team_id, owner_id) VALUES (?, ?)`), teamID, ownerID)
	require.NoError(t, err)
}

func (e *testEnv) setResult(t *testing.T, matchID uuid.UUID, home, away int, status models.ResultStatus) {
	t.Helper()
	_, err := e.conn.Exec(e.conn.Rebind(`
		INSERT INTO match_results (match_id, home_score, away_score, status) VALUES (?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET home_score = excluded.home_score, away_score = excluded.away_score, status = excluded.status`),
		matchID, home, away, status)
	require.NoError(t, err)
}

func (e *testEnv) roundCount(t *testing.T, competitionID uuid.UUID) int {
	t.Helper()
	count, err := e.deps.RoundRepo.CountByCompetition(context.Background(), nil, competitionID)
	require.NoError(t, err)
	return count
}

type fakeArchive struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func (f *fakeArchive) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: f.PublicURL(key)}, nil
}

func (f *fakeArchive) PublicURL(key string) string {
	return "https://archive.test/" + key
}

func (f *fakeArchive) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.uploads))
	for k := range f.uploads {
		keys = append(keys, k)
	}
	return keys
}
