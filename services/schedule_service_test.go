package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) scheduleService() ScheduleGeneratorService {
	return NewScheduleGeneratorService(e.deps.Transactor, e.deps.OwnerRepo, e.deps.RoundRepo, e.deps.MatchRepo, e.deps.Metrics, e.deps.Logger)
}

func TestNewGenerator_Dispatch(t *testing.T) {
	tests := []struct {
		format models.CompetitionFormat
		name   string
	}{
		{models.FormatSingleRoundRobin, "RoundRobin"},
		{models.FormatDoubleRoundRobin, "DoubleRoundRobin"},
		{models.FormatKnockout, "Knockout"},
		{models.FormatSeededPlayoff, "SeededPlayoff"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			generator, err := NewGenerator(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.name, generator.GetName())
		})
	}

	_, err := NewGenerator("SWISS")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScheduleGeneratorService_RoundRobin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	competition := env.newCompetition(t, models.FormatSingleRoundRobin)
	env.setOwner(t, "A", "alice")
	env.setOwner(t, "D", "dora")

	rounds, err := env.scheduleService().Generate(ctx, competition.ID, models.FormatSingleRoundRobin, []string{"A", "B", "C", "D"})
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, 3, env.roundCount(t, competition.ID))

	first := rounds[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "Matchday 1", first.Name)
	require.Len(t, first.Matches, 2)
	assert.Equal(t, "A", first.Matches[0].HomeTeamID)
	assert.Equal(t, "D", first.Matches[0].AwayTeamID)
	require.NotNil(t, first.Matches[0].HomeOwnerID)
	assert.Equal(t, "alice", *first.Matches[0].HomeOwnerID)
	require.NotNil(t, first.Matches[0].AwayOwnerID)
	assert.Equal(t, "dora", *first.Matches[0].AwayOwnerID)
	assert.Nil(t, first.Matches[1].HomeOwnerID, "teams without an owner get no snapshot")

	stored, err := env.competitions.Get(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, stored.Rounds, 3)
	assert.Equal(t, "C", stored.Rounds[1].Matches[0].AwayTeamID)
	assert.Equal(t, "D", stored.Rounds[1].Matches[1].HomeTeamID)
}

func TestScheduleGeneratorService_DoubleRoundRobinMirrorsVenues(t *testing.T) {
	env := newTestEnv(t)
	competition := env.newCompetition(t, models.FormatDoubleRoundRobin)

	rounds, err := env.scheduleService().Generate(context.Background(), competition.ID, models.FormatDoubleRoundRobin, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, rounds, 6)

	for i := 0; i < 3; i++ {
		first, second := rounds[i], rounds[i+3]
		require.Len(t, first.Matches, 1)
		require.Len(t, second.Matches, 1)
		assert.Equal(t, first.Matches[0].HomeTeamID, second.Matches[0].AwayTeamID)
		assert.Equal(t, first.Matches[0].AwayTeamID, second.Matches[0].HomeTeamID)
		assert.Equal(t, i+4, second.Number)
	}
}

func TestScheduleGeneratorService_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	competition := env.newCompetition(t, models.FormatKnockout)
	service := env.scheduleService()

	_, err := service.Generate(ctx, competition.ID, models.FormatKnockout, []string{"A"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Generate(ctx, competition.ID, models.FormatKnockout, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Generate(ctx, competition.ID, "LADDER", []string{"A", "B"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, env.roundCount(t, competition.ID))
}

func TestScheduleGeneratorService_SecondCallIsAlreadyScheduled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	competition := env.newCompetition(t, models.FormatSingleRoundRobin)
	service := env.scheduleService()
	teams := []string{"A", "B", "C", "D", "E", "F"}

	_, err := service.Generate(ctx, competition.ID, models.FormatSingleRoundRobin, teams)
	require.NoError(t, err)

	_, err = service.Generate(ctx, competition.ID, models.FormatSingleRoundRobin, teams)
	assert.ErrorIs(t, err, ErrAlreadyScheduled)
	assert.Equal(t, 5, env.roundCount(t, competition.ID), "a rejected second call adds nothing")
}

func TestScheduleGeneratorService_UnknownCompetition(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.scheduleService().Generate(context.Background(), uuid.New(), models.FormatKnockout, []string{"A", "B"})
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestScheduleGeneratorService_KnockoutByesAreLogged(t *testing.T) {
	env := newTestEnv(t)
	competition := env.newCompetition(t, models.FormatKnockout)

	var logs syncBuffer
	service := NewScheduleGeneratorService(env.deps.Transactor, env.deps.OwnerRepo, env.deps.RoundRepo, env.deps.MatchRepo, nil,
		slog.New(slog.NewJSONHandler(&logs, nil)))

	rounds, err := service.Generate(context.Background(), competition.ID, models.FormatKnockout, []string{"T1", "T2", "T3", "T4", "T5"})
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, brackets.RoundName(3, 1), rounds[0].Name)
	require.Len(t, rounds[0].Matches, 1)
	assert.Equal(t, "T4", rounds[0].Matches[0].HomeTeamID)
	assert.Equal(t, "T5", rounds[0].Matches[0].AwayTeamID)

	assert.Contains(t, logs.String(), "teams without a match in generated round")
	assert.Contains(t, logs.String(), `"team_ids":["T1","T2","T3"]`)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
