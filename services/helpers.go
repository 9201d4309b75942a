package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// persistRound writes a planned round and its matches through tx.
// Owner ids are copied from owners at this moment and never refreshed.
func persistRound(
	ctx context.Context,
	tx repositories.SQLExecutor,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	competitionID uuid.UUID,
	plan *brackets.RoundPlan,
	owners map[string]string,
) (*models.Round, error) {
	round := &models.Round{
		CompetitionID: competitionID,
		Number:        plan.Number,
		Name:          plan.Name,
	}
	if err := roundRepo.Create(ctx, tx, round); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(plan.Matches))
	for _, p := range plan.Matches {
		matches = append(matches, models.Match{
			RoundID:     round.ID,
			Number:      p.Number,
			HomeTeamID:  p.HomeTeamID,
			AwayTeamID:  p.AwayTeamID,
			HomeOwnerID: ownerOf(owners, p.HomeTeamID),
			AwayOwnerID: ownerOf(owners, p.AwayTeamID),
		})
	}
	if err := matchRepo.CreateBatch(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to create matches for round %d: %w", plan.Number, err)
	}

	round.Matches = matches
	return round, nil
}

func ownerOf(owners map[string]string, teamID string) *string {
	if ownerID, ok := owners[teamID]; ok {
		return &ownerID
	}
	return nil
}

// lockCompetition loads the competition under its row lock and maps a missing row.
func lockCompetition(ctx context.Context, tx repositories.SQLExecutor, repo repositories.CompetitionRepository, id uuid.UUID) (*models.Competition, error) {
	competition, err := repo.LockByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to lock competition %s: %w", id, err)
	}
	return competition, nil
}

// scheduleLoader reads a competition with its teams, rounds and matches.
type scheduleLoader struct {
	competitionRepo repositories.CompetitionRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
}

func (l *scheduleLoader) load(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	competition, err := l.competitionRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %s: %w", id, err)
	}

	var (
		teams   []models.CompetitionTeam
		rounds  []models.Round
		matches []models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = l.competitionRepo.ListTeams(gctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list teams for competition %s: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rounds, err = l.roundRepo.ListByCompetition(gctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list rounds for competition %s: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = l.matchRepo.ListByCompetition(gctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list matches for competition %s: %w", id, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	competition.TeamIDs = make([]string, 0, len(teams))
	for _, team := range teams {
		competition.TeamIDs = append(competition.TeamIDs, team.TeamID)
	}

	byRound := make(map[uuid.UUID][]models.Match, len(rounds))
	for _, m := range matches {
		byRound[m.RoundID] = append(byRound[m.RoundID], m)
	}
	for i := range rounds {
		rounds[i].Matches = byRound[rounds[i].ID]
		if rounds[i].Matches == nil {
			rounds[i].Matches = []models.Match{}
		}
	}
	competition.Rounds = rounds

	return competition, nil
}
