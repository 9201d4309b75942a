package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/google/uuid"
)

type KnockoutService interface {
	// AdvanceRound creates the round after roundNumber from its winners.
	// ErrNotReadyToAdvance is a normal state: retry once more results are confirmed.
	AdvanceRound(ctx context.Context, competitionID uuid.UUID, roundNumber int) (*models.Round, error)
}

type knockoutService struct {
	transactor      repositories.Transactor
	competitionRepo repositories.CompetitionRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	resultRepo      repositories.ResultRepository
	ownerRepo       repositories.OwnerRepository
	loader          *scheduleLoader
	archiver        *scheduleArchiver
	locks           *competitionLocks
	metrics         *metrics.Collector
	logger          *slog.Logger
}

func (s *knockoutService) AdvanceRound(ctx context.Context, competitionID uuid.UUID, roundNumber int) (*models.Round, error) {
	if roundNumber < 1 {
		return nil, fmt.Errorf("%w: round number must be positive, got %d", ErrInvalidInput, roundNumber)
	}

	unlock := s.locks.lock(competitionID)
	defer unlock()

	var next *models.Round
	err := s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		var err error
		next, err = s.advance(ctx, tx, competitionID, roundNumber)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotReadyToAdvance) {
			s.metrics.AdvanceNotReady()
			s.logger.Debug("round not ready to advance",
				slog.String("competition_id", competitionID.String()),
				slog.Int("round", roundNumber))
		}
		return nil, err
	}

	s.metrics.RoundAdvanced()
	s.logger.Info("knockout round created",
		slog.String("competition_id", competitionID.String()),
		slog.Int("round", next.Number),
		slog.String("name", next.Name),
		slog.Int("matches", len(next.Matches)))

	if competition, err := s.loader.load(ctx, competitionID); err != nil {
		s.logger.Warn("failed to load schedule for archiving",
			slog.String("competition_id", competitionID.String()),
			slog.Any("error", err))
	} else {
		s.archiver.archive(ctx, competition)
	}
	return next, nil
}

func (s *knockoutService) advance(ctx context.Context, tx repositories.SQLExecutor, competitionID uuid.UUID, roundNumber int) (*models.Round, error) {
	competition, err := lockCompetition(ctx, tx, s.competitionRepo, competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.Format.IsKnockout() {
		return nil, fmt.Errorf("%w: competition %s is %s", ErrNotKnockout, competitionID, competition.Format)
	}

	current, err := s.roundRepo.GetByNumber(ctx, tx, competitionID, roundNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, fmt.Errorf("%w: competition %s round %d", ErrRoundNotFound, competitionID, roundNumber)
		}
		return nil, fmt.Errorf("failed to get round %d: %w", roundNumber, err)
	}

	_, err = s.roundRepo.GetByNumber(ctx, tx, competitionID, roundNumber+1)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: competition %s round %d", ErrRoundAlreadyAdvanced, competitionID, roundNumber+1)
	case !errors.Is(err, repositories.ErrRoundNotFound):
		return nil, fmt.Errorf("failed to check round %d: %w", roundNumber+1, err)
	}

	matches, err := s.matchRepo.ListByRound(ctx, tx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of round %d: %w", roundNumber, err)
	}
	results, err := s.resultRepo.ListByRound(ctx, tx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results of round %d: %w", roundNumber, err)
	}

	completed := make([]brackets.CompletedMatch, 0, len(matches))
	for i := range matches {
		completed = append(completed, brackets.CompletedMatch{
			Match:  &matches[i],
			Result: results[matches[i].ID],
		})
	}

	plan, err := brackets.NewKnockoutGenerator().PlanNextRound(brackets.AdvanceParams{
		CurrentRound: roundNumber,
		Matches:      completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrNotReady):
			return nil, fmt.Errorf("%w: %w", ErrNotReadyToAdvance, err)
		case errors.Is(err, brackets.ErrBracketComplete):
			return nil, ErrBracketComplete
		default:
			return nil, fmt.Errorf("failed to plan round %d: %w", roundNumber+1, err)
		}
	}

	if len(plan.Byes) > 0 {
		s.logger.Warn("odd winner count, trailing winners get no match",
			slog.String("competition_id", competitionID.String()),
			slog.Int("round", plan.Number),
			slog.Any("team_ids", plan.Byes))
	}

	owners, err := s.ownerRepo.ResolveOwners(ctx, tx, plan.TeamIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team owners: %w", err)
	}

	round, err := persistRound(ctx, tx, s.roundRepo, s.matchRepo, competitionID, plan, owners)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNumberConflict) {
			return nil, ErrRoundAlreadyAdvanced
		}
		return nil, fmt.Errorf("failed to save round %d: %w", plan.Number, err)
	}
	return round, nil
}
