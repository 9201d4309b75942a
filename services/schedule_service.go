package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/google/uuid"
)

// ScheduleGeneratorService turns an ordered team list into persisted rounds.
type ScheduleGeneratorService interface {
	// Generate writes every round of the schedule in one transaction.
	// For seeded formats teamIDs must already be in seed order.
	Generate(ctx context.Context, competitionID uuid.UUID, format models.CompetitionFormat, teamIDs []string) ([]models.Round, error)
}

type scheduleService struct {
	transactor repositories.Transactor
	ownerRepo  repositories.OwnerRepository
	roundRepo  repositories.RoundRepository
	matchRepo  repositories.MatchRepository
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func NewScheduleGeneratorService(
	transactor repositories.Transactor,
	ownerRepo repositories.OwnerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	collector *metrics.Collector,
	logger *slog.Logger,
) ScheduleGeneratorService {
	return newScheduleService(transactor, ownerRepo, roundRepo, matchRepo, collector, logger)
}

func newScheduleService(
	transactor repositories.Transactor,
	ownerRepo repositories.OwnerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	collector *metrics.Collector,
	logger *slog.Logger,
) *scheduleService {
	return &scheduleService{
		transactor: transactor,
		ownerRepo:  ownerRepo,
		roundRepo:  roundRepo,
		matchRepo:  matchRepo,
		metrics:    collector,
		logger:     logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, competitionID uuid.UUID, format models.CompetitionFormat, teamIDs []string) ([]models.Round, error) {
	started := time.Now()
	var rounds []models.Round
	err := s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		var err error
		rounds, err = s.generate(ctx, tx, competitionID, format, teamIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ScheduleGenerated(string(format), time.Since(started))
	return rounds, nil
}

// NewGenerator picks the generator for a format. It is the only place formats are dispatched.
func NewGenerator(format models.CompetitionFormat) (brackets.ScheduleGenerator, error) {
	switch format {
	case models.FormatSingleRoundRobin:
		return brackets.NewRoundRobinGenerator(1), nil
	case models.FormatDoubleRoundRobin:
		return brackets.NewRoundRobinGenerator(2), nil
	case models.FormatKnockout:
		return brackets.NewKnockoutGenerator(), nil
	case models.FormatSeededPlayoff:
		return brackets.NewPlayoffGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, format)
	}
}

func (s *scheduleService) generate(
	ctx context.Context,
	tx repositories.SQLExecutor,
	competitionID uuid.UUID,
	format models.CompetitionFormat,
	teamIDs []string,
) ([]models.Round, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: not enough teams to generate a schedule (minimum 2 required, found %d)", ErrInvalidInput, len(teamIDs))
	}

	generator, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}

	plans, err := generator.GenerateSchedule(ctx, brackets.GenerateScheduleParams{TeamIDs: teamIDs})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughTeams) || errors.Is(err, brackets.ErrInvalidLegs) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to generate schedule for competition %s: %w", competitionID, err)
	}

	owners, err := s.ownerRepo.ResolveOwners(ctx, tx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team owners for competition %s: %w", competitionID, err)
	}

	rounds := make([]models.Round, 0, len(plans))
	for _, plan := range plans {
		if len(plan.Byes) > 0 {
			s.logger.Info("teams without a match in generated round",
				slog.String("competition_id", competitionID.String()),
				slog.Int("round", plan.Number),
				slog.Any("team_ids", plan.Byes))
		}

		round, err := persistRound(ctx, tx, s.roundRepo, s.matchRepo, competitionID, plan, owners)
		if err != nil {
			switch {
			case errors.Is(err, repositories.ErrRoundNumberConflict):
				return nil, ErrAlreadyScheduled
			case errors.Is(err, repositories.ErrRoundCompetitionInvalid):
				return nil, ErrCompetitionNotFound
			default:
				return nil, fmt.Errorf("failed to save round %d for competition %s: %w", plan.Number, competitionID, err)
			}
		}
		rounds = append(rounds, *round)
	}

	s.logger.Info("schedule generated",
		slog.String("competition_id", competitionID.String()),
		slog.String("format", string(format)),
		slog.String("generator", generator.GetName()),
		slog.Int("teams", len(teamIDs)),
		slog.Int("rounds", len(rounds)))

	return rounds, nil
}
