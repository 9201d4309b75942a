package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/google/uuid"
)

type CompetitionService interface {
	Create(ctx context.Context, input CreateCompetitionInput) (*models.Competition, error)
	// Get returns the competition with its teams, rounds and matches.
	Get(ctx context.Context, id uuid.UUID) (*models.Competition, error)
	AddTeam(ctx context.Context, id uuid.UUID, teamID string) (*models.CompetitionTeam, error)
	RemoveTeam(ctx context.Context, id uuid.UUID, teamID string) error
	GenerateSchedule(ctx context.Context, id uuid.UUID) (*models.Competition, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Competition, error)
}

type CreateCompetitionInput struct {
	Name   string                   `json:"name"`
	Format models.CompetitionFormat `json:"format"`
}

type competitionService struct {
	transactor      repositories.Transactor
	competitionRepo repositories.CompetitionRepository
	roundRepo       repositories.RoundRepository
	schedule        *scheduleService
	loader          *scheduleLoader
	archiver        *scheduleArchiver
	locks           *competitionLocks
	metrics         *metrics.Collector
	logger          *slog.Logger
}

// CompetitionDeps bundles what the competition and knockout services share.
type CompetitionDeps struct {
	Transactor      repositories.Transactor
	CompetitionRepo repositories.CompetitionRepository
	RoundRepo       repositories.RoundRepository
	MatchRepo       repositories.MatchRepository
	ResultRepo      repositories.ResultRepository
	OwnerRepo       repositories.OwnerRepository
	// Archive is optional; nil disables snapshots.
	Archive storage.ArchiveStore
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// NewServices builds both services around one lock table so generation and advancement
// of the same competition never overlap.
func NewServices(deps CompetitionDeps) (CompetitionService, KnockoutService) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locks := newCompetitionLocks()
	loader := &scheduleLoader{
		competitionRepo: deps.CompetitionRepo,
		roundRepo:       deps.RoundRepo,
		matchRepo:       deps.MatchRepo,
	}
	archiver := &scheduleArchiver{store: deps.Archive, logger: logger}

	competitions := &competitionService{
		transactor:      deps.Transactor,
		competitionRepo: deps.CompetitionRepo,
		roundRepo:       deps.RoundRepo,
		schedule:        newScheduleService(deps.Transactor, deps.OwnerRepo, deps.RoundRepo, deps.MatchRepo, deps.Metrics, logger),
		loader:          loader,
		archiver:        archiver,
		locks:           locks,
		metrics:         deps.Metrics,
		logger:          logger,
	}
	knockout := &knockoutService{
		transactor:      deps.Transactor,
		competitionRepo: deps.CompetitionRepo,
		roundRepo:       deps.RoundRepo,
		matchRepo:       deps.MatchRepo,
		resultRepo:      deps.ResultRepo,
		ownerRepo:       deps.OwnerRepo,
		loader:          loader,
		archiver:        archiver,
		locks:           locks,
		metrics:         deps.Metrics,
		logger:          logger,
	}
	return competitions, knockout
}

func (s *competitionService) Create(ctx context.Context, input CreateCompetitionInput) (*models.Competition, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: competition name is required", ErrInvalidInput)
	}
	if !input.Format.IsValid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, input.Format)
	}

	competition := &models.Competition{
		ID:        uuid.New(),
		Name:      name,
		Format:    input.Format,
		State:     models.StateDraft,
		CreatedAt: time.Now().UTC(),
		TeamIDs:   []string{},
	}
	if err := s.competitionRepo.Create(ctx, nil, competition); err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	s.logger.Info("competition created",
		slog.String("competition_id", competition.ID.String()),
		slog.String("format", string(competition.Format)))
	return competition, nil
}

func (s *competitionService) Get(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	return s.loader.load(ctx, id)
}

// ensureEditable rejects changes once the competition left DRAFT or got a schedule.
func (s *competitionService) ensureEditable(ctx context.Context, tx repositories.SQLExecutor, competition *models.Competition) error {
	if competition.State != models.StateDraft {
		return fmt.Errorf("%w: competition %s is %s", ErrNotInDraft, competition.ID, competition.State)
	}
	count, err := s.roundRepo.CountByCompetition(ctx, tx, competition.ID)
	if err != nil {
		return fmt.Errorf("failed to count rounds for competition %s: %w", competition.ID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: competition %s has %d rounds", ErrAlreadyScheduled, competition.ID, count)
	}
	return nil
}

func (s *competitionService) AddTeam(ctx context.Context, id uuid.UUID, teamID string) (*models.CompetitionTeam, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var entry *models.CompetitionTeam
	err := s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		competition, err := lockCompetition(ctx, tx, s.competitionRepo, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(ctx, tx, competition); err != nil {
			return err
		}

		teams, err := s.competitionRepo.ListTeams(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to list teams for competition %s: %w", id, err)
		}
		seed := 1
		if len(teams) > 0 {
			seed = teams[len(teams)-1].Seed + 1
		}

		entry = &models.CompetitionTeam{CompetitionID: id, TeamID: teamID, Seed: seed}
		if err := s.competitionRepo.AddTeam(ctx, tx, entry); err != nil {
			switch {
			case errors.Is(err, repositories.ErrCompetitionTeamConflict):
				return ErrTeamAlreadyEntered
			case errors.Is(err, repositories.ErrCompetitionNotFound):
				return ErrCompetitionNotFound
			default:
				return fmt.Errorf("failed to add team %s to competition %s: %w", teamID, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *competitionService) RemoveTeam(ctx context.Context, id uuid.UUID, teamID string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	return s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		competition, err := lockCompetition(ctx, tx, s.competitionRepo, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(ctx, tx, competition); err != nil {
			return err
		}

		if err := s.competitionRepo.RemoveTeam(ctx, tx, id, teamID); err != nil {
			if errors.Is(err, repositories.ErrCompetitionTeamNotFound) {
				return ErrTeamNotEntered
			}
			return fmt.Errorf("failed to remove team %s from competition %s: %w", teamID, id, err)
		}
		return nil
	})
}

func (s *competitionService) GenerateSchedule(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	started := time.Now()
	var format models.CompetitionFormat
	err := s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		competition, err := lockCompetition(ctx, tx, s.competitionRepo, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(ctx, tx, competition); err != nil {
			return err
		}
		format = competition.Format

		teams, err := s.competitionRepo.ListTeams(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to list teams for competition %s: %w", id, err)
		}
		teamIDs := make([]string, 0, len(teams))
		for _, team := range teams {
			teamIDs = append(teamIDs, team.TeamID)
		}

		_, err = s.schedule.generate(ctx, tx, id, competition.Format, teamIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ScheduleGenerated(string(format), time.Since(started))

	competition, err := s.loader.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.archiver.archive(ctx, competition)
	return competition, nil
}

func (s *competitionService) Activate(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	err := s.transactor.RunInTx(ctx, func(tx repositories.SQLExecutor) error {
		competition, err := lockCompetition(ctx, tx, s.competitionRepo, id)
		if err != nil {
			return err
		}
		if competition.State != models.StateDraft {
			return fmt.Errorf("%w: competition %s is %s", ErrNotInDraft, id, competition.State)
		}

		count, err := s.roundRepo.CountByCompetition(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to count rounds for competition %s: %w", id, err)
		}
		if count == 0 {
			return ErrNoSchedule
		}

		return s.competitionRepo.UpdateState(ctx, tx, id, models.StateActive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("competition activated", slog.String("competition_id", id.String()))
	return s.loader.load(ctx, id)
}
