package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionTeamConflict = errors.New("team is already entered in this competition")
	ErrCompetitionTeamNotFound = errors.New("team is not entered in this competition")
)

type CompetitionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Competition, error)
	// LockByID reads the competition and holds its row until the surrounding transaction ends.
	LockByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Competition, error)
	UpdateState(ctx context.Context, exec SQLExecutor, id uuid.UUID, state models.LifecycleState) error
	ListTeams(ctx context.Context, exec SQLExecutor, id uuid.UUID) ([]models.CompetitionTeam, error)
	AddTeam(ctx context.Context, exec SQLExecutor, team *models.CompetitionTeam) error
	RemoveTeam(ctx context.Context, exec SQLExecutor, id uuid.UUID, teamID string) error
}

type sqlCompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) CompetitionRepository {
	return &sqlCompetitionRepository{db: db}
}

func (r *sqlCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlCompetitionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	executor := r.getExecutor(exec)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := executor.NamedExecContext(ctx, `
		INSERT INTO competitions (id, name, format, state, created_at)
		VALUES (:id, :name, :format, :state, :created_at)`, c)
	return err
}

const selectCompetition = `SELECT id, name, format, state, created_at FROM competitions WHERE id = ?`

func (r *sqlCompetitionRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Competition, error) {
	executor := r.getExecutor(exec)
	return r.get(ctx, executor, executor.Rebind(selectCompetition), id)
}

func (r *sqlCompetitionRepository) LockByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Competition, error) {
	executor := r.getExecutor(exec)
	return r.get(ctx, executor, executor.Rebind(forUpdate(executor, selectCompetition)), id)
}

func (r *sqlCompetitionRepository) get(ctx context.Context, executor SQLExecutor, query string, id uuid.UUID) (*models.Competition, error) {
	var c models.Competition
	if err := executor.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *sqlCompetitionRepository) UpdateState(ctx context.Context, exec SQLExecutor, id uuid.UUID, state models.LifecycleState) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, executor.Rebind(`UPDATE competitions SET state = ? WHERE id = ?`), state, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *sqlCompetitionRepository) ListTeams(ctx context.Context, exec SQLExecutor, id uuid.UUID) ([]models.CompetitionTeam, error) {
	executor := r.getExecutor(exec)
	teams := make([]models.CompetitionTeam, 0)
	err := executor.SelectContext(ctx, &teams, executor.Rebind(`
		SELECT competition_id, team_id, seed, created_at
		FROM competition_teams
		WHERE competition_id = ?
		ORDER BY seed ASC`), id)
	return teams, err
}

func (r *sqlCompetitionRepository) AddTeam(ctx context.Context, exec SQLExecutor, team *models.CompetitionTeam) error {
	executor := r.getExecutor(exec)
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	_, err := executor.NamedExecContext(ctx, `
		INSERT INTO competition_teams (competition_id, team_id, seed, created_at)
		VALUES (:competition_id, :team_id, :seed, :created_at)`, team)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrCompetitionTeamConflict
	case isForeignKeyViolation(err):
		return ErrCompetitionNotFound
	default:
		return err
	}
}

func (r *sqlCompetitionRepository) RemoveTeam(ctx context.Context, exec SQLExecutor, id uuid.UUID, teamID string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		executor.Rebind(`DELETE FROM competition_teams WHERE competition_id = ? AND team_id = ?`), id, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCompetitionTeamNotFound)
}
