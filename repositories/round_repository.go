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
	ErrRoundNotFound           = errors.New("round not found")
	ErrRoundNumberConflict     = errors.New("round number already exists for this competition")
	ErrRoundCompetitionInvalid = errors.New("round competition conflict or invalid")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByNumber(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID, number int) (*models.Round, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) ([]models.Round, error)
	CountByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) (int, error)
}

type sqlRoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) RoundRepository {
	return &sqlRoundRepository{db: db}
}

func (r *sqlRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now().UTC()
	}
	_, err := executor.NamedExecContext(ctx, `
		INSERT INTO rounds (id, competition_id, round_number, name, created_at)
		VALUES (:id, :competition_id, :round_number, :name, :created_at)`, round)
	return r.handleRoundError(err)
}

func (r *sqlRoundRepository) GetByNumber(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID, number int) (*models.Round, error) {
	executor := r.getExecutor(exec)
	var round models.Round
	err := executor.GetContext(ctx, &round, executor.Rebind(`
		SELECT id, competition_id, round_number, name, created_at
		FROM rounds
		WHERE competition_id = ? AND round_number = ?`), competitionID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *sqlRoundRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) ([]models.Round, error) {
	executor := r.getExecutor(exec)
	rounds := make([]models.Round, 0)
	err := executor.SelectContext(ctx, &rounds, executor.Rebind(`
		SELECT id, competition_id, round_number, name, created_at
		FROM rounds
		WHERE competition_id = ?
		ORDER BY round_number ASC`), competitionID)
	return rounds, err
}

func (r *sqlRoundRepository) CountByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.GetContext(ctx, &count, executor.Rebind(`SELECT COUNT(*) FROM rounds WHERE competition_id = ?`), competitionID)
	return count, err
}

func (r *sqlRoundRepository) handleRoundError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrRoundNumberConflict
	case isForeignKeyViolation(err):
		return ErrRoundCompetitionInvalid
	default:
		return err
	}
}
