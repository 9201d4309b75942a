package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrMatchNumberConflict = errors.New("match number already exists in this round")
	ErrMatchRoundInvalid   = errors.New("match round conflict or invalid")
)

type MatchRepository interface {
	// CreateBatch inserts all matches with one statement.
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error
	ListByRound(ctx context.Context, exec SQLExecutor, roundID uuid.UUID) ([]models.Match, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) ([]models.Match, error)
}

type sqlMatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) MatchRepository {
	return &sqlMatchRepository{db: db}
}

func (r *sqlMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	now := time.Now().UTC()
	for i := range matches {
		if matches[i].ID == uuid.Nil {
			matches[i].ID = uuid.New()
		}
		if matches[i].CreatedAt.IsZero() {
			matches[i].CreatedAt = now
		}
	}

	_, err := executor.NamedExecContext(ctx, `
		INSERT INTO matches (id, round_id, match_number, home_team_id, away_team_id, home_owner_id, away_owner_id, created_at)
		VALUES (:id, :round_id, :match_number, :home_team_id, :away_team_id, :home_owner_id, :away_owner_id, :created_at)`, matches)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrMatchNumberConflict
	case isForeignKeyViolation(err):
		return ErrMatchRoundInvalid
	default:
		return err
	}
}

const selectMatchColumns = `m.id, m.round_id, m.match_number, m.home_team_id, m.away_team_id, m.home_owner_id, m.away_owner_id, m.created_at`

func (r *sqlMatchRepository) ListByRound(ctx context.Context, exec SQLExecutor, roundID uuid.UUID) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	matches := make([]models.Match, 0)
	err := executor.SelectContext(ctx, &matches, executor.Rebind(`
		SELECT `+selectMatchColumns+`
		FROM matches m
		WHERE m.round_id = ?
		ORDER BY m.match_number ASC`), roundID)
	return matches, err
}

func (r *sqlMatchRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID uuid.UUID) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	matches := make([]models.Match, 0)
	err := executor.SelectContext(ctx, &matches, executor.Rebind(`
		SELECT `+selectMatchColumns+`
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE r.competition_id = ?
		ORDER BY r.round_number ASC, m.match_number ASC`), competitionID)
	return matches, err
}
