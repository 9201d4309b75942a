package repositories

import (
	"context"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ResultRepository reads results entered by the score-entry side. The engine never writes them.
type ResultRepository interface {
	ListByRound(ctx context.Context, exec SQLExecutor, roundID uuid.UUID) (map[uuid.UUID]*models.MatchResult, error)
}

type sqlResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &sqlResultRepository{db: db}
}

func (r *sqlResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlResultRepository) ListByRound(ctx context.Context, exec SQLExecutor, roundID uuid.UUID) (map[uuid.UUID]*models.MatchResult, error) {
	executor := r.getExecutor(exec)
	var results []models.MatchResult
	err := executor.SelectContext(ctx, &results, executor.Rebind(`
		SELECT mr.match_id, mr.home_score, mr.away_score, mr.status, mr.updated_at
		FROM match_results mr
		JOIN matches m ON m.id = mr.match_id
		WHERE m.round_id = ?`), roundID)
	if err != nil {
		return nil, err
	}

	byMatch := make(map[uuid.UUID]*models.MatchResult, len(results))
	for i := range results {
		byMatch[results[i].MatchID] = &results[i]
	}
	return byMatch, nil
}
