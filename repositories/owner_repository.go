package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/jmoiron/sqlx"
)

// OwnerRepository resolves the current owner of each team for match snapshots.
type OwnerRepository interface {
	ResolveOwners(ctx context.Context, exec SQLExecutor, teamIDs []string) (map[string]string, error)
}

type sqlOwnerRepository struct {
	db *sqlx.DB
}

func NewOwnerRepository(db *sqlx.DB) OwnerRepository {
	return &sqlOwnerRepository{db: db}
}

func (r *sqlOwnerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ResolveOwners omits teams without a known owner.
func (r *sqlOwnerRepository) ResolveOwners(ctx context.Context, exec SQLExecutor, teamIDs []string) (map[string]string, error) {
	owners := make(map[string]string, len(teamIDs))
	if len(teamIDs) == 0 {
		return owners, nil
	}

	executor := r.getExecutor(exec)
	query, args, err := sqlx.In(`SELECT team_id, owner_id, updated_at FROM team_owners WHERE team_id IN (?)`, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner lookup: %w", err)
	}

	var rows []models.TeamOwner
	if err := executor.SelectContext(ctx, &rows, executor.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		owners[row.TeamID] = row.OwnerID
	}
	return owners, nil
}
