package models

import (
	"time"

	"github.com/google/uuid"
)

// LifecycleState представляет статусы соревнования.
type LifecycleState string

const (
	StateDraft  LifecycleState = "DRAFT"
	StateActive LifecycleState = "ACTIVE"
)

// Competition is a league or cup whose schedule is generated once from its entered teams.
type Competition struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	Name      string            `json:"name" db:"name"`
	Format    CompetitionFormat `json:"format" db:"format"`
	State     LifecycleState    `json:"state" db:"state"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	// Заполняются сервисом, в таблице competitions не хранятся
	TeamIDs []string `json:"team_ids" db:"-"`
	Rounds  []Round  `json:"rounds,omitempty" db:"-"`
}

// CompetitionTeam is one entered team; Seed is its 1-based position in the entry order.
type CompetitionTeam struct {
	CompetitionID uuid.UUID `json:"competition_id" db:"competition_id"`
	TeamID        string    `json:"team_id" db:"team_id"`
	Seed          int       `json:"seed" db:"seed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
