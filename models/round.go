package models

import (
	"time"

	"github.com/google/uuid"
)

type Round struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CompetitionID uuid.UUID `json:"competition_id" db:"competition_id"`
	Number        int       `json:"number" db:"round_number"`
	Name          string    `json:"name" db:"name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
