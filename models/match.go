package models

import (
	"time"

	"github.com/google/uuid"
)

// Match is a single fixture. Owner ids are a snapshot taken when the round was created.
type Match struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RoundID     uuid.UUID `json:"round_id" db:"round_id"`
	Number      int       `json:"number" db:"match_number"`
	HomeTeamID  string    `json:"home_team_id" db:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id" db:"away_team_id"`
	HomeOwnerID *string   `json:"home_owner_id,omitempty" db:"home_owner_id"`
	AwayOwnerID *string   `json:"away_owner_id,omitempty" db:"away_owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type ResultStatus string

const (
	ResultPending   ResultStatus = "PENDING"
	ResultSubmitted ResultStatus = "SUBMITTED"
	ResultDisputed  ResultStatus = "DISPUTED"
	ResultConfirmed ResultStatus = "CONFIRMED"
	ResultResolved  ResultStatus = "RESOLVED"
)

// IsTerminal reports whether a result may be used to advance a bracket.
func (s ResultStatus) IsTerminal() bool {
	return s == ResultConfirmed || s == ResultResolved
}

// MatchResult is written by the score-entry side; the engine only reads it.
type MatchResult struct {
	MatchID   uuid.UUID    `json:"match_id" db:"match_id"`
	HomeScore int          `json:"home_score" db:"home_score"`
	AwayScore int          `json:"away_score" db:"away_score"`
	Status    ResultStatus `json:"status" db:"status"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
