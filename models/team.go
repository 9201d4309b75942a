package models

import "time"

// TeamOwner maps an external team key to its current owner.
type TeamOwner struct {
	TeamID    string    `json:"team_id" db:"team_id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
