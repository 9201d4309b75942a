package brackets

import (
	"context"
	"errors"
)

var (
	ErrNotEnoughTeams  = errors.New("not enough teams to generate a schedule (minimum 2)")
	ErrInvalidLegs     = errors.New("round robin legs must be 1 or 2")
	ErrNotReady        = errors.New("round has matches without a confirmed result")
	ErrBracketComplete = errors.New("bracket is complete")
)

type GenerateScheduleParams struct {
	// TeamIDs in entry order. For seeded formats the order is the seed order.
	TeamIDs []string
}

// MatchPairing is one fixture of a planned round.
type MatchPairing struct {
	Number     int
	HomeTeamID string
	AwayTeamID string
}

// RoundPlan is a round that has not been persisted yet.
type RoundPlan struct {
	Number  int
	Name    string
	Matches []MatchPairing

	// Teams that sit this round out without a match.
	Byes []string
}

// TeamIDs returns every team that plays in the round, home side first.
func (p *RoundPlan) TeamIDs() []string {
	ids := make([]string, 0, len(p.Matches)*2)
	for _, m := range p.Matches {
		ids = append(ids, m.HomeTeamID, m.AwayTeamID)
	}
	return ids
}

type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*RoundPlan, error)

	GetName() string
}

func appendPairing(plan *RoundPlan, home, away string) {
	plan.Matches = append(plan.Matches, MatchPairing{
		Number:     len(plan.Matches) + 1,
		HomeTeamID: home,
		AwayTeamID: away,
	})
}
