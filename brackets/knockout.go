package brackets

import (
	"context"
	"fmt"
	"math"

	"github.com/Dosada05/fixture-engine/models"
)

type KnockoutGenerator struct{}

func NewKnockoutGenerator() *KnockoutGenerator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) GetName() string {
	return "Knockout"
}

// BracketInfo describes the shape of a bracket for n teams.
type BracketInfo struct {
	Teams       int
	BracketSize int
	Byes        int
	TotalRounds int
}

func Describe(n int) BracketInfo {
	size := BracketSize(n)
	return BracketInfo{
		Teams:       n,
		BracketSize: size,
		Byes:        size - n,
		TotalRounds: TotalRounds(size),
	}
}

// BracketSize returns the smallest power of two that fits n teams.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	numRounds := int(math.Ceil(math.Log2(float64(n))))
	return 1 << uint(numRounds)
}

func TotalRounds(bracketSize int) int {
	if bracketSize <= 1 {
		return 0
	}
	return int(math.Log2(float64(bracketSize)))
}

// SeedOrder pairs slot i with slot size-1-i: 1 vs last, 2 vs second-last and so on.
func SeedOrder(bracketSize int) []int {
	order := make([]int, 0, bracketSize)
	for i := 0; i < bracketSize/2; i++ {
		order = append(order, i, bracketSize-1-i)
	}
	return order
}

// RoundName names a round by how many rounds remain after it.
func RoundName(maxRound, currentRound int) string {
	d := maxRound - currentRound
	switch {
	case d <= 0:
		return "Final"
	case d == 1:
		return "Semi-Final"
	case d == 2:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round of %d", 1<<uint(d+1))
	}
}

// GenerateSchedule creates round 1 only; later rounds come from PlanNextRound.
// A team drawn against an empty slot gets no match and is listed in Byes.
// Nothing carries it into round 2.
func (g *KnockoutGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*RoundPlan, error) {
	teams := params.TeamIDs
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, n)
	}

	size := BracketSize(n)
	plan := &RoundPlan{
		Number: 1,
		Name:   RoundName(TotalRounds(size), 1),
	}

	order := SeedOrder(size)
	for i := 0; i < len(order); i += 2 {
		a, b := order[i], order[i+1]
		switch {
		case a < n && b < n:
			appendPairing(plan, teams[a], teams[b])
		case a < n:
			plan.Byes = append(plan.Byes, teams[a])
		case b < n:
			plan.Byes = append(plan.Byes, teams[b])
		}
	}

	return []*RoundPlan{plan}, nil
}

// CompletedMatch pairs a fixture with its result; Result is nil when nothing was entered.
type CompletedMatch struct {
	Match  *models.Match
	Result *models.MatchResult
}

type AdvanceParams struct {
	CurrentRound int
	// Matches of the current round ordered by match number.
	Matches []CompletedMatch
}

// Winner returns home on a strictly greater home score, away otherwise.
func Winner(match *models.Match, result *models.MatchResult) string {
	if result.HomeScore > result.AwayScore {
		return match.HomeTeamID
	}
	return match.AwayTeamID
}

// PlanNextRound pairs the winners of the current round consecutively.
// An odd trailing winner gets no match and is reported in Byes.
func (g *KnockoutGenerator) PlanNextRound(params AdvanceParams) (*RoundPlan, error) {
	winners := make([]string, 0, len(params.Matches))
	for _, cm := range params.Matches {
		if cm.Result == nil || !cm.Result.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: round %d match %d", ErrNotReady, params.CurrentRound, cm.Match.Number)
		}
		winners = append(winners, Winner(cm.Match, cm.Result))
	}

	if len(winners) <= 1 {
		return nil, ErrBracketComplete
	}

	next := params.CurrentRound + 1
	totalRounds := params.CurrentRound + int(math.Ceil(math.Log2(float64(len(winners)))))
	plan := &RoundPlan{
		Number: next,
		Name:   RoundName(totalRounds, next),
	}
	for i := 0; i+1 < len(winners); i += 2 {
		appendPairing(plan, winners[i], winners[i+1])
	}
	if len(winners)%2 != 0 {
		plan.Byes = append(plan.Byes, winners[len(winners)-1])
	}

	return plan, nil
}
