package brackets

import (
	"context"
	"fmt"
)

const byeIndex = -1

type RoundRobinGenerator struct {
	legs int
}

func NewRoundRobinGenerator(legs int) ScheduleGenerator {
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) GetName() string {
	if g.legs == 2 {
		return "DoubleRoundRobin"
	}
	return "RoundRobin"
}

// GenerateSchedule builds every matchday with the circle method.
// Index 0 of the rotation stays fixed for a whole leg, the rest cycle one step per round.
// Each leg restarts from the entry order; legs after the first swap venues.
func (g *RoundRobinGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*RoundPlan, error) {
	teams := params.TeamIDs
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}
	if g.legs != 1 && g.legs != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLegs, g.legs)
	}

	base := make([]int, 0, len(teams)+1)
	for i := range teams {
		base = append(base, i)
	}
	if len(base)%2 != 0 {
		base = append(base, byeIndex)
	}
	n := len(base)
	roundsPerLeg := n - 1

	plans := make([]*RoundPlan, 0, g.legs*roundsPerLeg)
	for leg := 0; leg < g.legs; leg++ {
		rotation := make([]int, n)
		copy(rotation, base)

		for r := 0; r < roundsPerLeg; r++ {
			number := leg*roundsPerLeg + r + 1
			plan := &RoundPlan{
				Number:  number,
				Name:    fmt.Sprintf("Matchday %d", number),
				Matches: make([]MatchPairing, 0, n/2),
			}

			for i := 0; i < n/2; i++ {
				home, away := rotation[i], rotation[n-1-i]
				if home == byeIndex || away == byeIndex {
					if home != byeIndex {
						plan.Byes = append(plan.Byes, teams[home])
					} else {
						plan.Byes = append(plan.Byes, teams[away])
					}
					continue
				}
				if leg > 0 {
					home, away = away, home
				}
				appendPairing(plan, teams[home], teams[away])
			}

			plans = append(plans, plan)
			rotate(rotation)
		}
	}

	return plans, nil
}

// rotate moves the last element to index 1, shifting the others right.
func rotate(rotation []int) {
	if len(rotation) < 3 {
		return
	}
	last := rotation[len(rotation)-1]
	copy(rotation[2:], rotation[1:len(rotation)-1])
	rotation[1] = last
}
