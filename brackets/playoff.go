package brackets

import "context"

// PlayoffGenerator is a knockout whose caller passes teams already ordered by seed, seed 1 first.
type PlayoffGenerator struct {
	knockout *KnockoutGenerator
}

func NewPlayoffGenerator() ScheduleGenerator {
	return &PlayoffGenerator{knockout: NewKnockoutGenerator()}
}

func (g *PlayoffGenerator) GetName() string {
	return "SeededPlayoff"
}

func (g *PlayoffGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*RoundPlan, error) {
	return g.knockout.GenerateSchedule(ctx, params)
}
