package models

// CompetitionFormat соответствует ENUM format в БД.
type CompetitionFormat string

const (
	FormatSingleRoundRobin CompetitionFormat = "SINGLE_ROUND_ROBIN"
	FormatDoubleRoundRobin CompetitionFormat = "DOUBLE_ROUND_ROBIN"
	FormatKnockout         CompetitionFormat = "KNOCKOUT"
	FormatSeededPlayoff    CompetitionFormat = "SEEDED_PLAYOFF"
)

// Formats lists every format the schedule generator can dispatch on.
var Formats = []CompetitionFormat{
	FormatSingleRoundRobin,
	FormatDoubleRoundRobin,
	FormatKnockout,
	FormatSeededPlayoff,
}

func (f CompetitionFormat) IsValid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// IsKnockout reports whether rounds after the first are created by advancement.
func (f CompetitionFormat) IsKnockout() bool {
	return f == FormatKnockout || f == FormatSeededPlayoff
}

// Legs returns how many times each pair meets in a round-robin format, 0 otherwise.
func (f CompetitionFormat) Legs() int {
	switch f {
	case FormatSingleRoundRobin:
		return 1
	case FormatDoubleRoundRobin:
		return 2
	default:
		return 0
	}
}
