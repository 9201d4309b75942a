package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dosada05/fixture-engine/models"
	"gopkg.in/yaml.v3"
)

// TeamsFile describes a competition for the preview command.
// Teams are listed in seed order.
type TeamsFile struct {
	Name   string                   `yaml:"name"`
	Format models.CompetitionFormat `yaml:"format"`
	Teams  []string                 `yaml:"teams"`
}

// LoadTeamsFromBytes parses YAML bytes into a TeamsFile and validates it.
func LoadTeamsFromBytes(data []byte) (*TeamsFile, error) {
	var tf TeamsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing teams file: %w", err)
	}
	if err := tf.validate(); err != nil {
		return nil, err
	}
	return &tf, nil
}

// LoadTeamsFile reads and parses a YAML teams file.
func LoadTeamsFile(path string) (*TeamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading teams file: %w", err)
	}
	return LoadTeamsFromBytes(data)
}

func (tf *TeamsFile) validate() error {
	if tf.Format != "" && !tf.Format.IsValid() {
		return fmt.Errorf("unknown format %q", tf.Format)
	}

	seen := make(map[string]bool, len(tf.Teams))
	for i, team := range tf.Teams {
		team = strings.TrimSpace(team)
		if team == "" {
			return fmt.Errorf("team %d has an empty name", i+1)
		}
		if seen[team] {
			return fmt.Errorf("team %q is listed more than once", team)
		}
		seen[team] = true
		tf.Teams[i] = team
	}
	if len(tf.Teams) < 2 {
		return fmt.Errorf("at least two teams are required, found %d", len(tf.Teams))
	}
	return nil
}
