package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/export"
	"github.com/Dosada05/fixture-engine/services"
)

func runPreview(out io.Writer, teamsPath, outputPath string) error {
	tf, err := config.LoadTeamsFile(teamsPath)
	if err != nil {
		return err
	}

	generator, err := services.NewGenerator(tf.Format)
	if err != nil {
		return err
	}
	plans, err := generator.GenerateSchedule(context.Background(), brackets.GenerateScheduleParams{TeamIDs: tf.Teams})
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	printPlans(out, tf, generator.GetName(), plans)

	if outputPath == "" {
		return nil
	}

	f, err := export.Workbook(export.FromPlans(tf.Name, tf.Format, tf.Teams, plans))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving %s: %w", outputPath, err)
	}
	fmt.Fprintf(out, "✓ Schedule written to %s\n", outputPath)
	return nil
}

func printPlans(out io.Writer, tf *config.TeamsFile, generatorName string, plans []*brackets.RoundPlan) {
	fmt.Fprintf(out, "%s (%s, %d teams)\n", tf.Name, generatorName, len(tf.Teams))
	if tf.Format.IsKnockout() {
		info := brackets.Describe(len(tf.Teams))
		fmt.Fprintf(out, "bracket of %d, %d byes, %d rounds\n", info.BracketSize, info.Byes, info.TotalRounds)
	}

	for _, plan := range plans {
		fmt.Fprintf(out, "\nRound %d: %s\n", plan.Number, plan.Name)
		for _, m := range plan.Matches {
			fmt.Fprintf(out, "  %2d. %s vs %s\n", m.Number, m.HomeTeamID, m.AwayTeamID)
		}
		for _, team := range plan.Byes {
			fmt.Fprintf(out, "      %s: no match\n", team)
		}
	}
}
