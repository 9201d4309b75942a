package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Tournament schedule generation and knockout progression",
	}

	var migrateOnStart bool
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(migrateOnStart)
		},
	}
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")

	migrateCmd := &cobra.Command{
		Use:          "migrate <up|down>",
		Short:        "Apply or roll back database migrations",
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{"up", "down"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(args[0])
		},
	}

	var teamsFile, outputFile string
	previewCmd := &cobra.Command{
		Use:          "preview",
		Short:        "Print the schedule for a teams file without touching the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout(), teamsFile, outputFile)
		},
	}
	previewCmd.Flags().StringVarP(&teamsFile, "teams", "t", "teams.yaml", "Path to the teams file")
	previewCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the schedule to this Excel file")

	rootCmd.AddCommand(serveCmd, migrateCmd, previewCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
