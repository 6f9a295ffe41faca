package cmd

import (
	"github.com/abhisek/stepcoder/internal/config"
	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepcoder",
	Short: "Interactive coding course in the terminal",
	Long:  "Stepcoder — step-by-step coding lessons that run your code against the course server and keep you moving with AI hints.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite journal file (overrides STEPCODER_DB env var)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the journal path using --db flag (highest
// priority), then STEPCODER_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, journal.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, journal.EnsureDir(cfg.DBPath)
	}
	return journal.DefaultPath()
}
