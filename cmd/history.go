package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/stepcoder/internal/config"
	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent code submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve journal path: %w", err)
		}
		jnl, err := journal.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() { _ = jnl.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := jnl.RecentCodeEntries(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		fmt.Print(renderHistory(entries))
		return nil
	},
}

// renderHistory lists code entries newest first: a timestamp/location
// line, then the submitted program indented under it.
func renderHistory(entries []journal.CodeEntry) string {
	if len(entries) == 0 {
		return "No code submissions recorded yet.\n"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s / %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.PageSlug, e.StepName)
		for _, line := range strings.Split(strings.TrimRight(e.Input, "\n"), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of entries to show")
}
