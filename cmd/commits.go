package cmd

import (
	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/spf13/cobra"
)

// commitsCmd ranks contributors by commit count.
var commitsCmd = &cobra.Command{
	Use:   "commits <owner/repo>",
	Short: "Rank contributors by commit count",
	Long: `Build a contributor leaderboard ranked by commits over the analysis window.

For each contributor (after alias reconciliation and bot filtering) shows:
- Rank, commits, lines added/deleted, net lines
- Active weeks and average commits per active week
- Share of total commits and a High/Moderate/Low volume label

Concentration and volume-band summaries follow the table in text mode.

Examples:
  # Last 26 weeks of golang/go
  pulse commits golang/go

  # Shorter window, more rows, CSV to a file
  pulse commits golang/go --weeks 12 --limit 50 --output csv --output-file commits.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommitReport(rootCtx, cfg, ghClient, iocache.Manager); err != nil {
			contract.LogFatal("Failed to build commit report", err)
		}
	},
}
