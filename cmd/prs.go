package cmd

import (
	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/spf13/cobra"
)

// prsCmd shows pull request activity for one user.
var prsCmd = &cobra.Command{
	Use:   "prs <owner/repo> <user>",
	Short: "Show pull request activity for a single user",
	Long: `Count pull request events for one user over a date range.

Events counted: opened, merged, and reviewed. Each event shows a total
plus day-of-week buckets. Aliases of the same
canonical identity are queried separately and summed into one summary.

The range defaults to the last 90 days; override with --start / --end.

Examples:
  # Last 90 days of PR activity
  pulse prs golang/go bradfitz

  # Fixed range
  pulse prs golang/go bradfitz --start 2024-01-01 --end 2024-03-31`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePRReport(rootCtx, cfg, ghClient, iocache.Manager); err != nil {
			contract.LogFatal("Failed to build PR report", err)
		}
	},
}
