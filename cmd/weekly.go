package cmd

import (
	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/spf13/cobra"
)

// weeklyCmd shows per-week aggregates and trend metrics.
var weeklyCmd = &cobra.Command{
	Use:   "weekly <owner/repo>",
	Short: "Show per-week activity and trend metrics",
	Long: `Aggregate activity across all contributors into per-week rows.

Each week shows total commits, additions, deletions, contributor count,
the top contributor, and the average commits per contributor. A trend
summary follows: peak week, first-half vs second-half growth rate, and
the most consistent contributors by active weeks.

Examples:
  # Weekly trend for the last 26 weeks
  pulse weekly golang/go

  # Quarter view as markdown for a report
  pulse weekly golang/go --weeks 13 --output markdown --output-file trend.md`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeeklyReport(rootCtx, cfg, ghClient, iocache.Manager); err != nil {
			contract.LogFatal("Failed to build weekly report", err)
		}
	},
}
