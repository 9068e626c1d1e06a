package cmd

import (
	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/spf13/cobra"
)

// daysCmd shows per-author day-of-week activity.
var daysCmd = &cobra.Command{
	Use:   "days <owner/repo>",
	Short: "Show per-author day-of-week commit patterns",
	Long: `Break down each contributor's commits by day of the week.

One row per contributor with Monday through Sunday columns plus a total,
and an "All" row summing every contributor. With --prs, each contributor
also gets pull request event counts (opened, merged, reviewed) with
their busiest day.

Examples:
  # Day-of-week table for the last 26 weeks
  pulse days golang/go

  # Include pull request day buckets
  pulse days golang/go --prs`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDayReport(rootCtx, cfg, ghClient, iocache.Manager); err != nil {
			contract.LogFatal("Failed to build day report", err)
		}
	},
}
