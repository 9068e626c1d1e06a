package cmd

import (
	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/spf13/cobra"
)

// linesCmd ranks contributors by lines added.
var linesCmd = &cobra.Command{
	Use:   "lines <owner/repo>",
	Short: "Rank contributors by lines added",
	Long: `Build a contributor leaderboard ranked by lines added over the analysis window.

Same pipeline as 'pulse commits' with a different sort key. Useful when a
repository has a few large-change authors whose commit counts undersell
their footprint.

Examples:
  # Last 26 weeks of golang/go, ranked by lines
  pulse lines golang/go

  # JSON output for scripting
  pulse lines golang/go --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLineReport(rootCtx, cfg, ghClient, iocache.Manager); err != nil {
			contract.LogFatal("Failed to build line report", err)
		}
	},
}
