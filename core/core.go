// Package core has core logic for fetching contributor activity,
// reconciling author identities and assembling reports.
package core

import (
	"context"
	"time"

	"github.com/huangsam/pulse/core/agg"
	"github.com/huangsam/pulse/core/trend"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/outwriter"
	"github.com/huangsam/pulse/schema"
)

// ExecutorFunc defines the function signature for executing different report kinds.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error

// ExecuteCommitReport runs the contributor commit leaderboard.
// It serves as the main entry point for the 'commits' command.
func ExecuteCommitReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetContributorReport(ctx, cfg, client, mgr, schema.CommitsReport)
	if err != nil {
		return err
	}
	return outwriter.PrintContributorReport(&report, cfg, time.Since(start))
}

// ExecuteLineReport runs the leaderboard ranked by lines added.
// It serves as the main entry point for the 'lines' command.
func ExecuteLineReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetContributorReport(ctx, cfg, client, mgr, schema.LinesReport)
	if err != nil {
		return err
	}
	return outwriter.PrintContributorReport(&report, cfg, time.Since(start))
}

// GetContributorReport assembles the contributor leaderboard for the given
// report kind and records the run in the history store.
func GetContributorReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager, kind schema.ReportKind) (schema.ContributorReport, error) {
	merged, _, err := fetchMergedStats(ctx, cfg, client, mgr)
	if err != nil {
		return schema.ContributorReport{}, err
	}
	report := buildContributorReport(cfg, kind, merged)
	recordRun(mgr, cfg, kind, merged)
	return report, nil
}

// ExecuteWeeklyReport runs the per-week aggregation with trend summary.
// It serves as the main entry point for the 'weekly' command.
func ExecuteWeeklyReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetWeeklyReport(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintWeeklyReport(&report, cfg, time.Since(start))
}

// GetWeeklyReport assembles the weekly rollup and its trend summary.
func GetWeeklyReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) (schema.WeeklyTrendReport, error) {
	records, merged, err := fetchResolvedRecords(ctx, cfg, client, mgr)
	if err != nil {
		return schema.WeeklyTrendReport{}, err
	}

	weeks := agg.FoldWeekly(records)
	report := schema.WeeklyTrendReport{
		Repo:  cfg.RepoSlug(),
		Weeks: weeks,
		Trend: trend.Summarize(weeks),
	}
	recordRun(mgr, cfg, schema.WeeklyReport, merged)
	return report, nil
}

// ExecuteDayReport runs the per-author day-of-week aggregation, optionally
// folding in PR metrics for the top contributors.
// It serves as the main entry point for the 'days' command.
func ExecuteDayReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetDayReport(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDayReport(&report, cfg, time.Since(start))
}

// GetDayReport assembles the per-author weekday breakdown.
func GetDayReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) (schema.DayReport, error) {
	records, merged, err := fetchResolvedRecords(ctx, cfg, client, mgr)
	if err != nil {
		return schema.DayReport{}, err
	}

	report := buildDayReport(cfg, records, merged)
	if cfg.WithPRs {
		resolver := loadResolver(cfg)
		attachPRMetrics(ctx, cfg, client, resolver, &report)
	}
	recordRun(mgr, cfg, schema.DaysReport, merged)
	return report, nil
}

// ExecutePRReport runs the PR metrics collection for one user.
// It serves as the main entry point for the 'prs' command.
func ExecutePRReport(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, _ contract.StoreManager) error {
	start := time.Now()
	resolver := loadResolver(cfg)
	summary := CollectPRMetrics(ctx, cfg, client, resolver, cfg.User)
	return outwriter.PrintPRSummary(&summary, cfg, time.Since(start))
}

// GetPRSummary assembles the PR activity summary for one user.
func GetPRSummary(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, user string) schema.PRSummary {
	resolver := loadResolver(cfg)
	return CollectPRMetrics(ctx, cfg, client, resolver, user)
}
