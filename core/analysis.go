package core

import (
	"context"
	"sort"
	"time"

	"github.com/huangsam/pulse/core/agg"
	"github.com/huangsam/pulse/core/ident"
	"github.com/huangsam/pulse/core/trend"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
)

// loadResolver reads the alias table from the configured file. A missing or
// malformed file degrades to an empty table with a warning, never a failure.
func loadResolver(cfg *contract.Config) *ident.Resolver {
	resolver, err := ident.LoadFile(cfg.AliasesFile)
	if err != nil {
		contract.LogWarn("loading aliases, continuing with empty table", err)
	}
	return resolver
}

// fetchMergedStats runs the fetch -> normalize -> resolve -> merge pipeline
// and returns one record per canonical author.
func fetchMergedStats(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) ([]schema.AuthorStats, *ident.Resolver, error) {
	resolver := loadResolver(cfg)
	raw, err := cachedContributorStats(ctx, cfg, client, mgr)
	if err != nil {
		return nil, nil, err
	}
	records := agg.AuthorStatsFromRaw(raw, cfg.Weeks, cfg.ExcludedAuthors)
	return resolver.MergeRecords(records), resolver, nil
}

// fetchResolvedRecords returns the flat week record stream with authors
// rewritten to canonical names, plus the merged per-author records for run
// tracking.
func fetchResolvedRecords(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) ([]schema.WeekRecord, []schema.AuthorStats, error) {
	resolver := loadResolver(cfg)
	raw, err := cachedContributorStats(ctx, cfg, client, mgr)
	if err != nil {
		return nil, nil, err
	}

	records := agg.Normalize(raw, cfg.Weeks, cfg.ExcludedAuthors)
	for i := range records {
		records[i].Author = resolver.Resolve(records[i].Author)
	}
	merged := resolver.MergeRecords(agg.AuthorStatsFromRaw(raw, cfg.Weeks, cfg.ExcludedAuthors))
	return records, merged, nil
}

// buildContributorReport ranks merged records and derives the leaderboard
// with concentration and volume sections.
func buildContributorReport(cfg *contract.Config, kind schema.ReportKind, merged []schema.AuthorStats) schema.ContributorReport {
	totalCommits := 0
	for _, rec := range merged {
		totalCommits += rec.Commits
	}

	ranked := rankAuthors(merged, kind, cfg.ResultLimit)
	rows := make([]schema.ContributorRow, len(ranked))
	for i, rec := range ranked {
		avg := 0.0
		if weeks := rec.ActiveWeeks(); weeks > 0 {
			avg = schema.Round2(float64(rec.Commits) / float64(weeks))
		}
		rows[i] = schema.ContributorRow{
			Rank:        i + 1,
			Label:       schema.GetPlainLabel(rec.Commits),
			Share:       schema.PercentOf(rec.Commits, totalCommits),
			ActiveWeeks: rec.ActiveWeeks(),
			AvgPerWeek:  avg,
			NetLines:    rec.NetLines(),
			AuthorStats: rec,
		}
	}

	return schema.ContributorReport{
		Repo:          cfg.RepoSlug(),
		Kind:          kind,
		Weeks:         cfg.Weeks,
		TotalCommits:  totalCommits,
		Rows:          rows,
		Concentration: trend.Concentration(merged, trend.DefaultConcentrationThresholds),
		Volume:        volumeDistribution(merged),
	}
}

// volumeDistribution bands contributors by total commit volume.
func volumeDistribution(merged []schema.AuthorStats) schema.VolumeDistribution {
	var dist schema.VolumeDistribution
	for _, rec := range merged {
		switch {
		case rec.Commits >= schema.HighActivityCommits:
			dist.High++
		case rec.Commits >= schema.ModerateActivityCommits:
			dist.Moderate++
		default:
			dist.Low++
		}
	}
	return dist
}

// buildDayReport folds records into per-author weekday buckets, ordered by
// total commits descending.
func buildDayReport(cfg *contract.Config, records []schema.WeekRecord, merged []schema.AuthorStats) schema.DayReport {
	byAuthor := agg.FoldAuthorDays(records)

	commitTotals := make(map[string]int, len(merged))
	for _, rec := range merged {
		commitTotals[rec.Author] = rec.Commits
	}

	authors := make([]schema.AuthorDayStats, 0, len(byAuthor))
	for author, days := range byAuthor {
		authors = append(authors, schema.AuthorDayStats{
			Author:  author,
			Days:    days,
			Commits: commitTotals[author],
		})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Commits != authors[j].Commits {
			return authors[i].Commits > authors[j].Commits
		}
		return authors[i].Author < authors[j].Author
	})
	if len(authors) > cfg.ResultLimit {
		authors = authors[:cfg.ResultLimit]
	}

	return schema.DayReport{
		Repo:    cfg.RepoSlug(),
		Weeks:   cfg.Weeks,
		Authors: authors,
		Totals:  agg.FoldDays(records),
	}
}

// recordRun stores the run and its per-author results in the history store.
// History failures never fail the report.
func recordRun(mgr contract.StoreManager, cfg *contract.Config, kind schema.ReportKind, merged []schema.AuthorStats) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	totalCommits := 0
	for _, rec := range merged {
		totalCommits += rec.Commits
	}

	runID, err := store.BeginRun(cfg.RepoSlug(), kind, time.Now(), cfg.Weeks)
	if err != nil {
		contract.LogWarn("recording run", err)
		return
	}
	for _, rec := range merged {
		if err := store.RecordAuthor(runID, rec); err != nil {
			contract.LogWarn("recording run author", err)
		}
	}
	if err := store.CompleteRun(runID, len(merged), totalCommits); err != nil {
		contract.LogWarn("completing run", err)
	}
}
