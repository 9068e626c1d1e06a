package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/pulse/core/agg"
	"github.com/huangsam/pulse/core/ident"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/ghclient"
	"github.com/huangsam/pulse/schema"
)

// prTopContributors bounds how many leaderboard authors get PR metrics
// attached in the day report. Each author costs several search calls.
const prTopContributors = 5

// CollectPRMetrics fetches and buckets pull request events for one user,
// summing across every alias of the same canonical identity. A failure on
// one alias logs a warning and the collection continues with partial data.
func CollectPRMetrics(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, resolver *ident.Resolver, user string) schema.PRSummary {
	canonical := resolver.Resolve(user)
	usernames := queryUsernames(resolver, canonical)

	summary := schema.PRSummary{
		Author: canonical,
		Events: make(map[schema.PREvent]schema.PREventStats, len(schema.AllPREvents)),
	}
	for _, event := range schema.AllPREvents {
		stats := schema.PREventStats{ByDay: emptyDayCounts()}
		for _, username := range usernames {
			query := ghclient.BuildPRQuery(cfg.Owner, cfg.Repo, username, event, cfg.StartDate, cfg.EndDate)
			items, err := client.SearchPullRequests(ctx, query)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("fetching %s PRs for %s, skipping", event, username),
					contract.NewSkippableError("search pull requests", err))
				continue
			}
			bucketPRItems(items, event, &stats)
		}
		summary.Events[event] = stats
	}
	return summary
}

// attachPRMetrics adds PR summaries for the top contributors of a day report.
func attachPRMetrics(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, resolver *ident.Resolver, report *schema.DayReport) {
	limit := min(prTopContributors, len(report.Authors))
	for i := range limit {
		summary := CollectPRMetrics(ctx, cfg, client, resolver, report.Authors[i].Author)
		report.Authors[i].PRs = &summary
	}
}

// queryUsernames lists the usernames to query for a canonical identity:
// the canonical name plus its declared aliases, de-duplicated.
func queryUsernames(resolver *ident.Resolver, canonical string) []string {
	usernames := []string{canonical}
	seen := map[string]bool{canonical: true}
	for _, alias := range resolver.AliasesFor(canonical) {
		if !seen[alias] {
			seen[alias] = true
			usernames = append(usernames, alias)
		}
	}
	return usernames
}

// bucketPRItems counts items into weekday buckets keyed by the event's
// date field. Unparseable or missing dates are skipped; partial data is
// expected from the search API.
func bucketPRItems(items []schema.PRItem, event schema.PREvent, stats *schema.PREventStats) {
	for _, item := range items {
		dateStr := eventDate(item, event)
		if dateStr == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			continue
		}
		day := agg.DayName(t.Unix())
		if day == schema.DayUnknown {
			continue
		}
		stats.Count++
		stats.ByDay[day]++
	}
}

// eventDate picks the date field for an event type. GitHub records the
// merge timestamp as the close event, so merged PRs range on ClosedAt.
func eventDate(item schema.PRItem, event schema.PREvent) string {
	if event == schema.PRMerged {
		return item.ClosedAt
	}
	return item.CreatedAt
}

// emptyDayCounts returns the seven weekday keys, zero-filled.
func emptyDayCounts() map[string]int {
	counts := make(map[string]int, len(schema.DayNames))
	for _, name := range schema.DayNames {
		counts[name] = 0
	}
	return counts
}
