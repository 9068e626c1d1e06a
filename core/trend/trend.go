// Package trend derives summary statistics from weekly aggregates: peak
// week, growth rate, contributor consistency and commit concentration.
package trend

import (
	"sort"

	"github.com/huangsam/pulse/schema"
)

// MinGrowthWeeks is the smallest week count for a meaningful growth rate.
const MinGrowthWeeks = 4

// DefaultConsistencyLimit caps the most-consistent contributor list.
const DefaultConsistencyLimit = 5

// DefaultConcentrationThresholds are the cumulative commit share levels
// reported by Concentration.
var DefaultConcentrationThresholds = []int{50, 80, 90}

// Summarize computes a TrendSummary over weekly aggregates. The input is
// re-sorted ascending by week key before any computation, so callers need
// no particular ordering.
func Summarize(weeks []schema.WeeklyAggregate) schema.TrendSummary {
	sorted := sortWeeks(weeks)

	summary := schema.TrendSummary{WeekCount: len(sorted)}
	if len(sorted) == 0 {
		return summary
	}

	summary.FirstWeek = sorted[0].Week
	summary.LastWeek = sorted[len(sorted)-1].Week
	for _, w := range sorted {
		summary.TotalCommits += w.Commits
		summary.TotalAdditions += w.Additions
		summary.TotalDeletions += w.Deletions
	}
	summary.AvgCommits = schema.Round2(float64(summary.TotalCommits) / float64(len(sorted)))
	summary.PeakWeek, summary.PeakCommits = peakWeek(sorted)
	summary.GrowthRate = growthRate(sorted)
	summary.MostConsistent = MostConsistent(sorted, DefaultConsistencyLimit)
	return summary
}

// sortWeeks copies and sorts aggregates ascending by week key.
func sortWeeks(weeks []schema.WeeklyAggregate) []schema.WeeklyAggregate {
	sorted := append([]schema.WeeklyAggregate(nil), weeks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Week < sorted[j].Week })
	return sorted
}

// peakWeek finds the week with the most commits. Ties go to the earliest
// week, which the ascending sort makes a strict-greater scan.
func peakWeek(sorted []schema.WeeklyAggregate) (string, int) {
	peak := ""
	peakCommits := 0
	for _, w := range sorted {
		if w.Commits > peakCommits || peak == "" {
			peak = w.Week
			peakCommits = w.Commits
		}
	}
	return peak, peakCommits
}

// growthRate compares commit volume between the first and second halves of
// the week sequence. Sequences shorter than MinGrowthWeeks, or with an
// empty first half, yield zero; the latter masks a true infinite-growth
// case and is documented behavior.
func growthRate(sorted []schema.WeeklyAggregate) float64 {
	if len(sorted) < MinGrowthWeeks {
		return 0
	}

	// Odd-length sequences give the extra week to the second half.
	mid := len(sorted) / 2
	firstHalf, secondHalf := 0, 0
	for _, w := range sorted[:mid] {
		firstHalf += w.Commits
	}
	for _, w := range sorted[mid:] {
		secondHalf += w.Commits
	}
	if firstHalf == 0 {
		return 0
	}
	return schema.Round2(float64(secondHalf-firstHalf) / float64(firstHalf))
}

// MostConsistent ranks contributors by the number of distinct weeks with
// nonzero commits, capped at limit. Ties are broken by total commits
// descending, then author name ascending.
func MostConsistent(weeks []schema.WeeklyAggregate, limit int) []schema.ConsistencyEntry {
	byAuthor := make(map[string]*schema.ConsistencyEntry)
	for _, w := range weeks {
		for author, commits := range w.Contributors {
			if commits == 0 {
				continue
			}
			entry, ok := byAuthor[author]
			if !ok {
				entry = &schema.ConsistencyEntry{Author: author}
				byAuthor[author] = entry
			}
			entry.WeeksActive++
			entry.Commits += commits
		}
	}

	entries := make([]schema.ConsistencyEntry, 0, len(byAuthor))
	for _, entry := range byAuthor {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WeeksActive != entries[j].WeeksActive {
			return entries[i].WeeksActive > entries[j].WeeksActive
		}
		if entries[i].Commits != entries[j].Commits {
			return entries[i].Commits > entries[j].Commits
		}
		return entries[i].Author < entries[j].Author
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Concentration reports, for each cumulative commit share threshold, the
// smallest number of top contributors whose commits reach that share.
func Concentration(records []schema.AuthorStats, thresholds []int) []schema.ConcentrationLevel {
	total := 0
	for _, rec := range records {
		total += rec.Commits
	}
	if total == 0 {
		return nil
	}

	sorted := append([]schema.AuthorStats(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Commits != sorted[j].Commits {
			return sorted[i].Commits > sorted[j].Commits
		}
		return sorted[i].Author < sorted[j].Author
	})

	levels := make([]schema.ConcentrationLevel, 0, len(thresholds))
	for _, threshold := range thresholds {
		cumulative := 0
		count := 0
		for _, rec := range sorted {
			cumulative += rec.Commits
			count++
			if cumulative*100 >= threshold*total {
				break
			}
		}
		levels = append(levels, schema.ConcentrationLevel{
			Threshold:    threshold,
			Contributors: count,
		})
	}
	return levels
}
