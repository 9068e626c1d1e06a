// Package agg normalizes raw contributor stats and folds them into
// per-author, per-week and per-day-of-week views.
//
// All folds are associative sums over the (commits, additions, deletions)
// triple, so totals are conserved under any grouping.
package agg

import (
	"sort"
	"time"

	"github.com/huangsam/pulse/schema"
)

// WeekKeyLayout formats a week start date as its ISO date string.
const WeekKeyLayout = "2006-01-02"

// WeekKey returns the ISO date key for a week start.
func WeekKey(t time.Time) string {
	return t.UTC().Format(WeekKeyLayout)
}

// DayName maps a Unix timestamp to its UTC weekday name, Monday first.
// Timestamps at or below zero map to DayUnknown.
func DayName(ts int64) string {
	if ts <= 0 {
		return schema.DayUnknown
	}
	t := time.Unix(ts, 0).UTC()
	// time.Weekday starts on Sunday; display order starts on Monday.
	return schema.DayNames[(int(t.Weekday())+6)%7]
}

// Normalize flattens raw contributor stats into WeekRecords. Only the most
// recent maxWeeks entries per contributor are kept (all when maxWeeks <= 0),
// zero-commit weeks are dropped, and excluded usernames are skipped.
// Conversion is UTC throughout; entries without a usable timestamp are
// dropped since they cannot be placed on the calendar.
func Normalize(stats []schema.RawContributorStats, maxWeeks int, excluded []string) []schema.WeekRecord {
	var records []schema.WeekRecord
	for _, contributor := range stats {
		if schema.IsBotAuthor(contributor.Author, excluded) {
			continue
		}
		weeks := contributor.Weeks
		if maxWeeks > 0 && len(weeks) > maxWeeks {
			weeks = weeks[len(weeks)-maxWeeks:]
		}
		for _, w := range weeks {
			if w.Commits == 0 || w.Week <= 0 {
				continue
			}
			records = append(records, schema.WeekRecord{
				Author:    contributor.Author,
				WeekStart: time.Unix(w.Week, 0).UTC(),
				Commits:   w.Commits,
				Additions: w.Additions,
				Deletions: w.Deletions,
			})
		}
	}
	return records
}

// AuthorStatsFromRaw builds one AuthorStats record per contributor from the
// normalized record stream, with the per-week breakdown embedded. Records
// still carry raw usernames; callers merge them through ident.
func AuthorStatsFromRaw(stats []schema.RawContributorStats, maxWeeks int, excluded []string) []schema.AuthorStats {
	records := Normalize(stats, maxWeeks, excluded)

	byAuthor := make(map[string]*schema.AuthorStats)
	var order []string
	for _, rec := range records {
		entry, ok := byAuthor[rec.Author]
		if !ok {
			entry = &schema.AuthorStats{Author: rec.Author}
			byAuthor[rec.Author] = entry
			order = append(order, rec.Author)
		}
		entry.Commits += rec.Commits
		entry.Additions += rec.Additions
		entry.Deletions += rec.Deletions
		entry.Weeks = append(entry.Weeks, schema.WeekStat{
			Week:      WeekKey(rec.WeekStart),
			Commits:   rec.Commits,
			Additions: rec.Additions,
			Deletions: rec.Deletions,
		})
	}

	out := make([]schema.AuthorStats, 0, len(order))
	for _, author := range order {
		entry := byAuthor[author]
		sort.Slice(entry.Weeks, func(i, j int) bool {
			return entry.Weeks[i].Week < entry.Weeks[j].Week
		})
		out = append(out, *entry)
	}
	return out
}

// FoldAuthorWeek groups records by author with per-week stats sorted
// ascending by week key.
func FoldAuthorWeek(records []schema.WeekRecord) map[string][]schema.WeekStat {
	byAuthor := make(map[string][]schema.WeekStat)
	for _, rec := range records {
		byAuthor[rec.Author] = append(byAuthor[rec.Author], schema.WeekStat{
			Week:      WeekKey(rec.WeekStart),
			Commits:   rec.Commits,
			Additions: rec.Additions,
			Deletions: rec.Deletions,
		})
	}
	for author := range byAuthor {
		weeks := byAuthor[author]
		sort.Slice(weeks, func(i, j int) bool { return weeks[i].Week < weeks[j].Week })
	}
	return byAuthor
}

// FoldWeekly rolls records up per calendar week across authors, sorted
// ascending by week key. Weeks whose cross-author commit sum is zero are
// dropped after the fold, not per record. The top contributor is the first
// one to reach the week's maximum commits in input order.
func FoldWeekly(records []schema.WeekRecord) []schema.WeeklyAggregate {
	byWeek := make(map[string]*schema.WeeklyAggregate)
	for _, rec := range records {
		key := WeekKey(rec.WeekStart)
		week, ok := byWeek[key]
		if !ok {
			week = &schema.WeeklyAggregate{
				Week:         key,
				Contributors: make(map[string]int),
			}
			byWeek[key] = week
		}
		week.Commits += rec.Commits
		week.Additions += rec.Additions
		week.Deletions += rec.Deletions
		week.Contributors[rec.Author] += rec.Commits
		if week.Contributors[rec.Author] > week.Contributors[week.TopContributor] || week.TopContributor == "" {
			week.TopContributor = rec.Author
		}
	}

	keys := make([]string, 0, len(byWeek))
	for k, week := range byWeek {
		if week.Commits == 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]schema.WeeklyAggregate, 0, len(keys))
	for _, k := range keys {
		week := byWeek[k]
		week.ContributorCount = len(week.Contributors)
		if week.ContributorCount > 0 {
			week.AvgCommits = schema.Round2(float64(week.Commits) / float64(week.ContributorCount))
		}
		out = append(out, *week)
	}
	return out
}

// FoldAuthorDays buckets records per author by UTC weekday of the week
// start. Every author gets all seven weekday buckets, zero-filled.
func FoldAuthorDays(records []schema.WeekRecord) map[string]map[string]schema.DayBucket {
	byAuthor := make(map[string]map[string]schema.DayBucket)
	for _, rec := range records {
		day := DayName(rec.WeekStart.Unix())
		if day == schema.DayUnknown {
			continue
		}
		days, ok := byAuthor[rec.Author]
		if !ok {
			days = emptyDayBuckets()
			byAuthor[rec.Author] = days
		}
		bucket := days[day]
		bucket.Commits += rec.Commits
		bucket.Additions += rec.Additions
		bucket.Deletions += rec.Deletions
		days[day] = bucket
	}
	return byAuthor
}

// FoldDays buckets records by UTC weekday across all authors. The result
// always has exactly seven keys.
func FoldDays(records []schema.WeekRecord) map[string]schema.DayBucket {
	days := emptyDayBuckets()
	for _, rec := range records {
		day := DayName(rec.WeekStart.Unix())
		if day == schema.DayUnknown {
			continue
		}
		bucket := days[day]
		bucket.Commits += rec.Commits
		bucket.Additions += rec.Additions
		bucket.Deletions += rec.Deletions
		days[day] = bucket
	}
	return days
}

func emptyDayBuckets() map[string]schema.DayBucket {
	days := make(map[string]schema.DayBucket, len(schema.DayNames))
	for _, name := range schema.DayNames {
		days[name] = schema.DayBucket{}
	}
	return days
}
