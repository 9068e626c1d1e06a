package agg

import (
	"testing"
	"time"

	"github.com/huangsam/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Week start timestamps, all midnight UTC.
const (
	tsMonday  = int64(1704096000) // 2024-01-01
	tsTuesday = int64(1704182400) // 2024-01-02
	tsSunday  = int64(1704614400) // 2024-01-07
)

func weekRecord(author string, ts int64, commits, additions, deletions int) schema.WeekRecord {
	return schema.WeekRecord{
		Author:    author,
		WeekStart: time.Unix(ts, 0).UTC(),
		Commits:   commits,
		Additions: additions,
		Deletions: deletions,
	}
}

func TestDayName(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"monday", tsMonday, "Monday"},
		{"tuesday", tsTuesday, "Tuesday"},
		{"sunday", tsSunday, "Sunday"},
		{"zero", 0, schema.DayUnknown},
		{"negative", -5, schema.DayUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayName(tt.ts))
		})
	}
}

func TestNormalizeDropsZeroCommitWeeks(t *testing.T) {
	stats := []schema.RawContributorStats{
		{Author: "alice", Weeks: []schema.RawWeek{
			{Week: tsMonday, Commits: 3, Additions: 30, Deletions: 3},
			{Week: tsTuesday, Commits: 0, Additions: 99, Deletions: 99},
		}},
	}

	records := Normalize(stats, 0, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Author)
	assert.Equal(t, 3, records[0].Commits)
	assert.True(t, records[0].WeekStart.Equal(time.Unix(tsMonday, 0).UTC()))
}

func TestNormalizeBoundsToRecentWeeks(t *testing.T) {
	weeks := make([]schema.RawWeek, 10)
	for i := range weeks {
		weeks[i] = schema.RawWeek{Week: tsMonday + int64(i)*7*86400, Commits: 1}
	}
	stats := []schema.RawContributorStats{{Author: "alice", Weeks: weeks}}

	records := Normalize(stats, 4, nil)
	require.Len(t, records, 4)
	// The most recent entries survive the bound.
	assert.True(t, records[0].WeekStart.Equal(time.Unix(tsMonday+6*7*86400, 0).UTC()))
}

func TestNormalizeSkipsExcludedAuthors(t *testing.T) {
	stats := []schema.RawContributorStats{
		{Author: "alice", Weeks: []schema.RawWeek{{Week: tsMonday, Commits: 1}}},
		{Author: "github-actions[bot]", Weeks: []schema.RawWeek{{Week: tsMonday, Commits: 50}}},
	}

	records := Normalize(stats, 0, schema.DefaultBotAuthors)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Author)
}

func TestNormalizeDropsUnplaceableWeeks(t *testing.T) {
	stats := []schema.RawContributorStats{
		{Author: "alice", Weeks: []schema.RawWeek{{Week: 0, Commits: 5}}},
	}
	assert.Empty(t, Normalize(stats, 0, nil))
}

func TestAuthorStatsFromRaw(t *testing.T) {
	stats := []schema.RawContributorStats{
		{Author: "alice", Weeks: []schema.RawWeek{
			{Week: tsSunday, Commits: 2, Additions: 20, Deletions: 2},
			{Week: tsMonday, Commits: 3, Additions: 30, Deletions: 3},
		}},
		{Author: "bob", Weeks: []schema.RawWeek{
			{Week: tsMonday, Commits: 1, Additions: 10, Deletions: 1},
		}},
	}

	out := AuthorStatsFromRaw(stats, 0, nil)
	require.Len(t, out, 2)

	alice := out[0]
	assert.Equal(t, "alice", alice.Author)
	assert.Equal(t, 5, alice.Commits)
	assert.Equal(t, 50, alice.Additions)
	assert.Equal(t, 5, alice.Deletions)
	require.Len(t, alice.Weeks, 2)
	assert.Equal(t, "2024-01-01", alice.Weeks[0].Week)
	assert.Equal(t, "2024-01-07", alice.Weeks[1].Week)
}

func TestFoldAuthorWeekSorted(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("alice", tsSunday, 2, 0, 0),
		weekRecord("alice", tsMonday, 3, 0, 0),
		weekRecord("bob", tsMonday, 1, 0, 0),
	}

	byAuthor := FoldAuthorWeek(records)
	require.Len(t, byAuthor, 2)
	require.Len(t, byAuthor["alice"], 2)
	assert.Equal(t, "2024-01-01", byAuthor["alice"][0].Week)
	assert.Equal(t, "2024-01-07", byAuthor["alice"][1].Week)
}

func TestFoldWeekly(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("alice", tsMonday, 3, 30, 3),
		weekRecord("bob", tsMonday, 5, 50, 5),
		weekRecord("alice", tsSunday, 2, 20, 2),
	}

	weeks := FoldWeekly(records)
	require.Len(t, weeks, 2)

	first := weeks[0]
	assert.Equal(t, "2024-01-01", first.Week)
	assert.Equal(t, 8, first.Commits)
	assert.Equal(t, 80, first.Additions)
	assert.Equal(t, 2, first.ContributorCount)
	assert.Equal(t, "bob", first.TopContributor)
	assert.InDelta(t, 4.0, first.AvgCommits, 0.0001)

	second := weeks[1]
	assert.Equal(t, "2024-01-07", second.Week)
	assert.Equal(t, "alice", second.TopContributor)
	assert.Equal(t, 1, second.ContributorCount)
}

func TestFoldWeeklyTopContributorTie(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("zed", tsMonday, 5, 0, 0),
		weekRecord("alice", tsMonday, 5, 0, 0),
	}

	weeks := FoldWeekly(records)
	require.Len(t, weeks, 1)
	// First to reach the maximum in input order wins ties.
	assert.Equal(t, "zed", weeks[0].TopContributor)
}

func TestFoldWeeklyAvgRounding(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("a", tsMonday, 1, 0, 0),
		weekRecord("b", tsMonday, 1, 0, 0),
		weekRecord("c", tsMonday, 2, 0, 0),
	}

	weeks := FoldWeekly(records)
	require.Len(t, weeks, 1)
	assert.InDelta(t, 1.33, weeks[0].AvgCommits, 0.0001)
}

func TestFoldWeeklyEmpty(t *testing.T) {
	assert.Empty(t, FoldWeekly(nil))
}

func TestFoldAuthorDaysShape(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("alice", tsMonday, 3, 30, 3),
		weekRecord("alice", tsSunday, 2, 20, 2),
	}

	byAuthor := FoldAuthorDays(records)
	require.Len(t, byAuthor, 1)
	days := byAuthor["alice"]

	// All seven buckets are always present, zero-filled.
	require.Len(t, days, 7)
	for _, name := range schema.DayNames {
		assert.Contains(t, days, name)
	}
	assert.Equal(t, 3, days["Monday"].Commits)
	assert.Equal(t, 2, days["Sunday"].Commits)
	assert.Equal(t, 0, days["Friday"].Commits)
}

func TestFoldDaysConservation(t *testing.T) {
	records := []schema.WeekRecord{
		weekRecord("alice", tsMonday, 3, 30, 3),
		weekRecord("bob", tsMonday, 5, 50, 5),
		weekRecord("alice", tsTuesday, 1, 10, 1),
		weekRecord("carol", tsSunday, 7, 70, 7),
	}

	days := FoldDays(records)
	require.Len(t, days, 7)

	inputCommits := 0
	for _, rec := range records {
		inputCommits += rec.Commits
	}
	bucketCommits := 0
	for _, bucket := range days {
		assert.GreaterOrEqual(t, bucket.Commits, 0)
		bucketCommits += bucket.Commits
	}
	assert.Equal(t, inputCommits, bucketCommits)
}

func TestFoldDaysEmpty(t *testing.T) {
	days := FoldDays(nil)
	require.Len(t, days, 7)
	for _, bucket := range days {
		assert.Zero(t, bucket.Commits)
	}
}
