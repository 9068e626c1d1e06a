package trend

import (
	"testing"

	"github.com/huangsam/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func week(key string, commits int, contributors map[string]int) schema.WeeklyAggregate {
	return schema.WeeklyAggregate{
		Week:         key,
		Commits:      commits,
		Contributors: contributors,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.WeekCount)
	assert.Zero(t, summary.TotalCommits)
	assert.Empty(t, summary.PeakWeek)
	assert.Zero(t, summary.GrowthRate)
}

func TestSummarizeTotals(t *testing.T) {
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-14", Commits: 20, Additions: 200, Deletions: 20},
		{Week: "2024-01-07", Commits: 10, Additions: 100, Deletions: 10},
	}

	summary := Summarize(weeks)
	assert.Equal(t, 2, summary.WeekCount)
	assert.Equal(t, "2024-01-07", summary.FirstWeek)
	assert.Equal(t, "2024-01-14", summary.LastWeek)
	assert.Equal(t, 30, summary.TotalCommits)
	assert.Equal(t, 300, summary.TotalAdditions)
	assert.InDelta(t, 15.0, summary.AvgCommits, 0.0001)
}

func TestPeakWeekEarliestWins(t *testing.T) {
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-21", Commits: 20},
		{Week: "2024-01-07", Commits: 20},
		{Week: "2024-01-14", Commits: 5},
	}

	summary := Summarize(weeks)
	assert.Equal(t, "2024-01-07", summary.PeakWeek)
	assert.Equal(t, 20, summary.PeakCommits)
}

func TestGrowthRateScenario(t *testing.T) {
	// Halves [10, 20] and [5, 100]: (105-30)/30 = 2.5.
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-07", Commits: 10},
		{Week: "2024-01-14", Commits: 20},
		{Week: "2024-01-21", Commits: 5},
		{Week: "2024-01-28", Commits: 100},
	}

	summary := Summarize(weeks)
	assert.InDelta(t, 2.5, summary.GrowthRate, 0.0001)
}

func TestGrowthRateShortSequence(t *testing.T) {
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-07", Commits: 10},
		{Week: "2024-01-14", Commits: 20},
		{Week: "2024-01-21", Commits: 30},
	}
	assert.Zero(t, Summarize(weeks).GrowthRate)
}

func TestGrowthRateZeroFirstHalf(t *testing.T) {
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-07", Commits: 0},
		{Week: "2024-01-14", Commits: 0},
		{Week: "2024-01-21", Commits: 30},
		{Week: "2024-01-28", Commits: 40},
	}
	assert.Zero(t, Summarize(weeks).GrowthRate)
}

func TestGrowthRateOddLength(t *testing.T) {
	// Floor split: first half [10, 10], second half [10, 10, 20].
	weeks := []schema.WeeklyAggregate{
		{Week: "2024-01-07", Commits: 10},
		{Week: "2024-01-14", Commits: 10},
		{Week: "2024-01-21", Commits: 10},
		{Week: "2024-01-28", Commits: 10},
		{Week: "2024-02-04", Commits: 20},
	}
	assert.InDelta(t, 1.0, Summarize(weeks).GrowthRate, 0.0001)
}

func TestMostConsistent(t *testing.T) {
	weeks := []schema.WeeklyAggregate{
		week("2024-01-07", 12, map[string]int{"alice": 5, "bob": 7}),
		week("2024-01-14", 8, map[string]int{"alice": 3, "carol": 5}),
		week("2024-01-21", 2, map[string]int{"alice": 2, "bob": 0}),
	}

	entries := MostConsistent(weeks, DefaultConsistencyLimit)
	require.Len(t, entries, 3)
	assert.Equal(t, "alice", entries[0].Author)
	assert.Equal(t, 3, entries[0].WeeksActive)
	assert.Equal(t, 10, entries[0].Commits)
	// bob and carol both have one active week; bob has more commits.
	assert.Equal(t, "bob", entries[1].Author)
	assert.Equal(t, "carol", entries[2].Author)
}

func TestMostConsistentLimit(t *testing.T) {
	contributors := map[string]int{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1}
	weeks := []schema.WeeklyAggregate{week("2024-01-07", 6, contributors)}

	entries := MostConsistent(weeks, DefaultConsistencyLimit)
	assert.Len(t, entries, 5)
}

func TestMostConsistentEmptyContributors(t *testing.T) {
	weeks := []schema.WeeklyAggregate{week("2024-01-07", 0, map[string]int{})}
	assert.Empty(t, MostConsistent(weeks, DefaultConsistencyLimit))
}

func TestConcentration(t *testing.T) {
	records := []schema.AuthorStats{
		{Author: "alice", Commits: 60},
		{Author: "bob", Commits: 25},
		{Author: "carol", Commits: 10},
		{Author: "dave", Commits: 5},
	}

	levels := Concentration(records, DefaultConcentrationThresholds)
	require.Len(t, levels, 3)
	assert.Equal(t, schema.ConcentrationLevel{Threshold: 50, Contributors: 1}, levels[0])
	assert.Equal(t, schema.ConcentrationLevel{Threshold: 80, Contributors: 2}, levels[1])
	assert.Equal(t, schema.ConcentrationLevel{Threshold: 90, Contributors: 3}, levels[2])
}

func TestConcentrationNoCommits(t *testing.T) {
	records := []schema.AuthorStats{{Author: "alice", Commits: 0}}
	assert.Nil(t, Concentration(records, DefaultConcentrationThresholds))
}
