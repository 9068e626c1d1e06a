package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), "out.txt"),
		Precision:    2,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func sampleContributorReport() *schema.ContributorReport {
	return &schema.ContributorReport{
		Repo:         "acme/widgets",
		Kind:         schema.CommitsReport,
		Weeks:        26,
		TotalCommits: 15,
		Rows: []schema.ContributorRow{
			{
				Rank:        1,
				Label:       "Low",
				Share:       80,
				ActiveWeeks: 2,
				AvgPerWeek:  6,
				NetLines:    260,
				AuthorStats: schema.AuthorStats{
					Author:          "alice",
					OriginalAuthors: []string{"alice", "alice-work"},
					Commits:         12,
					Additions:       300,
					Deletions:       40,
					Weeks: []schema.WeekStat{
						{Week: "2024-02-26", Commits: 5},
						{Week: "2024-03-04", Commits: 7},
					},
				},
			},
			{
				Rank:        2,
				Label:       "Low",
				Share:       20,
				ActiveWeeks: 1,
				AvgPerWeek:  3,
				NetLines:    10,
				AuthorStats: schema.AuthorStats{
					Author:  "bob",
					Commits: 3,
					Weeks:   []schema.WeekStat{{Week: "2024-03-04", Commits: 3}},
				},
			},
		},
		Concentration: []schema.ConcentrationLevel{
			{Threshold: 50, Contributors: 1},
			{Threshold: 80, Contributors: 1},
			{Threshold: 90, Contributors: 2},
		},
		Volume: schema.VolumeDistribution{Low: 2},
	}
}

func TestPrintContributorReportTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	err := PrintContributorReport(sampleContributorReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "alice (alice, alice-work)")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Total commits: 15 across 2 contributors")
	assert.Contains(t, out, "50% of commits come from 1 contributor(s)")
	assert.Contains(t, out, "Volume bands: 0 high, 0 moderate, 2 low")
}

func TestPrintContributorReportCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	err := PrintContributorReport(sampleContributorReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,author,original_authors,commits,additions,deletions,net_lines,active_weeks,avg_per_week,share,label", lines[0])
	assert.Equal(t, "1,alice,alice|alice-work,12,300,40,260,2,6.00,80.00,Low", lines[1])
	assert.Equal(t, "2,bob,,3,0,0,10,1,3.00,20.00,Low", lines[2])
}

func TestPrintContributorReportJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	err := PrintContributorReport(sampleContributorReport(), cfg, time.Second)
	require.NoError(t, err)

	var decoded schema.ContributorReport
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, "acme/widgets", decoded.Repo)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "alice", decoded.Rows[0].Author)
}

func TestPrintContributorReportMarkdown(t *testing.T) {
	cfg := testConfig(t, schema.MarkdownOut)
	err := PrintContributorReport(sampleContributorReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "# Contributor report for acme/widgets (26 weeks)")
	assert.Contains(t, out, "| Rank | Author | Commits |")
	assert.Contains(t, out, "| --- |")
	assert.Contains(t, out, "| 1 | alice (alice, alice-work) |")
}

func sampleWeeklyReport() *schema.WeeklyTrendReport {
	return &schema.WeeklyTrendReport{
		Repo: "acme/widgets",
		Weeks: []schema.WeeklyAggregate{
			{
				Week:             "2024-02-26",
				Commits:          5,
				Additions:        100,
				Deletions:        20,
				Contributors:     map[string]int{"alice": 5},
				ContributorCount: 1,
				TopContributor:   "alice",
				AvgCommits:       5,
			},
			{
				Week:             "2024-03-04",
				Commits:          10,
				Additions:        220,
				Deletions:        10,
				Contributors:     map[string]int{"alice": 7, "bob": 3},
				ContributorCount: 2,
				TopContributor:   "alice",
				AvgCommits:       5,
			},
		},
		Trend: schema.TrendSummary{
			WeekCount:      2,
			FirstWeek:      "2024-02-26",
			LastWeek:       "2024-03-04",
			TotalCommits:   15,
			TotalAdditions: 320,
			TotalDeletions: 30,
			AvgCommits:     7.5,
			PeakWeek:       "2024-03-04",
			PeakCommits:    10,
			GrowthRate:     1.0,
			MostConsistent: []schema.ConsistencyEntry{
				{Author: "alice", WeeksActive: 2, Commits: 12},
			},
		},
	}
}

func TestPrintWeeklyReportTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	err := PrintWeeklyReport(sampleWeeklyReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "2024-02-26")
	assert.Contains(t, out, "Peak week: 2024-03-04 with 10 commits")
	assert.Contains(t, out, "Growth rate: +100%")
	assert.Contains(t, out, "1. alice: 2 weeks active, 12 commits")
}

func TestPrintWeeklyReportCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	err := PrintWeeklyReport(sampleWeeklyReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "week,commits,additions,deletions,contributor_count,top_contributor,avg_commits", lines[0])
	assert.Equal(t, "2024-02-26,5,100,20,1,alice,5.00", lines[1])
}

func sampleDayReport() *schema.DayReport {
	days := func(mon, tue int) map[string]schema.DayBucket {
		out := make(map[string]schema.DayBucket, len(schema.DayNames))
		for _, day := range schema.DayNames {
			out[day] = schema.DayBucket{}
		}
		out["Monday"] = schema.DayBucket{Commits: mon}
		out["Tuesday"] = schema.DayBucket{Commits: tue}
		return out
	}
	return &schema.DayReport{
		Repo:  "acme/widgets",
		Weeks: 26,
		Authors: []schema.AuthorDayStats{
			{Author: "alice", Days: days(5, 7), Commits: 12},
			{Author: "bob", Days: days(3, 0), Commits: 3},
		},
		Totals: map[string]schema.DayBucket{
			"Monday":  {Commits: 8},
			"Tuesday": {Commits: 7},
		},
	}
}

func TestPrintDayReportTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	err := PrintDayReport(sampleDayReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "All")
}

func TestPrintDayReportCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	err := PrintDayReport(sampleDayReport(), cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "author,monday,tuesday,wednesday,thursday,friday,saturday,sunday,total", lines[0])
	assert.Equal(t, "alice,5,7,0,0,0,0,0,12", lines[1])
}

func TestPrintDayReportWithPRSections(t *testing.T) {
	report := sampleDayReport()
	report.Authors[0].PRs = &schema.PRSummary{
		Author: "alice",
		Events: map[schema.PREvent]schema.PREventStats{
			schema.PROpened: {Count: 4, ByDay: map[string]int{"Monday": 3, "Friday": 1}},
			schema.PRMerged: {Count: 0, ByDay: map[string]int{}},
		},
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintDayReport(report, cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Pull requests for alice:")
	assert.Contains(t, out, "opened: 4 (busiest: Monday)")
	assert.Contains(t, out, "merged: 0")
	assert.NotContains(t, out, "merged: 0 (busiest")
}

func TestPrintPRSummaryTable(t *testing.T) {
	summary := &schema.PRSummary{
		Author: "alice",
		Events: map[schema.PREvent]schema.PREventStats{
			schema.PROpened:   {Count: 4, ByDay: map[string]int{"Monday": 3, "Friday": 1}},
			schema.PRMerged:   {Count: 2, ByDay: map[string]int{"Tuesday": 2}},
			schema.PRReviewed: {Count: 1, ByDay: map[string]int{"Sunday": 1}},
		},
	}

	cfg := testConfig(t, schema.TextOut)
	err := PrintPRSummary(summary, cfg, time.Second)
	require.NoError(t, err)

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Pull request activity for alice")
	assert.Contains(t, out, "opened")
	assert.Contains(t, out, "merged")
	assert.Contains(t, out, "reviewed")
}

func TestWriteMarkdownTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeMarkdownTable(&buf, []string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	expected := "| A | B |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |\n"
	assert.Equal(t, expected, buf.String())
}

func TestBusiestDay(t *testing.T) {
	assert.Equal(t, "Monday", busiestDay(map[string]int{"Monday": 3, "Friday": 1}))
	assert.Equal(t, "Monday", busiestDay(map[string]int{"Monday": 2, "Friday": 2}))
	assert.Equal(t, "none", busiestDay(map[string]int{}))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  int
	}{
		{"narrow terminal clamps to minimum", 40, 12},
		{"wide terminal clamps to maximum", 200, 50},
		{"mid terminal uses available space", 100, 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tc.width}
			assert.Equal(t, tc.want, GetMaxTableNameWidth(cfg))
		})
	}
}
