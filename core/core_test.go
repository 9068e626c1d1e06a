package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/pulse/core/ident"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/internal/iocache"
	"github.com/huangsam/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig returns a config pointed at a fake repository with the
// aliases file out of the way.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Owner:       "golang",
		Repo:        "go",
		Weeks:       26,
		ResultLimit: 25,
		AliasesFile: t.TempDir() + "/aliases.json",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// sampleMerged builds two already-merged author records.
func sampleMerged() []schema.AuthorStats {
	return []schema.AuthorStats{
		{
			Author:    "alice",
			Commits:   12,
			Additions: 300,
			Deletions: 40,
			Weeks: []schema.WeekStat{
				{Week: "2024-03-03", Commits: 8, Additions: 200, Deletions: 30},
				{Week: "2024-03-10", Commits: 4, Additions: 100, Deletions: 10},
			},
		},
		{
			Author:    "bob",
			Commits:   3,
			Additions: 500,
			Deletions: 5,
			Weeks: []schema.WeekStat{
				{Week: "2024-03-03", Commits: 3, Additions: 500, Deletions: 5},
			},
		},
	}
}

// sampleRawStats builds the wire shape for the same two authors.
func sampleRawStats() []schema.RawContributorStats {
	sunday := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC).Unix()
	nextSunday := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Unix()
	return []schema.RawContributorStats{
		{
			Author: "alice",
			Total:  12,
			Weeks: []schema.RawWeek{
				{Week: sunday, Commits: 8, Additions: 200, Deletions: 30},
				{Week: nextSunday, Commits: 4, Additions: 100, Deletions: 10},
			},
		},
		{
			Author: "bob",
			Total:  3,
			Weeks: []schema.RawWeek{
				{Week: sunday, Commits: 3, Additions: 500, Deletions: 5},
			},
		},
	}
}

func TestBuildContributorReport(t *testing.T) {
	cfg := testConfig(t)
	report := buildContributorReport(cfg, schema.CommitsReport, sampleMerged())

	assert.Equal(t, "golang/go", report.Repo)
	assert.Equal(t, schema.CommitsReport, report.Kind)
	assert.Equal(t, 15, report.TotalCommits)
	require.Len(t, report.Rows, 2)

	top := report.Rows[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "alice", top.Author)
	assert.Equal(t, 80.0, top.Share)
	assert.Equal(t, 2, top.ActiveWeeks)
	assert.Equal(t, 6.0, top.AvgPerWeek)
	assert.Equal(t, 260, top.NetLines)
	assert.Equal(t, "Low", top.Label)

	assert.Equal(t, 2, report.Rows[1].Rank)
	assert.Equal(t, "bob", report.Rows[1].Author)

	assert.Equal(t, schema.VolumeDistribution{Low: 2}, report.Volume)
	assert.NotEmpty(t, report.Concentration)
}

func TestRankAuthors(t *testing.T) {
	merged := sampleMerged()

	byCommits := rankAuthors(merged, schema.CommitsReport, 0)
	assert.Equal(t, "alice", byCommits[0].Author)

	byLines := rankAuthors(merged, schema.LinesReport, 0)
	assert.Equal(t, "bob", byLines[0].Author)

	capped := rankAuthors(merged, schema.CommitsReport, 1)
	assert.Len(t, capped, 1)

	// Equal metrics break ties by author name
	tied := []schema.AuthorStats{
		{Author: "zoe", Commits: 5},
		{Author: "amy", Commits: 5},
	}
	ranked := rankAuthors(tied, schema.CommitsReport, 0)
	assert.Equal(t, "amy", ranked[0].Author)
}

func TestBuildDayReport(t *testing.T) {
	cfg := testConfig(t)
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	records := []schema.WeekRecord{
		{Author: "alice", WeekStart: monday, Commits: 8, Additions: 200, Deletions: 30},
		{Author: "alice", WeekStart: friday, Commits: 4, Additions: 100, Deletions: 10},
		{Author: "bob", WeekStart: monday, Commits: 3, Additions: 500, Deletions: 5},
	}

	report := buildDayReport(cfg, records, sampleMerged())

	assert.Equal(t, "golang/go", report.Repo)
	require.Len(t, report.Authors, 2)
	assert.Equal(t, "alice", report.Authors[0].Author)
	assert.Equal(t, 12, report.Authors[0].Commits)
	assert.Equal(t, 8, report.Authors[0].Days["Monday"].Commits)
	assert.Equal(t, 4, report.Authors[0].Days["Friday"].Commits)
	assert.Equal(t, 11, report.Totals["Monday"].Commits)

	// The limit caps the per-author rows, not the totals
	cfg.ResultLimit = 1
	report = buildDayReport(cfg, records, sampleMerged())
	assert.Len(t, report.Authors, 1)
	assert.Equal(t, 11, report.Totals["Monday"].Commits)
}

func TestCachedContributorStatsMiss(t *testing.T) {
	cfg := testConfig(t)
	raw := sampleRawStats()

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").Return(raw, nil).Once()

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), 0, int64(0), errors.New("no rows")).Once()
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetCacheStore").Return(store)

	result, err := cachedContributorStats(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, raw, result)
	client.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCachedContributorStatsHit(t *testing.T) {
	cfg := testConfig(t)
	raw := sampleRawStats()
	payload, err := json.Marshal(raw)
	require.NoError(t, err)

	client := &contract.MockGitHubClient{}

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(payload, currentCacheVersion, time.Now().Unix(), nil).Once()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetCacheStore").Return(store)

	result, err := cachedContributorStats(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, raw, result)
	client.AssertNotCalled(t, "ContributorStats", mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestCachedContributorStatsStale(t *testing.T) {
	cfg := testConfig(t)
	raw := sampleRawStats()
	payload, err := json.Marshal(raw)
	require.NoError(t, err)

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").Return(raw, nil).Once()

	staleTS := time.Now().Add(-2 * cacheMaxAge).Unix()
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(payload, currentCacheVersion, staleTS, nil).Once()
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetCacheStore").Return(store)

	result, err := cachedContributorStats(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, raw, result)
	client.AssertExpectations(t)
}

func TestCachedContributorStatsNoManager(t *testing.T) {
	cfg := testConfig(t)
	raw := sampleRawStats()

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").Return(raw, nil).Once()

	result, err := cachedContributorStats(context.Background(), cfg, client, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, result)
	client.AssertExpectations(t)
}

func TestRecordRun(t *testing.T) {
	cfg := testConfig(t)
	merged := sampleMerged()

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "golang/go", schema.CommitsReport, mock.Anything, 26).Return(int64(7), nil).Once()
	history.On("RecordAuthor", int64(7), mock.Anything).Return(nil).Twice()
	history.On("CompleteRun", int64(7), 2, 15).Return(nil).Once()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	recordRun(mgr, cfg, schema.CommitsReport, merged)
	history.AssertExpectations(t)
}

func TestRecordRunBeginFailure(t *testing.T) {
	cfg := testConfig(t)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("db down")).Once()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	// A history failure must never fail or panic the report path
	recordRun(mgr, cfg, schema.CommitsReport, sampleMerged())
	history.AssertNotCalled(t, "RecordAuthor", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "CompleteRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectPRMetrics(t *testing.T) {
	cfg := testConfig(t)
	resolver := ident.NewResolver(map[string][]string{"alice": {"alice-corp"}})

	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	friday := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)

	client := &contract.MockGitHubClient{}
	// The canonical name and its alias are queried separately and summed.
	client.On("SearchPullRequests", mock.Anything, mock.MatchedBy(func(q string) bool {
		return strings.Contains(q, "alice-corp")
	})).Return([]schema.PRItem{
		{Number: 2, CreatedAt: friday, ClosedAt: friday},
	}, nil)
	client.On("SearchPullRequests", mock.Anything, mock.Anything).Return([]schema.PRItem{
		{Number: 1, CreatedAt: monday, ClosedAt: monday},
	}, nil)

	summary := CollectPRMetrics(context.Background(), cfg, client, resolver, "alice-corp")

	assert.Equal(t, "alice", summary.Author)
	opened := summary.Events[schema.PROpened]
	assert.Equal(t, 2, opened.Count)
	assert.Equal(t, 1, opened.ByDay["Monday"])
	assert.Equal(t, 1, opened.ByDay["Friday"])
	assert.Equal(t, 0, opened.ByDay["Sunday"])

	// Merged PRs bucket on the close date
	merged := summary.Events[schema.PRMerged]
	assert.Equal(t, 2, merged.Count)
}

func TestCollectPRMetricsAliasFailure(t *testing.T) {
	cfg := testConfig(t)
	resolver := ident.NewResolver(map[string][]string{"alice": {"alice-corp"}})

	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)

	client := &contract.MockGitHubClient{}
	client.On("SearchPullRequests", mock.Anything, mock.MatchedBy(func(q string) bool {
		return strings.Contains(q, "alice-corp")
	})).Return([]schema.PRItem(nil), errors.New("rate limited"))
	client.On("SearchPullRequests", mock.Anything, mock.Anything).Return([]schema.PRItem{
		{Number: 1, CreatedAt: monday, ClosedAt: monday},
	}, nil)

	// One failing alias degrades to partial data, never an error
	summary := CollectPRMetrics(context.Background(), cfg, client, resolver, "alice")
	assert.Equal(t, 1, summary.Events[schema.PROpened].Count)
}

func TestCollectPRMetricsSkipsBadDates(t *testing.T) {
	cfg := testConfig(t)
	resolver := ident.NewResolver(nil)

	client := &contract.MockGitHubClient{}
	client.On("SearchPullRequests", mock.Anything, mock.Anything).Return([]schema.PRItem{
		{Number: 1, CreatedAt: "", ClosedAt: ""},
		{Number: 2, CreatedAt: "not-a-date", ClosedAt: "not-a-date"},
	}, nil)

	summary := CollectPRMetrics(context.Background(), cfg, client, resolver, "carol")
	assert.Equal(t, 0, summary.Events[schema.PROpened].Count)
}

func TestGetContributorReport(t *testing.T) {
	cfg := testConfig(t)

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").Return(sampleRawStats(), nil).Once()

	report, err := GetContributorReport(context.Background(), cfg, client, nil, schema.CommitsReport)
	require.NoError(t, err)
	assert.Equal(t, 15, report.TotalCommits)
	assert.Equal(t, "alice", report.Rows[0].Author)
}

func TestGetWeeklyReport(t *testing.T) {
	cfg := testConfig(t)

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").Return(sampleRawStats(), nil).Once()

	report, err := GetWeeklyReport(context.Background(), cfg, client, nil)
	require.NoError(t, err)
	require.Len(t, report.Weeks, 2)
	assert.Equal(t, "2024-03-03", report.Weeks[0].Week)
	assert.Equal(t, 11, report.Weeks[0].Commits)
	assert.Equal(t, 2, report.Trend.WeekCount)
	assert.Equal(t, 15, report.Trend.TotalCommits)
}

func TestGetWeeklyReportFetchError(t *testing.T) {
	cfg := testConfig(t)

	client := &contract.MockGitHubClient{}
	client.On("ContributorStats", mock.Anything, "golang", "go").
		Return([]schema.RawContributorStats(nil), errors.New("boom")).Once()

	_, err := GetWeeklyReport(context.Background(), cfg, client, nil)
	assert.Error(t, err)
}

func TestStatsCacheKeyStable(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, statsCacheKey(cfg), statsCacheKey(cfg))

	other := testConfig(t)
	other.Repo = "tools"
	assert.NotEqual(t, statsCacheKey(cfg), statsCacheKey(other))

	narrower := testConfig(t)
	narrower.Weeks = 12
	assert.NotEqual(t, statsCacheKey(cfg), statsCacheKey(narrower))
}
