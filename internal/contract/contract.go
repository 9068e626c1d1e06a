// Package contract provides interfaces and shared utilities for the pulse
// CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/pulse/schema"
)

// GitHubClient defines the necessary operations against the GitHub API.
// This allows the core analysis logic to be tested without network access.
type GitHubClient interface {
	// ContributorStats returns per-contributor weekly activity for a
	// repository. The call blocks through the stats-pending retry dance.
	ContributorStats(ctx context.Context, owner, repo string) ([]schema.RawContributorStats, error)

	// SearchPullRequests returns all pull request items matching a search
	// query, following pagination up to the search result cap.
	SearchPullRequests(ctx context.Context, query string) ([]schema.PRItem, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetCacheStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for API payload cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// HistoryStore defines the interface for tracking analysis runs.
type HistoryStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(repo string, kind schema.ReportKind, startTime time.Time, weeks int) (int64, error)

	// CompleteRun updates the run row with result counts.
	CompleteRun(runID int64, contributors, totalCommits int) error

	// RecordAuthor stores one merged per-author result for a run.
	RecordAuthor(runID int64, stats schema.AuthorStats) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListRunAuthors returns all per-author rows, grouped by run.
	ListRunAuthors() ([]schema.RunAuthorRecord, error)

	GetStatus() (schema.HistoryStatus, error)
	Clear() error
	Close() error
}
