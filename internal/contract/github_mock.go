package contract

import (
	"context"

	"github.com/huangsam/pulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitHubClient is a mock implementation of GitHubClient for testing.
type MockGitHubClient struct {
	mock.Mock
}

var _ GitHubClient = &MockGitHubClient{} // Compile-time check

// ContributorStats implements the GitHubClient interface.
func (m *MockGitHubClient) ContributorStats(ctx context.Context, owner, repo string) ([]schema.RawContributorStats, error) {
	args := m.Called(ctx, owner, repo)
	stats, _ := args.Get(0).([]schema.RawContributorStats)
	return stats, args.Error(1)
}

// SearchPullRequests implements the GitHubClient interface.
func (m *MockGitHubClient) SearchPullRequests(ctx context.Context, query string) ([]schema.PRItem, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]schema.PRItem)
	return items, args.Error(1)
}
