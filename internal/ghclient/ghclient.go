// Package ghclient implements the GitHub API client used by core. It owns
// pagination, rate-limit backoff and the stats-pending retry dance so that
// callers see plain record lists.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
	"golang.org/x/oauth2"
)

// Retry and pagination limits.
const (
	statsMaxRetries  = 5               // attempts while contributor stats are being computed
	statsRetryDelay  = 3 * time.Second // wait between stats-pending attempts
	searchMaxRetries = 3               // attempts per search page on transient failures
	searchPerPage    = 100             // search results per page
	searchMaxResults = 1000            // GitHub's hard cap on search results
	searchPageDelay  = 500 * time.Millisecond
)

// Client talks to the GitHub REST and Search APIs.
type Client struct {
	gh *github.Client

	// sleep is replaceable in tests to avoid real waits.
	sleep func(time.Duration)
}

var _ contract.GitHubClient = &Client{} // Compile-time check

// New builds an authenticated client from a token.
func New(token string) (*Client, error) {
	if token == "" {
		return nil, contract.NewFatalError("create client", contract.ErrMissingToken)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return &Client{gh: github.NewClient(tc), sleep: time.Sleep}, nil
}

// ContributorStats implements the GitHubClient interface. GitHub computes
// contributor stats lazily and answers 202 until they are ready, so the
// call polls with a fixed delay before giving up.
func (c *Client) ContributorStats(ctx context.Context, owner, repo string) ([]schema.RawContributorStats, error) {
	op := fmt.Sprintf("contributor stats for %s/%s", owner, repo)

	for attempt := 0; attempt < statsMaxRetries; attempt++ {
		stats, resp, err := c.gh.Repositories.ListContributorsStats(ctx, owner, repo)
		if err == nil {
			return convertStats(stats), nil
		}

		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			c.sleep(statsRetryDelay)
			continue
		}
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			c.waitForRateLimit(rateErr)
			continue
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, contract.NewFatalError(op, err)
		}
		if resp != nil && resp.StatusCode >= http.StatusInternalServerError {
			c.sleep(backoff(attempt))
			continue
		}
		return nil, contract.NewFatalError(op, err)
	}
	return nil, contract.NewFatalError(op, contract.ErrRetriesExhausted)
}

// SearchPullRequests implements the GitHubClient interface. A 422 response
// means the query matched nothing usable and yields zero results rather
// than an error, keeping the aggregation pipeline total.
func (c *Client) SearchPullRequests(ctx context.Context, query string) ([]schema.PRItem, error) {
	op := fmt.Sprintf("search pull requests %q", query)
	opts := &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: searchPerPage},
	}

	var items []schema.PRItem
	for {
		result, resp, err := c.searchPage(ctx, query, opts)
		if err != nil {
			if isUnprocessable(err) {
				return nil, nil
			}
			return nil, contract.NewRetryableError(op, err)
		}

		for _, issue := range result.Issues {
			if !issue.IsPullRequest() {
				continue
			}
			items = append(items, convertIssue(issue))
		}

		if resp.NextPage == 0 || len(items) >= searchMaxResults {
			break
		}
		opts.Page = resp.NextPage
		c.sleep(searchPageDelay)
	}
	if len(items) > searchMaxResults {
		items = items[:searchMaxResults]
	}
	return items, nil
}

// searchPage fetches one page of search results with bounded retries on
// transient failures.
func (c *Client) searchPage(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error) {
	var lastErr error
	for attempt := 0; attempt < searchMaxRetries; attempt++ {
		result, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err == nil {
			return result, resp, nil
		}
		lastErr = err

		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			c.waitForRateLimit(rateErr)
			continue
		}
		if isUnprocessable(err) {
			return nil, nil, err
		}
		c.sleep(backoff(attempt))
	}
	return nil, nil, fmt.Errorf("%w: %w", contract.ErrRetriesExhausted, lastErr)
}

// waitForRateLimit blocks until the reported rate limit window resets.
func (c *Client) waitForRateLimit(rateErr *github.RateLimitError) {
	wait := time.Until(rateErr.Rate.Reset.Time) + time.Second
	if wait < time.Second {
		wait = time.Second
	}
	c.sleep(wait)
}

// backoff returns an exponential delay for a retry attempt: 1s, 2s, 4s...
func backoff(attempt int) time.Duration {
	return time.Second << attempt
}

// isUnprocessable reports whether an error is a 422 validation failure.
func isUnprocessable(err error) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) &&
		respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusUnprocessableEntity
}

// convertStats flattens go-github contributor stats into wire records.
// Contributors without a resolvable login are dropped.
func convertStats(stats []*github.ContributorStats) []schema.RawContributorStats {
	out := make([]schema.RawContributorStats, 0, len(stats))
	for _, s := range stats {
		if s == nil || s.Author == nil || s.Author.GetLogin() == "" {
			continue
		}
		rec := schema.RawContributorStats{
			Author: s.Author.GetLogin(),
			Total:  s.GetTotal(),
		}
		for _, w := range s.Weeks {
			rec.Weeks = append(rec.Weeks, schema.RawWeek{
				Week:      w.GetWeek().Unix(),
				Commits:   w.GetCommits(),
				Additions: w.GetAdditions(),
				Deletions: w.GetDeletions(),
			})
		}
		out = append(out, rec)
	}
	return out
}

// convertIssue maps a search result issue to a PR item. Timestamps are
// kept as RFC3339 strings; absent dates become empty strings that the
// bucketing layer skips.
func convertIssue(issue *github.Issue) schema.PRItem {
	item := schema.PRItem{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
	}
	if issue.CreatedAt != nil {
		item.CreatedAt = issue.CreatedAt.UTC().Format(time.RFC3339)
	}
	if issue.ClosedAt != nil {
		item.ClosedAt = issue.ClosedAt.UTC().Format(time.RFC3339)
	}
	return item
}
