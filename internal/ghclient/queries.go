package ghclient

import (
	"fmt"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
)

// BuildPRQuery builds the search query for one PR event type over a date
// range. Merged PRs are ranged on their merge date; opened and reviewed
// PRs on their creation date.
func BuildPRQuery(owner, repo, user string, event schema.PREvent, start, end time.Time) string {
	repoSlug := owner + "/" + repo
	dateRange := start.Format(contract.DateFormat) + ".." + end.Format(contract.DateFormat)

	switch event {
	case schema.PRMerged:
		return fmt.Sprintf("repo:%s type:pr author:%s is:merged merged:%s", repoSlug, user, dateRange)
	case schema.PRReviewed:
		return fmt.Sprintf("repo:%s type:pr reviewed-by:%s created:%s", repoSlug, user, dateRange)
	default: // PROpened
		return fmt.Sprintf("repo:%s type:pr author:%s created:%s", repoSlug, user, dateRange)
	}
}
