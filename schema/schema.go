// Package schema has configs, models and constants for all parts of pulse.
package schema

import "time"

// RawWeek is one weekly bucket as returned by the contributor stats endpoint.
// Field names follow the wire shape: w is the Unix timestamp of the week's
// Sunday-aligned start, c/a/d are commits, additions and deletions.
type RawWeek struct {
	Week      int64 `json:"w"`
	Commits   int   `json:"c"`
	Additions int   `json:"a"`
	Deletions int   `json:"d"`
}

// RawContributorStats is one per-contributor record from the stats endpoint,
// weeks in ascending chronological order.
type RawContributorStats struct {
	Author string    `json:"author"`
	Total  int       `json:"total"`
	Weeks  []RawWeek `json:"weeks"`
}

// WeekRecord is one normalized (author, calendar week) activity tuple.
// WeekStart is the UTC Sunday-aligned start of the week.
type WeekRecord struct {
	Author    string    `json:"author"`
	WeekStart time.Time `json:"week_start"`
	Commits   int       `json:"commits"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
}

// WeekStat is a per-week breakdown entry embedded in an AuthorStats record,
// keyed by the ISO date string of the week start.
type WeekStat struct {
	Week      string `json:"week"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// AuthorStats accumulates activity for one canonical author identity.
// OriginalAuthors holds the pre-merge usernames that fed this record.
type AuthorStats struct {
	Author          string     `json:"author"`
	OriginalAuthors []string   `json:"original_authors,omitempty"`
	Commits         int        `json:"commits"`
	Additions       int        `json:"additions"`
	Deletions       int        `json:"deletions"`
	Weeks           []WeekStat `json:"weeks,omitempty"`
}

// ActiveWeeks counts the weeks with nonzero commits.
func (a *AuthorStats) ActiveWeeks() int {
	count := 0
	for _, w := range a.Weeks {
		if w.Commits > 0 {
			count++
		}
	}
	return count
}

// NetLines is additions minus deletions.
func (a *AuthorStats) NetLines() int {
	return a.Additions - a.Deletions
}

// DayBucket holds summed activity for one weekday.
type DayBucket struct {
	Commits   int `json:"commits"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// PRItem is one pull request item from the search endpoint. Only the date
// fields matter for bucketing; everything else is ignored.
type PRItem struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at"`
}
