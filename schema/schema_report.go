package schema

// WeeklyAggregate is the cross-author rollup for one calendar week.
// TopContributor is omitted when the week has no contributors.
type WeeklyAggregate struct {
	Week             string         `json:"week"`
	Commits          int            `json:"commits"`
	Additions        int            `json:"additions"`
	Deletions        int            `json:"deletions"`
	Contributors     map[string]int `json:"contributors"`
	ContributorCount int            `json:"contributor_count"`
	TopContributor   string         `json:"top_contributor,omitempty"`
	AvgCommits       float64        `json:"avg_commits"`
}

// ConsistencyEntry ranks one contributor by the number of weeks active.
type ConsistencyEntry struct {
	Author      string `json:"author"`
	WeeksActive int    `json:"weeks_active"`
	Commits     int    `json:"commits"`
}

// ConcentrationLevel reports how many contributors cover a cumulative
// share of total commits.
type ConcentrationLevel struct {
	Threshold    int `json:"threshold"`
	Contributors int `json:"contributors"`
}

// TrendSummary is a derived read-only snapshot over an ordered sequence
// of weekly aggregates.
type TrendSummary struct {
	WeekCount      int                `json:"week_count"`
	FirstWeek      string             `json:"first_week,omitempty"`
	LastWeek       string             `json:"last_week,omitempty"`
	TotalCommits   int                `json:"total_commits"`
	TotalAdditions int                `json:"total_additions"`
	TotalDeletions int                `json:"total_deletions"`
	AvgCommits     float64            `json:"avg_commits"`
	PeakWeek       string             `json:"peak_week,omitempty"`
	PeakCommits    int                `json:"peak_commits"`
	GrowthRate     float64            `json:"growth_rate"`
	MostConsistent []ConsistencyEntry `json:"most_consistent,omitempty"`
}

// ContributorRow adds presentation data to an AuthorStats record.
type ContributorRow struct {
	Rank        int     `json:"rank"`
	Label       string  `json:"label"`
	Share       float64 `json:"share"`
	ActiveWeeks int     `json:"active_weeks"`
	AvgPerWeek  float64 `json:"avg_per_week"`
	NetLines    int     `json:"net_lines"`
	AuthorStats
}

// VolumeDistribution counts contributors per commit volume band.
type VolumeDistribution struct {
	High     int `json:"high"`     // >= HighActivityCommits
	Moderate int `json:"moderate"` // ModerateActivityCommits .. HighActivityCommits-1
	Low      int `json:"low"`      // < ModerateActivityCommits
}

// ContributorReport is the output of the commits and lines commands.
type ContributorReport struct {
	Repo          string               `json:"repo"`
	Kind          ReportKind           `json:"kind"`
	Weeks         int                  `json:"weeks"`
	TotalCommits  int                  `json:"total_commits"`
	Rows          []ContributorRow     `json:"rows"`
	Concentration []ConcentrationLevel `json:"concentration,omitempty"`
	Volume        VolumeDistribution   `json:"volume"`
}

// WeeklyTrendReport is the output of the weekly command. Weeks are sorted
// ascending by week start date.
type WeeklyTrendReport struct {
	Repo  string            `json:"repo"`
	Weeks []WeeklyAggregate `json:"weeks"`
	Trend TrendSummary      `json:"trend"`
}

// PREventStats holds the count and weekday buckets for one PR event type.
type PREventStats struct {
	Count int            `json:"count"`
	ByDay map[string]int `json:"by_day"`
}

// PRSummary holds pull request activity for one canonical author.
type PRSummary struct {
	Author string                   `json:"author"`
	Events map[PREvent]PREventStats `json:"events"`
}

// AuthorDayStats holds weekday activity for one canonical author.
// Days always contains all seven weekday names, zero-filled.
type AuthorDayStats struct {
	Author  string               `json:"author"`
	Days    map[string]DayBucket `json:"days"`
	Commits int                  `json:"commits"`
	PRs     *PRSummary           `json:"prs,omitempty"`
}

// DayReport is the output of the days command.
type DayReport struct {
	Repo    string               `json:"repo"`
	Weeks   int                  `json:"weeks"`
	Authors []AuthorDayStats     `json:"authors"`
	Totals  map[string]DayBucket `json:"totals"`
}
