package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ReportKind represents which analysis a command runs.
	ReportKind string

	// PREvent represents a pull request event type.
	PREvent string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	MarkdownOut OutputMode = "markdown"
)

// All report kinds supported.
const (
	CommitsReport ReportKind = "commits"
	LinesReport   ReportKind = "lines"
	WeeklyReport  ReportKind = "weekly"
	DaysReport    ReportKind = "days"
	PRsReport     ReportKind = "prs"
)

// All pull request event types supported.
const (
	PROpened   PREvent = "opened"
	PRMerged   PREvent = "merged"
	PRReviewed PREvent = "reviewed"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	CSVOut:      {},
	JSONOut:     {},
	MarkdownOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllPREvents returns the pull request event types in display order.
var AllPREvents = []PREvent{PROpened, PRMerged, PRReviewed}

// DayNames lists weekday names in display order, Monday first.
var DayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DayUnknown labels a record whose week timestamp is missing or zero.
// Such records contribute to no weekday bucket.
const DayUnknown = "Unknown"

// DefaultBotAuthors are usernames excluded from reports unless overridden.
var DefaultBotAuthors = []string{
	"bot",
	"github-actions[bot]",
	"dependabot[bot]",
	"renovate[bot]",
}

// Commit volume thresholds for activity labels.
const (
	HighActivityCommits     = 100
	ModerateActivityCommits = 20
)

// GetPlainLabel returns a plain text label indicating the activity level
// based on total commit volume.
func GetPlainLabel(commits int) string {
	switch {
	case commits >= HighActivityCommits:
		return "High"
	case commits >= ModerateActivityCommits:
		return "Moderate"
	default:
		return "Low"
	}
}
