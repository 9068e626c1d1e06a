package schema

import "time"

// RunRecord represents a row from the pulse_runs history table.
type RunRecord struct {
	RunID        int64
	Repo         string
	Kind         ReportKind
	StartTime    time.Time
	Weeks        int32
	Contributors int32
	TotalCommits int32
}

// RunAuthorRecord represents a row from the pulse_run_authors history table.
type RunAuthorRecord struct {
	RunID       int64
	Author      string
	Commits     int32
	Additions   int32
	Deletions   int32
	ActiveWeeks int32
}
