// Package parquet provides data structures and functions for exporting run
// history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/pulse/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single report run with metadata.
// This struct maps to the pulse_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Repo is the owner/name slug of the analyzed repository
	Repo string `parquet:"repo,snappy"`

	// Kind is the report kind that produced this run
	Kind string `parquet:"kind,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// Weeks is the analysis window in weeks
	Weeks int32 `parquet:"weeks,snappy"`

	// Contributors is the number of merged contributors in the result
	Contributors int32 `parquet:"contributors,snappy"`

	// TotalCommits is the total commit count across all contributors
	TotalCommits int32 `parquet:"total_commits,snappy"`
}

// RunAuthor represents one merged per-author result row of a run.
// This struct maps to the pulse_run_authors database table.
type RunAuthor struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Author is the canonical contributor identity
	Author string `parquet:"author,snappy"`

	// Commits is the total commit count for this author
	Commits int32 `parquet:"commits,snappy"`

	// Additions is the total lines added by this author
	Additions int32 `parquet:"additions,snappy"`

	// Deletions is the total lines deleted by this author
	Deletions int32 `parquet:"deletions,snappy"`

	// ActiveWeeks is the number of weeks with at least one commit
	ActiveWeeks int32 `parquet:"active_weeks,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRunAuthorsParquet writes a slice of RunAuthor structs to a Parquet file.
func WriteRunAuthorsParquet(data []RunAuthor, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RunAuthor struct tags
	writer := parquet.NewGenericWriter[RunAuthor](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			Repo:         record.Repo,
			Kind:         string(record.Kind),
			StartTime:    record.StartTime,
			Weeks:        record.Weeks,
			Contributors: record.Contributors,
			TotalCommits: record.TotalCommits,
		}
	}
	return result
}

// ConvertRunAuthorRecords converts schema.RunAuthorRecord to RunAuthor for Parquet export.
func ConvertRunAuthorRecords(records []schema.RunAuthorRecord) []RunAuthor {
	result := make([]RunAuthor, len(records))
	for i, record := range records {
		result[i] = RunAuthor{
			RunID:       record.RunID,
			Author:      record.Author,
			Commits:     record.Commits,
			Additions:   record.Additions,
			Deletions:   record.Deletions,
			ActiveWeeks: record.ActiveWeeks,
		}
	}
	return result
}
