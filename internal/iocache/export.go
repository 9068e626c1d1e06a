package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/pulse/internal/parquet"
)

// ExecuteHistoryExport exports run history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total author rows: %d\n", status.AuthorRows)

	// Retrieve all runs
	runs, err := store.ListRuns(status.TotalRuns)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all per-author rows
	authorRows, err := store.ListRunAuthors()
	if err != nil {
		return fmt.Errorf("failed to retrieve author rows: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetAuthors := parquet.ConvertRunAuthorRecords(authorRows)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write author rows to Parquet
	authorsFile := outputFile + ".run_authors.parquet"
	if err := parquet.WriteRunAuthorsParquet(parquetAuthors, authorsFile); err != nil {
		return fmt.Errorf("failed to write author rows: %w", err)
	}
	fmt.Printf("Exported %d author rows to: %s\n", len(parquetAuthors), authorsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
