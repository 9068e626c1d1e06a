package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
)

// Table names for run history tracking.
const (
	runsTable       = "pulse_runs"
	runAuthorsTable = "pulse_run_authors"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{
			db:      nil,
			backend: backend,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:      db,
		backend: backend,
	}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runAuthorsTable, getCreateRunAuthorsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for pulse_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo VARCHAR(255) NOT NULL,
				kind VARCHAR(50) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				weeks INT NOT NULL,
				contributors INT,
				total_commits INT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				repo TEXT NOT NULL,
				kind TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				weeks INT NOT NULL,
				contributors INT,
				total_commits INT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo TEXT NOT NULL,
				kind TEXT NOT NULL,
				start_time TEXT NOT NULL,
				weeks INTEGER NOT NULL,
				contributors INTEGER,
				total_commits INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateRunAuthorsQuery returns the CREATE TABLE query for pulse_run_authors.
func getCreateRunAuthorsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runAuthorsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				author VARCHAR(255) NOT NULL,
				commits INT NOT NULL,
				additions INT NOT NULL,
				deletions INT NOT NULL,
				active_weeks INT NOT NULL,
				PRIMARY KEY (run_id, author)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				author TEXT NOT NULL,
				commits INT NOT NULL,
				additions INT NOT NULL,
				deletions INT NOT NULL,
				active_weeks INT NOT NULL,
				PRIMARY KEY (run_id, author)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				author TEXT NOT NULL,
				commits INTEGER NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				active_weeks INTEGER NOT NULL,
				PRIMARY KEY (run_id, author)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run row and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(repo string, kind schema.ReportKind, startTime time.Time, weeks int) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (repo, kind, start_time, weeks) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, repo, string(kind), startTime, weeks).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (repo, kind, start_time, weeks) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, repo, string(kind), formatTime(startTime, hs.backend), weeks)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// CompleteRun updates the run row with result counts.
func (hs *HistoryStoreImpl) CompleteRun(runID int64, contributors, totalCommits int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET contributors = $1, total_commits = $2 WHERE run_id = $3`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET contributors = ?, total_commits = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := hs.db.Exec(query, contributors, totalCommits, runID); err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}

	return nil
}

// RecordAuthor stores one merged per-author result for a run.
func (hs *HistoryStoreImpl) RecordAuthor(runID int64, stats schema.AuthorStats) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runAuthorsTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, author, commits, additions, deletions, active_weeks)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, author, commits, additions, deletions, active_weeks)
			VALUES (?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	args := []any{runID, stats.Author, stats.Commits, stats.Additions, stats.Deletions, stats.ActiveWeeks()}
	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert author row: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first.
func (hs *HistoryStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, repo, kind, start_time, weeks,
			COALESCE(contributors, 0), COALESCE(total_commits, 0)
			FROM %s ORDER BY run_id DESC LIMIT $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, repo, kind, start_time, weeks,
			COALESCE(contributors, 0), COALESCE(total_commits, 0)
			FROM %s ORDER BY run_id DESC LIMIT ?`, quotedTableName)
	}

	rows, err := hs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord
		var kind string

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			if err := rows.Scan(&record.RunID, &record.Repo, &kind, &startTimeStr,
				&record.Weeks, &record.Contributors, &record.TotalCommits); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.RunID, &record.Repo, &kind, &record.StartTime,
				&record.Weeks, &record.Contributors, &record.TotalCommits); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		record.Kind = schema.ReportKind(kind)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// ListRunAuthors returns all per-author rows, grouped by run.
func (hs *HistoryStoreImpl) ListRunAuthors() ([]schema.RunAuthorRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runAuthorsTable, hs.backend)
	query := fmt.Sprintf(`SELECT run_id, author, commits, additions, deletions, active_weeks
		FROM %s ORDER BY run_id, author`, quotedTableName)

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunAuthorRecord

	for rows.Next() {
		var record schema.RunAuthorRecord
		if err := rows.Scan(&record.RunID, &record.Author, &record.Commits,
			&record.Additions, &record.Deletions, &record.ActiveWeeks); err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author rows: %w", err)
	}

	return results, nil
}

// Clear removes all rows from the history tables.
func (hs *HistoryStoreImpl) Clear() error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	for _, table := range []string{runAuthorsTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, hs.backend))
		if _, err := hs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, hs.backend))
	row := hs.db.QueryRow(runsQuery)
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, hs.backend))
		row = hs.db.QueryRow(lastRunQuery)

		switch hs.backend {
		case schema.SQLiteBackend:
			var lastRunTimeStr string
			if err := row.Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		// Get oldest run time
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, hs.backend))
		row = hs.db.QueryRow(oldestRunQuery)

		switch hs.backend {
		case schema.SQLiteBackend:
			var oldestRunTimeStr string
			if err := row.Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}
	}

	// Get author row count
	authorsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runAuthorsTable, hs.backend))
	row = hs.db.QueryRow(authorsQuery)
	if err := row.Scan(&status.AuthorRows); err != nil {
		return status, fmt.Errorf("failed to get author row count: %w", err)
	}

	return status, nil
}
