//go:build basic

// Package integration contains integration tests for pulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPulseVersion verifies the binary reports build metadata.
func TestPulseVersion(t *testing.T) {
	workDir := t.TempDir()

	output, err := runPulseCommand(t, workDir, "version")
	require.NoError(t, err)

	assert.Contains(t, output, "pulse CLI")
	assert.Contains(t, output, "Version:")
	assert.Contains(t, output, "Runtime:")
}

// TestPulseAliasRoundTrip exercises the aliases add/list/check surface
// against a fresh table file.
func TestPulseAliasRoundTrip(t *testing.T) {
	workDir := t.TempDir()
	aliasesFile := filepath.Join(workDir, "aliases.json")

	// Empty table before anything is added
	output, err := runPulseCommand(t, workDir, "aliases", "list", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, "No aliases defined.")

	// Add one mapping and confirm it persists
	output, err = runPulseCommand(t, workDir, "aliases", "add", "alice", "alice-corp", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, `Mapped "alice-corp" -> "alice"`)

	output, err = runPulseCommand(t, workDir, "aliases", "list", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, "alice: alice-corp")

	// Re-adding the same alias is rejected, not reassigned
	output, err = runPulseCommand(t, workDir, "aliases", "add", "bob", "alice-corp", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, "already resolves")

	// Check resolves through the table, case-insensitively
	output, err = runPulseCommand(t, workDir, "aliases", "check", "Alice-Corp", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, `resolves to "alice"`)

	output, err = runPulseCommand(t, workDir, "aliases", "check", "stranger", "--aliases-file", aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, output, "no mapping")

	// The file itself should be valid JSON on disk
	data, err := os.ReadFile(aliasesFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice-corp")
}

// TestPulseSQLiteStores exercises the cache and history surface against
// the default SQLite backend in an isolated home directory.
func TestPulseSQLiteStores(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv("HOME", workDir) // SQLite databases default to $HOME

	// Cache status on a fresh directory creates the database
	output, err := runPulseCommand(t, workDir, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Cache Backend: sqlite")

	// Clear succeeds even when nothing is cached
	output, err = runPulseCommand(t, workDir, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, output, "Cache cleared successfully.")

	// History with the SQLite backend enabled
	output, err = runPulseCommand(t, workDir, "history", "status", "--history-backend", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, output, "History Backend: sqlite")

	output, err = runPulseCommand(t, workDir, "history", "clear", "--history-backend", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, output, "Run history cleared successfully.")

	// Schema migrations run to the latest version
	_, err = runPulseCommand(t, workDir, "history", "migrate", "--history-backend", "sqlite")
	require.NoError(t, err)
}
