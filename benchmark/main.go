// Package main provides a performance benchmarking tool for the Pulse CLI.
// It measures execution times across repositories and command types, running
// each test multiple times, treating the first cache-enabled run as cold and
// averaging the rest as warm, generating CSV output for performance analysis
// and documentation.
//
// Prerequisites:
// - pulse binary installed and available in PATH
// - PULSE_TOKEN set to a GitHub API token with public repo read access
//
// Usage: go run benchmark/main.go [output-csv]
//
//	output-csv: Path for the CSV results file
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average,
// cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Commands    [][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [output-csv]\n", os.Args[0])
		os.Exit(1)
	}
	outputCSV := os.Args[1]

	config := BenchmarkConfig{
		Timeout:     5 * time.Minute,
		NoCacheRuns: 2,
		CacheRuns:   4,
		TestRepos: []string{
			"fatih/color",
			"spf13/cobra",
			"golang/go",
		},
		Commands: [][]string{
			{"commits", "--weeks", "12"},
			{"weekly", "--weeks", "12"},
			{"days", "--weeks", "12"},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := writeResults(outputCSV, results); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d results to %s\n", len(results), outputCSV)
}

// checkPrerequisites verifies the binary and token are available.
func checkPrerequisites() error {
	if _, err := exec.LookPath("pulse"); err != nil {
		return fmt.Errorf("pulse binary not found in PATH: %w", err)
	}
	if os.Getenv("PULSE_TOKEN") == "" && os.Getenv("GITHUB_TOKEN") == "" {
		return fmt.Errorf("no GitHub token found; set PULSE_TOKEN")
	}
	return nil
}

// runBenchmarks runs every command against every repository.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult
	for _, repo := range config.TestRepos {
		for _, command := range config.Commands {
			fmt.Printf("Benchmarking %s %s...\n", command[0], repo)
			result, err := benchmarkCommand(config, repo, command)
			if err != nil {
				fmt.Printf("  skipped: %v\n", err)
				continue
			}
			results = append(results, result)
		}
	}
	return results
}

// benchmarkCommand times one command against one repository in three modes:
// cache disabled, cold cache, and warm cache.
func benchmarkCommand(config BenchmarkConfig, repo string, command []string) (BenchmarkResult, error) {
	// Average a few runs with the cache disabled
	var noCacheTotal time.Duration
	for range config.NoCacheRuns {
		elapsed, err := timePulse(config.Timeout, repo, command, "none")
		if err != nil {
			return BenchmarkResult{}, err
		}
		noCacheTotal += elapsed
	}
	noCacheAvg := noCacheTotal / time.Duration(config.NoCacheRuns)

	// Clear the cache so the first SQLite run is genuinely cold
	if err := runPulse(config.Timeout, []string{"cache", "clear"}); err != nil {
		return BenchmarkResult{}, err
	}

	var coldTime time.Duration
	var warmTotal time.Duration
	for i := range config.CacheRuns {
		elapsed, err := timePulse(config.Timeout, repo, command, "sqlite")
		if err != nil {
			return BenchmarkResult{}, err
		}
		if i == 0 {
			coldTime = elapsed
		} else {
			warmTotal += elapsed
		}
	}
	warmAvg := warmTotal / time.Duration(config.CacheRuns-1)

	return BenchmarkResult{
		Repository:  repo,
		Command:     command[0],
		NoCacheTime: noCacheAvg.Round(time.Millisecond).String(),
		ColdTime:    coldTime.Round(time.Millisecond).String(),
		WarmTime:    warmAvg.Round(time.Millisecond).String(),
	}, nil
}

// timePulse runs one analysis command with the given cache backend and
// returns the wall-clock duration.
func timePulse(timeout time.Duration, repo string, command []string, backend string) (time.Duration, error) {
	args := append([]string{command[0], repo}, command[1:]...)
	args = append(args, "--cache-backend", backend)

	start := time.Now()
	if err := runPulse(timeout, args); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// runPulse executes the pulse binary with a timeout.
func runPulse(timeout time.Duration, args []string) error {
	cmd := exec.Command("pulse", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return fmt.Errorf("pulse %v timed out after %v", args, timeout)
	}
}

// writeResults writes the benchmark results as CSV.
func writeResults(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repository", "command", "no_cache", "cold", "warm"}); err != nil {
		return err
	}
	for _, result := range results {
		row := []string{result.Repository, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}
