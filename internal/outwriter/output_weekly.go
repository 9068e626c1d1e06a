package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintWeeklyReport outputs a weekly trend report, dispatching based on the
// output format configured.
func PrintWeeklyReport(report *schema.WeeklyTrendReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printWeeklyJSON(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printWeeklyCSV(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := printWeeklyMarkdown(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printWeeklyTable(report, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printWeeklyJSON handles opening the file and calling the JSON writer.
func printWeeklyJSON(report *schema.WeeklyTrendReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON weekly report")
}

// printWeeklyCSV handles opening the file and calling the CSV writer.
func printWeeklyCSV(report *schema.WeeklyTrendReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"week",
			"commits",
			"additions",
			"deletions",
			"contributor_count",
			"top_contributor",
			"avg_commits",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, wk := range report.Weeks {
				row := []string{
					wk.Week,
					fmt.Sprintf(intFmt, wk.Commits),
					fmt.Sprintf(intFmt, wk.Additions),
					fmt.Sprintf(intFmt, wk.Deletions),
					fmt.Sprintf(intFmt, wk.ContributorCount),
					wk.TopContributor,
					fmtFloat(wk.AvgCommits),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV weekly report")
}

// printWeeklyMarkdown handles opening the file and calling the markdown writer.
func printWeeklyMarkdown(report *schema.WeeklyTrendReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "# Weekly trend for %s\n\n", report.Repo); err != nil {
			return err
		}

		headers := []string{"Week", "Commits", "Additions", "Deletions", "Contributors", "Top", "Avg"}
		rows := make([][]string, 0, len(report.Weeks))
		for _, wk := range report.Weeks {
			rows = append(rows, []string{
				wk.Week,
				fmt.Sprintf(intFmt, wk.Commits),
				fmt.Sprintf(intFmt, wk.Additions),
				fmt.Sprintf(intFmt, wk.Deletions),
				fmt.Sprintf(intFmt, wk.ContributorCount),
				wk.TopContributor,
				fmtFloat(wk.AvgCommits),
			})
		}
		if err := writeMarkdownTable(w, headers, rows); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		writeTrendSummary(w, report.Trend, fmtFloat, false)
		return nil
	}, "Wrote markdown weekly report")
}

// printWeeklyTable prints the human-readable weekly table with the trend footer.
func printWeeklyTable(report *schema.WeeklyTrendReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)

		headers := []string{"Week", "Commits", "Additions", "Deletions", "Contributors", "Top", "Avg"}
		table.Header(headers)

		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, wk := range report.Weeks {
			row := []string{
				wk.Week,
				fmt.Sprintf(intFmt, wk.Commits),
				fmt.Sprintf(intFmt, wk.Additions),
				fmt.Sprintf(intFmt, wk.Deletions),
				fmt.Sprintf(intFmt, wk.ContributorCount),
				wk.TopContributor,
				fmtFloat(wk.AvgCommits),
			}
			data = append(data, row)
		}

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		writeTrendSummary(w, report.Trend, fmtFloat, cfg.UseColors)
		fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
		return nil
	}, "Wrote weekly table")
}

// writeTrendSummary writes the trend metrics block below the weekly table.
func writeTrendSummary(w io.Writer, trend schema.TrendSummary, fmtFloat func(float64) string, useColors bool) {
	fmt.Fprintf(w, "Weeks with activity: %d (%s to %s)\n", trend.WeekCount, trend.FirstWeek, trend.LastWeek)
	fmt.Fprintf(w, "Total commits: %d (avg %s per week)\n", trend.TotalCommits, fmtFloat(trend.AvgCommits))
	if trend.PeakWeek != "" {
		fmt.Fprintf(w, "Peak week: %s with %d commits\n", trend.PeakWeek, trend.PeakCommits)
	}
	fmt.Fprintf(w, "Growth rate: %s (first half vs second half)\n", contract.FormatGrowthRate(trend.GrowthRate, useColors))

	if len(trend.MostConsistent) > 0 {
		fmt.Fprintln(w, "Most consistent contributors:")
		for i, entry := range trend.MostConsistent {
			fmt.Fprintf(w, "  %s. %s: %d weeks active, %d commits\n",
				strconv.Itoa(i+1), entry.Author, entry.WeeksActive, entry.Commits)
		}
	}
}
