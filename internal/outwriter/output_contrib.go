package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintContributorReport outputs a contributor report, dispatching based on
// the output format configured.
func PrintContributorReport(report *schema.ContributorReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printContributorJSON(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printContributorCSV(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := printContributorMarkdown(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printContributorTable(report, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printContributorJSON handles opening the file and calling the JSON writer.
func printContributorJSON(report *schema.ContributorReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON contributor report")
}

// printContributorCSV handles opening the file and calling the CSV writer.
func printContributorCSV(report *schema.ContributorReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"rank",
			"author",
			"original_authors",
			"commits",
			"additions",
			"deletions",
			"net_lines",
			"active_weeks",
			"avg_per_week",
			"share",
			"label",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range report.Rows {
				row := []string{
					strconv.Itoa(r.Rank),
					r.Author,
					strings.Join(r.OriginalAuthors, "|"),
					fmt.Sprintf(intFmt, r.Commits),
					fmt.Sprintf(intFmt, r.Additions),
					fmt.Sprintf(intFmt, r.Deletions),
					fmt.Sprintf(intFmt, r.NetLines),
					fmt.Sprintf(intFmt, r.ActiveWeeks),
					fmtFloat(r.AvgPerWeek),
					fmtFloat(r.Share),
					r.Label,
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV contributor report")
}

// printContributorMarkdown handles opening the file and calling the markdown writer.
func printContributorMarkdown(report *schema.ContributorReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "# Contributor report for %s (%d weeks)\n\n", report.Repo, report.Weeks); err != nil {
			return err
		}

		headers := []string{"Rank", "Author", "Commits", "Additions", "Deletions", "Net", "Weeks", "Avg/Week", "Share %", "Label"}
		rows := make([][]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, []string{
				strconv.Itoa(r.Rank),
				displayAuthor(r.AuthorStats),
				fmt.Sprintf(intFmt, r.Commits),
				fmt.Sprintf(intFmt, r.Additions),
				fmt.Sprintf(intFmt, r.Deletions),
				fmt.Sprintf(intFmt, r.NetLines),
				fmt.Sprintf(intFmt, r.ActiveWeeks),
				fmtFloat(r.AvgPerWeek),
				fmtFloat(r.Share),
				r.Label,
			})
		}
		if err := writeMarkdownTable(w, headers, rows); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, "\nTotal commits: %d\n", report.TotalCommits)
		return err
	}, "Wrote markdown contributor report")
}

// printContributorTable prints the human-readable contributor table.
func printContributorTable(report *schema.ContributorReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)

		// 1. Define Headers
		headers := []string{"Rank", "Author", "Commits", "Lines +", "Lines -", "Net", "Weeks", "Avg/Week", "Share %", "Label"}
		table.Header(headers)

		// 2. Configure Alignment
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		// 3. Populate Rows
		nameWidth := GetMaxTableNameWidth(cfg)
		var data [][]string
		for _, r := range report.Rows {
			row := []string{
				strconv.Itoa(r.Rank),
				contract.TruncateName(displayAuthor(r.AuthorStats), nameWidth),
				fmt.Sprintf(intFmt, r.Commits),
				fmt.Sprintf(intFmt, r.Additions),
				fmt.Sprintf(intFmt, r.Deletions),
				fmt.Sprintf(intFmt, r.NetLines),
				fmt.Sprintf(intFmt, r.ActiveWeeks),
				fmtFloat(r.AvgPerWeek),
				fmtFloat(r.Share),
				labelFor(r.Commits, cfg.UseColors),
			}
			data = append(data, row)
		}

		// 4. Render the table
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		// 5. Summary footer
		fmt.Fprintf(w, "Total commits: %d across %d contributors\n", report.TotalCommits, len(report.Rows))
		for _, level := range report.Concentration {
			fmt.Fprintf(w, "%d%% of commits come from %d contributor(s)\n", level.Threshold, level.Contributors)
		}
		fmt.Fprintf(w, "Volume bands: %d high, %d moderate, %d low\n",
			report.Volume.High, report.Volume.Moderate, report.Volume.Low)
		fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
		return nil
	}, "Wrote contributor table")
}

// displayAuthor renders a canonical author with merged identities appended.
func displayAuthor(stats schema.AuthorStats) string {
	if len(stats.OriginalAuthors) > 1 {
		return fmt.Sprintf("%s (%s)", stats.Author, schema.FormatAuthors(stats.OriginalAuthors))
	}
	return stats.Author
}
