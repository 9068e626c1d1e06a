package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDayReport outputs a day-of-week report, dispatching based on the
// output format configured.
func PrintDayReport(report *schema.DayReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	_, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printDayJSON(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printDayCSV(report, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := printDayMarkdown(report, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printDayTable(report, cfg, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printDayJSON handles opening the file and calling the JSON writer.
func printDayJSON(report *schema.DayReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON day report")
}

// printDayCSV handles opening the file and calling the CSV writer.
func printDayCSV(report *schema.DayReport, cfg *contract.Config, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := append([]string{"author"}, lowercaseDayNames()...)
		header = append(header, "total")
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, author := range report.Authors {
				row := []string{author.Author}
				for _, day := range schema.DayNames {
					row = append(row, fmt.Sprintf(intFmt, author.Days[day].Commits))
				}
				row = append(row, fmt.Sprintf(intFmt, author.Commits))
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV day report")
}

// printDayMarkdown handles opening the file and calling the markdown writer.
func printDayMarkdown(report *schema.DayReport, cfg *contract.Config, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "# Day-of-week activity for %s (%d weeks)\n\n", report.Repo, report.Weeks); err != nil {
			return err
		}

		headers := append([]string{"Author"}, schema.DayNames[:]...)
		headers = append(headers, "Total")
		rows := make([][]string, 0, len(report.Authors)+1)
		for _, author := range report.Authors {
			row := []string{author.Author}
			for _, day := range schema.DayNames {
				row = append(row, fmt.Sprintf(intFmt, author.Days[day].Commits))
			}
			row = append(row, fmt.Sprintf(intFmt, author.Commits))
			rows = append(rows, row)
		}
		rows = append(rows, dayTotalsRow(report, intFmt))
		if err := writeMarkdownTable(w, headers, rows); err != nil {
			return err
		}

		writePRSections(w, report)
		return nil
	}, "Wrote markdown day report")
}

// printDayTable prints the human-readable day-of-week table.
func printDayTable(report *schema.DayReport, cfg *contract.Config, intFmt string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)

		headers := append([]string{"Author"}, schema.DayNames[:]...)
		headers = append(headers, "Total")
		table.Header(headers)

		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		nameWidth := GetMaxTableNameWidth(cfg)
		var data [][]string
		for _, author := range report.Authors {
			row := []string{contract.TruncateName(author.Author, nameWidth)}
			for _, day := range schema.DayNames {
				row = append(row, fmt.Sprintf(intFmt, author.Days[day].Commits))
			}
			row = append(row, fmt.Sprintf(intFmt, author.Commits))
			data = append(data, row)
		}
		data = append(data, dayTotalsRow(report, intFmt))

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		writePRSections(w, report)
		fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
		return nil
	}, "Wrote day table")
}

// dayTotalsRow builds the cross-author totals row for table and markdown output.
func dayTotalsRow(report *schema.DayReport, intFmt string) []string {
	row := []string{"All"}
	total := 0
	for _, day := range schema.DayNames {
		bucket := report.Totals[day]
		row = append(row, fmt.Sprintf(intFmt, bucket.Commits))
		total += bucket.Commits
	}
	row = append(row, fmt.Sprintf(intFmt, total))
	return row
}

// writePRSections writes per-author pull request breakdowns when present.
func writePRSections(w io.Writer, report *schema.DayReport) {
	for _, author := range report.Authors {
		if author.PRs == nil {
			continue
		}
		fmt.Fprintf(w, "\nPull requests for %s:\n", author.Author)
		for _, event := range schema.AllPREvents {
			stats, ok := author.PRs.Events[event]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s: %d", event, stats.Count)
			if stats.Count > 0 {
				fmt.Fprintf(w, " (busiest: %s)", busiestDay(stats.ByDay))
			}
			fmt.Fprintln(w)
		}
	}
}

// busiestDay returns the weekday with the highest count, earliest weekday wins ties.
func busiestDay(byDay map[string]int) string {
	best := ""
	bestCount := 0
	for _, day := range schema.DayNames {
		if byDay[day] > bestCount {
			best = day
			bestCount = byDay[day]
		}
	}
	if best == "" {
		return "none"
	}
	return best
}

// lowercaseDayNames returns the weekday names in CSV header casing.
func lowercaseDayNames() []string {
	names := make([]string, len(schema.DayNames))
	for i, day := range schema.DayNames {
		names[i] = strings.ToLower(day)
	}
	return names
}
