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

// PrintPRSummary outputs a pull request summary, dispatching based on the
// output format configured.
func PrintPRSummary(summary *schema.PRSummary, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printPRJSON(summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printPRCSV(summary, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := printPRMarkdown(summary, cfg); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printPRTable(summary, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printPRJSON handles opening the file and calling the JSON writer.
func printPRJSON(summary *schema.PRSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, summary)
	}, "Wrote JSON PR summary")
}

// printPRCSV handles opening the file and calling the CSV writer.
func printPRCSV(summary *schema.PRSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := append([]string{"event", "count"}, lowercaseDayNames()...)
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, row := range prEventRows(summary) {
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV PR summary")
}

// printPRMarkdown handles opening the file and calling the markdown writer.
func printPRMarkdown(summary *schema.PRSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "# Pull request activity for %s\n\n", summary.Author); err != nil {
			return err
		}

		headers := append([]string{"Event", "Count"}, schema.DayNames[:]...)
		return writeMarkdownTable(w, headers, prEventRows(summary))
	}, "Wrote markdown PR summary")
}

// printPRTable prints the human-readable PR summary table.
func printPRTable(summary *schema.PRSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		fmt.Fprintf(w, "Pull request activity for %s\n", summary.Author)

		table := tablewriter.NewWriter(w)

		headers := append([]string{"Event", "Count"}, schema.DayNames[:]...)
		table.Header(headers)

		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		if err := table.Bulk(prEventRows(summary)); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Fprintf(w, "Analysis completed in %v\n", duration)
		return nil
	}, "Wrote PR summary")
}

// prEventRows builds one row per PR event type in a stable order.
func prEventRows(summary *schema.PRSummary) [][]string {
	rows := make([][]string, 0, len(schema.AllPREvents))
	for _, event := range schema.AllPREvents {
		stats, ok := summary.Events[event]
		if !ok {
			continue
		}
		row := []string{string(event), strconv.Itoa(stats.Count)}
		for _, day := range schema.DayNames {
			row = append(row, strconv.Itoa(stats.ByDay[day]))
		}
		rows = append(rows, row)
	}
	return rows
}
