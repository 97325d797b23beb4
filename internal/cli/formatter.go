package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/extstat/internal/extstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Suffix tiers used by FormatQuantity.
const (
	thousand = 1_000
	million  = 1_000_000
	billion  = 1_000_000_000
)

// FormatQuantity shortens v to a single K, M or G tier, truncating the
// remainder. Values below 1000 are printed as is and everything from one
// billion upwards uses G.
func FormatQuantity(v uint64) string {
	switch {
	case v < thousand:
		return strconv.FormatUint(v, 10)
	case v < million:
		return strconv.FormatUint(v/thousand, 10) + "K"
	case v < billion:
		return strconv.FormatUint(v/million, 10) + "M"
	default:
		return strconv.FormatUint(v/billion, 10) + "G"
	}
}

// formatExact prints v with thousands separators.
func formatExact(v uint64) string {
	if v > math.MaxInt64 {
		return strconv.FormatUint(v, 10)
	}

	return humanize.Comma(int64(v))
}

// jsonReport is the JSON shape of a run.
type jsonReport struct {
	Mode       extstat.Mode  `json:"mode"`
	Root       string        `json:"root"`
	Files      int64         `json:"files"`
	Counted    int64         `json:"counted"`
	Skipped    int64         `json:"skipped"`
	Total      uint64        `json:"total"`
	Extensions []extstat.Row `json:"extensions"`
	Errors     []string      `json:"errors"`
	Elapsed    time.Duration `json:"elapsed"`
}

// PrintJSON outputs the result in JSON format.
func PrintJSON(result *extstat.Result, writer io.Writer) error {
	report := jsonReport{
		Mode:       result.Mode,
		Root:       result.Root,
		Files:      result.Files,
		Counted:    result.Counted,
		Skipped:    result.Skipped,
		Total:      result.Table.Total(),
		Extensions: result.Table.Rows(),
		Errors:     make([]string, 0, len(result.Errors)),
		Elapsed:    result.Elapsed,
	}

	for _, err := range result.Errors {
		report.Errors = append(report.Errors, err.Error())
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs a row of extensions above a row of their values,
// sorted by extension. With summary set, run statistics follow the table.
func PrintTable(result *extstat.Result, writer io.Writer, exact, summary bool) error {
	rows := result.Table.Rows()

	if len(rows) == 0 {
		if _, err := fmt.Fprintln(writer, "no files with an extension found"); err != nil {
			return err
		}
	} else {
		names := make([]string, 0, len(rows))
		values := make([]string, 0, len(rows))

		for _, row := range rows {
			names = append(names, "."+row.Ext)

			if exact {
				values = append(values, formatExact(row.Value))
			} else {
				values = append(values, FormatQuantity(row.Value))
			}
		}

		cell := lipgloss.NewStyle().Padding(0, 1)

		rendered := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
			Headers(names...).
			Row(values...)

		if _, err := fmt.Fprintln(writer, rendered.String()); err != nil {
			return err
		}
	}

	if !summary {
		return nil
	}

	return printSummary(result, writer)
}

// printSummary outputs the run statistics.
//
//nolint:forbidigo // This function prints output to the console.
func printSummary(result *extstat.Result, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Mode:\t%s\n", result.Mode)
	fmt.Fprintf(w, "Total files:\t%s\n", humanize.Comma(result.Files))
	fmt.Fprintf(w, "Counted:\t%s\n", humanize.Comma(result.Counted))
	fmt.Fprintf(w, "Without extension:\t%s\n", humanize.Comma(result.Skipped))
	fmt.Fprintf(w, "Total:\t%s\n", formatExact(result.Table.Total()))

	if result.Mode == extstat.ByteSize {
		fmt.Fprintf(w, "Total size:\t%s\n", humanize.IBytes(result.Table.Total()))
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "Skipped paths:\t%d\n", len(result.Errors))
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", result.Elapsed)

	return w.Flush()
}
