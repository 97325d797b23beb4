package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/extstat/internal/extstat"
)

// view holds the presentation settings.
type view struct {
	output  string
	exact   bool
	summary bool
	debug   bool
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, options extstat.Options, v view, stdout, stderr io.Writer) error {
	enableProgress := strings.ToLower(v.output) != "json" &&
		!v.debug &&
		isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(walked, processed int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(walked, processed int64) {
			msg := fmt.Sprintf("Scanning… %s files found, %s measured",
				humanize.Comma(walked), humanize.Comma(processed))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	result, err := extstat.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch strings.ToLower(v.output) {
	case "json":
		err = PrintJSON(result, stdout)
	case "table":
		err = PrintTable(result, stdout, v.exact, v.summary)
	default:
		return fmt.Errorf("unknown output format: %s", v.output)
	}

	if err != nil {
		return err
	}

	return reportSkipped(result.Errors, stderr)
}

// reportSkipped lists the paths skipped under the lenient policy and turns
// them into a failing exit.
func reportSkipped(errs []error, stderr io.Writer) error {
	if len(errs) == 0 {
		return nil
	}

	for _, err := range errs {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}

	return fmt.Errorf("%d path(s) could not be processed", len(errs))
}
