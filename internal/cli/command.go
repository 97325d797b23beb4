package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/extstat/internal/extstat"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

// settings is everything parsed from the command line.
type settings struct {
	fileCount bool
	charCount bool
	lineCount bool
	mode      string
	output    string
	exact     bool
	summary   bool
	keepGoing bool
	jobs      int
	depth     int
	excludes  []string
	debug     bool
}

// registerFlags binds the command-line flags to s.
func registerFlags(flags *pflag.FlagSet, s *settings) {
	flags.BoolVarP(&s.fileCount, "file-count", "f", false, "Count files per extension")
	flags.BoolVarP(&s.charCount, "char-count", "c", false, "Sum file sizes in bytes per extension (default)")
	flags.BoolVarP(&s.lineCount, "line-count", "l", false, "Sum line counts per extension")
	flags.StringVarP(&s.mode, "mode", "m", "", fmt.Sprintf("Metric by name: one of %v", extstat.ModeNames()))
	flags.StringVarP(&s.output, "output", "o", "table", "Output format: json or table")
	flags.BoolVar(&s.exact, "exact", false, "Print exact values instead of K/M/G suffixes")
	flags.BoolVarP(&s.summary, "summary", "s", false, "Print run statistics below the table")
	flags.BoolVarP(&s.keepGoing, "keep-going", "k", false, "Skip unreadable paths and report them at the end")
	flags.IntVarP(&s.jobs, "jobs", "j", 0, "Number of workers (0=auto, 1=sequential)")
	flags.IntVarP(&s.depth, "depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.StringSliceVarP(&s.excludes, "exclude", "e", []string{}, "Regex patterns to exclude")
	flags.BoolVar(&s.debug, "debug", false, "Enable debug output")

	flags.SortFlags = false
}

// modeFromFlags resolves the metric mode once, before any traversal.
// The flags are mutually exclusive, so at most one of them is set.
func (s settings) modeFromFlags() (extstat.Mode, error) {
	switch {
	case s.fileCount:
		return extstat.FileCount, nil
	case s.charCount:
		return extstat.ByteSize, nil
	case s.lineCount:
		return extstat.LineCount, nil
	case s.mode != "":
		return extstat.ParseMode(s.mode)
	default:
		return extstat.DefaultMode, nil
	}
}

// options validates the settings and builds the run configuration.
func (s settings) options(args []string) (extstat.Options, error) {
	var options extstat.Options

	if !slices.Contains(allowedOutputs, s.output) {
		return options, fmt.Errorf("invalid output format %q: must be one of %v", s.output, allowedOutputs)
	}

	if s.depth < 0 {
		return options, errors.New("depth cannot be negative")
	}

	if s.jobs < 0 {
		return options, errors.New("jobs cannot be negative")
	}

	mode, err := s.modeFromFlags()
	if err != nil {
		return options, err
	}

	options.Mode = mode
	options.Depth = s.depth
	options.Workers = s.jobs
	options.Excludes = s.excludes

	if s.keepGoing {
		options.Policy = extstat.Lenient
	}

	if len(args) == 0 {
		options.Path = "."
	} else {
		options.Path = args[0]
	}

	return options, nil
}

// newCommand builds the root command writing to the given streams.
func (c CLI) newCommand(stdout, stderr io.Writer) *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "extstat [flags] [path]",
		Short: "Aggregate file counts, sizes or line counts per file extension",
		Long: heredoc.Doc(`
			extstat walks a directory tree and aggregates a metric per file extension.

			Positional Arguments:
			  path    Directory to analyze. Defaults to the current directory.

			Metrics:
			  Byte size is the default. Use -f to count files or -l to count lines.
			  Files without an extension (Makefile, .bashrc, notes.) are ignored.

			Errors:
			  Any unreadable directory or file aborts the run. Use --keep-going to
			  skip such paths; they are listed at the end and the exit status is 1.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := s.options(args)
			if err != nil {
				return err
			}

			options.Logger = newLogger(stderr, s.debug)

			return logic(cmd.Context(), options, view{
				output:  s.output,
				exact:   s.exact,
				summary: s.summary,
				debug:   s.debug,
			}, stdout, stderr)
		},
	}

	registerFlags(cmd.Flags(), &s)
	cmd.MarkFlagsMutuallyExclusive("file-count", "char-count", "line-count", "mode")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.newCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}
