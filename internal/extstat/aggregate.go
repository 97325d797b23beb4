package extstat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidMode is returned when aggregation is asked for an undeclared Mode.
var ErrInvalidMode = errors.New("invalid mode")

// lineBufferSize is the read buffer used for counting lines.
const lineBufferSize = 32 * 1024

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// Workers bounds the number of files processed at once (0=GOMAXPROCS).
	Workers int
	// Policy decides whether stat and read errors abort the aggregation.
	Policy ErrorPolicy
	// OnFile is called once for every processed file. It must be safe for
	// concurrent use.
	OnFile func()
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Aggregation is the outcome of Aggregate.
type Aggregation struct {
	// Table holds the per-extension totals.
	Table Table
	// Counted is the number of files that contributed to Table.
	Counted int64
	// Skipped is the number of files without an extension.
	Skipped int64
	// Errors lists failures skipped under the Lenient policy.
	Errors []error
}

// partial is the fold state owned by a single worker.
type partial struct {
	table   Table
	counted int64
	skipped int64
	errs    []error
}

func (p *partial) mergeInto(agg *Aggregation) {
	agg.Table.Merge(p.table)
	agg.Counted += p.counted
	agg.Skipped += p.skipped
	agg.Errors = append(agg.Errors, p.errs...)
}

// Aggregate groups files by extension and sums the quantity selected by mode.
//
// Files without an extension are skipped. Every worker folds a disjoint
// share of files into its own partial table and the partials are merged at
// the end, so the totals do not depend on input order or worker count.
// Under the Strict policy the first stat or read error cancels the remaining
// work and is returned.
func Aggregate(ctx context.Context, files []string, mode Mode, opt AggregateOptions) (*Aggregation, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	if opt.Logger == nil {
		opt.Logger = discardLogger()
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = max(1, min(workers, len(files)))

	partials := make([]*partial, workers)

	group, groupCtx := errgroup.WithContext(ctx)

	for w := range workers {
		part := &partial{table: make(Table)}
		partials[w] = part

		group.Go(func() error {
			for i := w; i < len(files); i += workers {
				if err := groupCtx.Err(); err != nil {
					return err
				}

				if err := part.fold(files[i], mode, opt); err != nil {
					return err
				}

				if opt.OnFile != nil {
					opt.OnFile()
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// A cancelled parent can surface as a clean Wait when no file was left.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := &Aggregation{Table: make(Table)}
	for _, part := range partials {
		part.mergeInto(agg)
	}

	opt.Logger.Debug("aggregated files",
		"mode", mode.String(),
		"counted", agg.Counted,
		"skipped", agg.Skipped,
		"errors", len(agg.Errors),
	)

	return agg, nil
}

// fold adds the quantity of a single file to the partial table.
func (p *partial) fold(path string, mode Mode, opt AggregateOptions) error {
	key, ok := Key(path)
	if !ok {
		p.skipped++

		return nil
	}

	qty, err := Quantity(path, mode)
	if err != nil {
		if opt.Policy == Strict {
			return err
		}

		opt.Logger.Debug("skipping unreadable file", "path", path, "error", err)
		p.errs = append(p.errs, err)

		return nil
	}

	p.table.Add(key, qty)
	p.counted++

	return nil
}

// Quantity returns the amount a single file contributes under mode.
// Failures are reported as *PathError.
func Quantity(path string, mode Mode) (uint64, error) {
	switch mode {
	case FileCount:
		return 1, nil
	case ByteSize:
		info, err := os.Stat(path)
		if err != nil {
			return 0, &PathError{Op: OpStat, Path: path, Err: err}
		}

		return uint64(info.Size()), nil //nolint:gosec // Sizes of regular files are never negative
	case LineCount:
		f, err := os.Open(path)
		if err != nil {
			return 0, &PathError{Op: OpRead, Path: path, Err: err}
		}
		defer f.Close()

		lines, err := CountLines(f)
		if err != nil {
			return 0, &PathError{Op: OpRead, Path: path, Err: err}
		}

		return lines, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
}

// CountLines returns the number of newline-delimited records in r.
// A final record without a trailing newline counts as a line; empty input
// has no lines.
func CountLines(r io.Reader) (uint64, error) {
	buf := make([]byte, lineBufferSize)

	var lines uint64

	last := byte('\n')

	for {
		n, err := r.Read(buf)
		if n > 0 {
			lines += uint64(bytes.Count(buf[:n], []byte{'\n'})) //nolint:gosec // Count is never negative
			last = buf[n-1]
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return 0, err
		}
	}

	if last != '\n' {
		lines++
	}

	return lines, nil
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
