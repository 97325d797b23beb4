package extstat

import (
	"log/slog"
	"sort"
	"time"
)

// Table maps an extension (without the dot) to its accumulated quantity.
type Table map[string]uint64

// Add folds qty into the value stored under key.
func (t Table) Add(key string, qty uint64) {
	t[key] += qty
}

// Merge folds every entry of other into t.
func (t Table) Merge(other Table) {
	for key, qty := range other {
		t[key] += qty
	}
}

// Keys returns the extensions in lexicographic order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Row is a single extension and its accumulated quantity.
type Row struct {
	// Ext is the extension without the leading dot.
	Ext string `json:"ext"`
	// Value is the accumulated quantity.
	Value uint64 `json:"value"`
}

// Rows returns the table sorted by extension.
func (t Table) Rows() []Row {
	rows := make([]Row, 0, len(t))
	for _, key := range t.Keys() {
		rows = append(rows, Row{Ext: key, Value: t[key]})
	}

	return rows
}

// Total returns the sum over all extensions.
func (t Table) Total() uint64 {
	var total uint64
	for _, qty := range t {
		total += qty
	}

	return total
}

// Result holds the outcome of a run.
type Result struct {
	// Mode is the quantity that was accumulated.
	Mode Mode
	// Root is the cleaned root directory.
	Root string
	// Table holds the per-extension totals.
	Table Table
	// Files is the number of regular files found by the walk.
	Files int64
	// Counted is the number of files that contributed to Table.
	Counted int64
	// Skipped is the number of files without an extension.
	Skipped int64
	// Errors lists per-path failures recorded under the Lenient policy.
	Errors []error
	// Elapsed is the total time taken for the run.
	Elapsed time.Duration
}

// Options configures a run.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// Mode selects the accumulated quantity (zero = DefaultMode).
	Mode Mode
	// Policy selects strict or lenient handling of per-path errors.
	Policy ErrorPolicy
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int
	// Workers is the number of walk and aggregation workers (0=auto, 1=sequential).
	Workers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}
