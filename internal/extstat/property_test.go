package extstat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: per-extension totals equal the sums over the generated files and
// do not depend on traversal order, worker count or engine.

// fileSpec describes a generated file.
type fileSpec struct {
	Ext   string // Extension without dot, empty for none
	Lines int    // Number of "line\n" records
	Dir   int    // Subdirectory index, 0 for the root
}

const recordSize = len("line\n")

func genFileSpec() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("txt", "md", "go", "TXT", "tar.gz", ""),
		gen.IntRange(0, 40),
		gen.IntRange(0, 3),
	).Map(func(vals []interface{}) fileSpec {
		return fileSpec{
			Ext:   vals[0].(string),
			Lines: vals[1].(int),
			Dir:   vals[2].(int),
		}
	})
}

func genFileSpecs() gopter.Gen {
	return gen.SliceOf(genFileSpec())
}

// materialize creates the files and returns their paths.
func materialize(t *testing.T, specs []fileSpec) (string, []string) {
	t.Helper()

	root := t.TempDir()
	paths := make([]string, 0, len(specs))

	for i, spec := range specs {
		name := fmt.Sprintf("file%d", i)
		if spec.Ext != "" {
			name += "." + spec.Ext
		}

		dir := root
		if spec.Dir > 0 {
			dir = filepath.Join(root, fmt.Sprintf("dir%d", spec.Dir), "nested")
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(strings.Repeat("line\n", spec.Lines)), 0o644); err != nil {
			t.Fatal(err)
		}

		paths = append(paths, path)
	}

	return root, paths
}

// expected computes the table a correct aggregation must produce.
func expected(specs []fileSpec, mode Mode) Table {
	table := make(Table)

	for _, spec := range specs {
		if spec.Ext == "" {
			continue
		}

		key := spec.Ext[strings.LastIndexByte(spec.Ext, '.')+1:]

		switch mode {
		case FileCount:
			table.Add(key, 1)
		case ByteSize:
			table.Add(key, uint64(spec.Lines*recordSize))
		case LineCount:
			table.Add(key, uint64(spec.Lines))
		}
	}

	return table
}

func tablesEqual(t *testing.T, want, got Table) bool {
	t.Helper()

	if !slices.Equal(want.Rows(), got.Rows()) {
		t.Logf("want %v, got %v", want.Rows(), got.Rows())

		return false
	}

	return true
}

func TestAggregationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("totals equal per-extension sums in every mode", prop.ForAll(
		func(specs []fileSpec) bool {
			_, paths := materialize(t, specs)

			for _, mode := range []Mode{FileCount, ByteSize, LineCount} {
				agg, err := Aggregate(context.Background(), paths, mode, AggregateOptions{})
				if err != nil {
					t.Logf("aggregate failed: %v", err)

					return false
				}

				if !tablesEqual(t, expected(specs, mode), agg.Table) {
					return false
				}
			}

			return true
		},
		genFileSpecs(),
	))

	properties.Property("file counts sum to the files with an extension", prop.ForAll(
		func(specs []fileSpec) bool {
			_, paths := materialize(t, specs)

			agg, err := Aggregate(context.Background(), paths, FileCount, AggregateOptions{})
			if err != nil {
				return false
			}

			withExt := 0

			for _, spec := range specs {
				if spec.Ext != "" {
					withExt++
				}
			}

			return agg.Table.Total() == uint64(withExt) && agg.Counted == int64(withExt)
		},
		genFileSpecs(),
	))

	properties.Property("input order and worker count do not change the result", prop.ForAll(
		func(specs []fileSpec, workers int) bool {
			_, paths := materialize(t, specs)

			reversed := slices.Clone(paths)
			slices.Reverse(reversed)

			forward, err := Aggregate(context.Background(), paths, LineCount, AggregateOptions{Workers: 1})
			if err != nil {
				return false
			}

			backward, err := Aggregate(context.Background(), reversed, LineCount, AggregateOptions{Workers: workers})
			if err != nil {
				return false
			}

			return tablesEqual(t, forward.Table, backward.Table)
		},
		genFileSpecs(),
		gen.IntRange(1, 8),
	))

	properties.Property("both walk engines feed the same totals", prop.ForAll(
		func(specs []fileSpec) bool {
			root, _ := materialize(t, specs)

			sequential, err := Run(context.Background(), Options{Path: root, Mode: ByteSize, Workers: 1}, nil)
			if err != nil {
				return false
			}

			parallel, err := Run(context.Background(), Options{Path: root, Mode: ByteSize, Workers: 4}, nil)
			if err != nil {
				return false
			}

			return tablesEqual(t, expected(specs, ByteSize), sequential.Table) &&
				tablesEqual(t, sequential.Table, parallel.Table)
		},
		genFileSpecs(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
