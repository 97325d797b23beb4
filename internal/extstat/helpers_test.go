package extstat

import (
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files below root. Keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relSorted returns paths relative to root in slash form, sorted.
func relSorted(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))

	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	sort.Strings(out)

	return out
}

// sized returns n bytes of filler.
func sized(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}

	return string(b)
}

// atomicCounter counts calls from concurrent callbacks.
type atomicCounter struct {
	n atomic.Int64
}

func (c *atomicCounter) inc() { c.n.Add(1) }

func (c *atomicCounter) load() int64 { return c.n.Load() }
