package extstat

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// WalkOptions configures Walk.
type WalkOptions struct {
	// Depth is the maximum depth of emitted files below the root (0=unlimited).
	Depth int
	// Excludes prunes directories and skips files whose slash path matches.
	Excludes []*regexp.Regexp
	// Workers selects the engine: 1 walks sequentially, anything else uses
	// fastwalk with that many workers (0=fastwalk default).
	Workers int
	// Policy decides whether listing errors abort the walk.
	Policy ErrorPolicy
	// OnFile is called once for every emitted file. It must be safe for
	// concurrent use.
	OnFile func()
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Listing is the outcome of Walk.
type Listing struct {
	// Files holds the regular files below the root.
	Files []string
	// Errors lists failures skipped under the Lenient policy.
	Errors []error
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// matchPath is the form of path that exclusion patterns see: slash separated
// and without the "./" that fastwalk keeps for a "." root.
func matchPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := matchPath(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// checkRoot validates that root is an accessible directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &RootError{Root: root, Err: err}
	}

	if !info.IsDir() {
		return &RootError{Root: root, Err: errNotDirectory}
	}

	f, err := os.Open(root)
	if err != nil {
		return &RootError{Root: root, Err: err}
	}
	defer f.Close()

	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return &RootError{Root: root, Err: err}
	}

	return nil
}

// Walk returns every regular file below root.
//
// Symbolic links are resolved before the directory check, so a link to a
// directory is descended into and a link to a file is emitted. Under the
// Strict policy the first listing or stat error aborts the walk; under
// Lenient it is recorded in Listing.Errors and the entry is skipped.
func Walk(ctx context.Context, root string, opt WalkOptions) (*Listing, error) {
	if opt.Logger == nil {
		opt.Logger = discardLogger()
	}

	if err := checkRoot(root); err != nil {
		return nil, err
	}

	w := &walker{opt: opt, root: root}

	var err error
	if opt.Workers == 1 {
		err = w.sequential(ctx)
	} else {
		err = w.parallel(ctx)
	}

	if err != nil {
		return nil, err
	}

	return &Listing{Files: w.files, Errors: w.errs}, nil
}

// walker holds the state shared by both traversal engines. fastwalk calls
// back from multiple goroutines, so every mutation goes through mu.
type walker struct {
	opt  WalkOptions
	root string

	mu    sync.Mutex
	files []string
	errs  []error
}

// fail applies the error policy to a failure on path. A nil return means the
// walk continues.
func (w *walker) fail(path string, err error) error {
	pathErr := &PathError{Op: OpWalk, Path: path, Err: err}

	if w.opt.Policy == Strict {
		return pathErr
	}

	w.opt.Logger.Debug("skipping unreadable path", "path", path, "error", err)

	w.mu.Lock()
	w.errs = append(w.errs, pathErr)
	w.mu.Unlock()

	return nil
}

func (w *walker) emit(path string) {
	w.mu.Lock()
	w.files = append(w.files, path)
	w.mu.Unlock()

	if w.opt.OnFile != nil {
		w.opt.OnFile()
	}
}

// excluded reports whether path is filtered out by the exclusion patterns.
func (w *walker) excluded(path string, isDir bool) bool {
	re := shouldExcludeByPattern(path, w.opt.Excludes)
	if re == nil {
		return false
	}

	kind := "file"
	if isDir {
		kind = "directory"
	}

	w.opt.Logger.Debug("excluding "+kind, "path", matchPath(path), "regex", re.String())

	return true
}

// skipDir reports whether the directory at path is pruned, either by an
// exclusion pattern or because it sits at the depth limit and holds only
// files beyond it.
func (w *walker) skipDir(path string) bool {
	if w.excluded(path, true) {
		return true
	}

	if w.opt.Depth > 0 && calculateDepth(path, w.root) >= w.opt.Depth {
		w.opt.Logger.Debug("skipping directory beyond depth", "depth", w.opt.Depth, "path", path)

		return true
	}

	return false
}

// tooDeep reports whether a file at path lies beyond the depth limit.
func (w *walker) tooDeep(path string) bool {
	return w.opt.Depth > 0 && calculateDepth(path, w.root) > w.opt.Depth
}

// resolve classifies an entry, following symbolic links.
func resolve(path string, typ fs.FileMode) (isDir, isRegular bool, err error) {
	if typ&fs.ModeSymlink == 0 {
		return typ.IsDir(), typ.IsRegular(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, false, err
	}

	return info.IsDir(), info.Mode().IsRegular(), nil
}

// workItem is a pending entry of the sequential engine.
type workItem struct {
	path  string
	isDir bool
}

// sequential walks the tree depth-first with an explicit stack. Entries are
// pushed in reverse so they pop in listing order.
func (w *walker) sequential(ctx context.Context) error {
	stack := []workItem{{path: w.root, isDir: true}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !item.isDir {
			w.emit(item.path)

			continue
		}

		entries, err := os.ReadDir(item.path)
		if err != nil {
			if err := w.fail(item.path, err); err != nil {
				return err
			}

			continue
		}

		for i := len(entries) - 1; i >= 0; i-- {
			path := filepath.Join(item.path, entries[i].Name())

			isDir, isRegular, err := resolve(path, entries[i].Type())
			if err != nil {
				if err := w.fail(path, err); err != nil {
					return err
				}

				continue
			}

			if !isDir && !isRegular {
				continue
			}

			if isDir {
				if w.skipDir(path) {
					continue
				}
			} else if w.excluded(path, false) || w.tooDeep(path) {
				continue
			}

			stack = append(stack, workItem{path: path, isDir: isDir})
		}
	}

	return nil
}

// parallel walks the tree with fastwalk.
func (w *walker) parallel(ctx context.Context) error {
	conf := &fastwalk.Config{
		Follow:     true,
		NumWorkers: w.opt.Workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return w.fail(path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == w.root {
			return nil
		}

		isDir, isRegular, err := resolve(path, d.Type())
		if err != nil {
			return w.fail(path, err)
		}

		// fastwalk descends into linked directories itself and honours
		// SkipDir on the link.
		if isDir {
			if w.skipDir(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if !isRegular {
			return nil
		}

		if w.excluded(path, false) || w.tooDeep(path) {
			return nil
		}

		w.emit(path)

		return nil
	})
	if walkErr == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var pathErr *PathError
	if errors.As(walkErr, &pathErr) {
		return walkErr
	}

	return &PathError{Op: OpWalk, Path: w.root, Err: walkErr}
}
