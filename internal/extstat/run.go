package extstat

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// progress counts walked and processed files for the progress hook.
type progress struct {
	walked    atomic.Int64
	processed atomic.Int64
}

// startProgressReporter invokes hook(walked, processed) on each tick until ctx
// is done. The returned function blocks until the reporter has exited, so no
// hook call is in flight once it returns.
func startProgressReporter(ctx context.Context, p *progress, hook func(int64, int64), interval time.Duration) func() {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.walked.Load(), p.processed.Load())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { <-done }
}

// compileExcludes compiles the exclusion patterns.
func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludeRegexes := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	return excludeRegexes, nil
}

// Run walks opt.Path and aggregates the quantity selected by opt.Mode per
// file extension.
//
// The walk completes before any file is measured. Under the Strict policy
// the first per-path error ends the run; under Lenient the failures are
// collected in Result.Errors and the run completes with the remaining files.
//
// The run can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(walked, processed int64)) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = discardLogger()
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if opt.Mode == 0 {
		opt.Mode = DefaultMode
	}

	if !opt.Mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(opt.Mode))
	}

	if opt.Depth < 0 {
		return nil, fmt.Errorf("depth cannot be negative: %d", opt.Depth)
	}

	if opt.Workers < 0 {
		return nil, fmt.Errorf("workers cannot be negative: %d", opt.Workers)
	}

	excludeRegexes, err := compileExcludes(opt.Excludes)
	if err != nil {
		return nil, err
	}

	log.Debug("starting run",
		"root", opt.Path,
		"mode", opt.Mode.String(),
		"policy", opt.Policy.String(),
		"depth", opt.Depth,
		"workers", opt.Workers,
	)

	for _, re := range excludeRegexes {
		log.Debug("exclude regex", "pattern", re.String())
	}

	// Child context stops the progress reporter on return
	ctx, cancel := context.WithCancel(ctx)

	var counters progress

	wait := startProgressReporter(ctx, &counters, progressHook, opt.ProgressInterval)

	defer func() {
		cancel()
		wait()
	}()

	start := time.Now()

	listing, err := Walk(ctx, opt.Path, WalkOptions{
		Depth:    opt.Depth,
		Excludes: excludeRegexes,
		Workers:  opt.Workers,
		Policy:   opt.Policy,
		OnFile:   func() { counters.walked.Add(1) },
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("walk finished", "files", len(listing.Files), "errors", len(listing.Errors))

	agg, err := Aggregate(ctx, listing.Files, opt.Mode, AggregateOptions{
		Workers: opt.Workers,
		Policy:  opt.Policy,
		OnFile:  func() { counters.processed.Add(1) },
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	errs := make([]error, 0, len(listing.Errors)+len(agg.Errors))
	errs = append(errs, listing.Errors...)
	errs = append(errs, agg.Errors...)

	return &Result{
		Mode:    opt.Mode,
		Root:    opt.Path,
		Table:   agg.Table,
		Files:   int64(len(listing.Files)),
		Counted: agg.Counted,
		Skipped: agg.Skipped,
		Errors:  errs,
		Elapsed: time.Since(start),
	}, nil
}
