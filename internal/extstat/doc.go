// Package extstat aggregates per-extension statistics over a directory tree.
//
// A run is two passes. Walk collects the regular files below a root, either
// sequentially with an explicit work-list or in parallel with fastwalk.
// Aggregate then folds one quantity per file (a count, the byte size or the
// line count) into a Table keyed by file extension. Files without an
// extension are ignored.
//
// Symbolic link cycles are not detected. The parallel engine inherits
// fastwalk's guard and skips a link that points back to one of its ancestors,
// while the sequential engine follows it until the OS reports ELOOP, which
// aborts the walk under Strict.
//
// Totals do not depend on traversal order or worker count, and Table exposes
// its contents sorted by extension.
package extstat
