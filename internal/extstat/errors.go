package extstat

import (
	"errors"
	"fmt"
)

// ErrRoot matches every error caused by a root that cannot be walked at all.
var ErrRoot = errors.New("cannot scan root")

// errNotDirectory is the cause reported when the root is a file.
var errNotDirectory = errors.New("not a directory")

// RootError reports a root directory that is missing, unreadable or not a
// directory. errors.Is(err, ErrRoot) holds for it.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot scan %q: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Is makes RootError match ErrRoot.
func (e *RootError) Is(target error) bool {
	return target == ErrRoot
}

// Operations reported in PathError.
const (
	OpWalk = "walk"
	OpStat = "stat"
	OpRead = "read"
)

// PathError records a failure on a single path after the root was accepted.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
