package extstat

import (
	"fmt"
	"strings"
)

// Mode selects the per-file quantity that is accumulated.
type Mode int

const (
	// FileCount counts every file as 1.
	FileCount Mode = iota + 1
	// ByteSize sums the on-disk size of files.
	ByteSize
	// LineCount sums the number of newline-delimited lines in files.
	LineCount
)

// DefaultMode is used when no mode was selected.
const DefaultMode = ByteSize

//nolint:gochecknoglobals // Lookup table
var modeNames = map[Mode]string{
	FileCount: "files",
	ByteSize:  "bytes",
	LineCount: "lines",
}

// ModeNames returns the accepted mode names in declaration order.
func ModeNames() []string {
	return []string{FileCount.String(), ByteSize.String(), LineCount.String()}
}

// ParseMode converts a mode name (files, bytes or lines) to a Mode.
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if strings.EqualFold(name, n) {
			return mode, nil
		}
	}

	return 0, fmt.Errorf("unknown mode %q: must be one of %v", name, ModeNames())
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]

	return ok
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}

	return []byte(m.String()), nil
}

// ErrorPolicy decides what happens when a single path cannot be listed,
// stat'ed or read.
type ErrorPolicy int

const (
	// Strict aborts the run on the first per-path error.
	Strict ErrorPolicy = iota
	// Lenient records per-path errors, skips the offending path and continues.
	Lenient
)

func (p ErrorPolicy) String() string {
	if p == Lenient {
		return "lenient"
	}

	return "strict"
}
