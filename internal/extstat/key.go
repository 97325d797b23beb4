package extstat

import (
	"path/filepath"
	"strings"
)

// Key returns the extension of the last path element without the dot.
//
// Names without a dot, names whose only dot is the leading one (".bashrc")
// and names ending in a dot have no extension and report false.
func Key(path string) (string, bool) {
	name := filepath.Base(path)

	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", false
	}

	return name[i+1:], true
}
