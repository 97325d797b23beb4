package extstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableFoldAndMerge(t *testing.T) {
	left := make(Table)
	left.Add("txt", 500)
	left.Add("txt", 1500)
	left.Add("md", 200)

	right := Table{"go": 7, "md": 1}

	left.Merge(right)

	assert.Equal(t, Table{"txt": 2000, "md": 201, "go": 7}, left)
	assert.Equal(t, []string{"go", "md", "txt"}, left.Keys())
	assert.Equal(t, uint64(2208), left.Total())
	assert.Equal(t, []Row{{"go", 7}, {"md", 201}, {"txt", 2000}}, left.Rows())
}

func TestTableEmpty(t *testing.T) {
	empty := make(Table)

	assert.Empty(t, empty.Keys())
	assert.Empty(t, empty.Rows())
	assert.Zero(t, empty.Total())
}

func TestTableKeysAreByteOrdered(t *testing.T) {
	table := Table{"txt": 1, "TXT": 1, "a": 1, "Z": 1}

	assert.Equal(t, []string{"TXT", "Z", "a", "txt"}, table.Keys())
}
