package extstat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, name := range ModeNames() {
		mode, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, mode.String())
		assert.True(t, mode.Valid())
	}

	mode, err := ParseMode("LINES")
	require.NoError(t, err)
	assert.Equal(t, LineCount, mode)

	_, err = ParseMode("chars")
	require.Error(t, err)
}

func TestModeDefaultsAndValidity(t *testing.T) {
	assert.Equal(t, ByteSize, DefaultMode)
	assert.False(t, Mode(0).Valid())
	assert.False(t, Mode(42).Valid())
	assert.Equal(t, "Mode(42)", Mode(42).String())
}

func TestModeMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Mode Mode `json:"mode"`
	}{Mode: FileCount})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"files"}`, string(data))

	_, err = json.Marshal(Mode(0))
	require.Error(t, err)
}

func TestErrorPolicyString(t *testing.T) {
	assert.Equal(t, "strict", Strict.String())
	assert.Equal(t, "lenient", Lenient.String())
}
