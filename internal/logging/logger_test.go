package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsystemLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	defer SetOutput(os.Stderr, false)

	l := GetSubsystemLogger("test")
	assert.Same(t, l, GetSubsystemLogger("test"))

	l.Info().Str("k", "v").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "test", line["subsystem"])
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "v", line["k"])
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	require.NoError(t, SetLevel("WARN"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, SetLevel("loud"))
}
