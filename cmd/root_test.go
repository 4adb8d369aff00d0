package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetkvm/sun3kbd/cmd"
	"github.com/jetkvm/sun3kbd/internal/keymap"
)

// execRoot runs the root command with args and returns what it printed.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rc := cmd.NewRootCommand(strings.NewReader(""), &out, &out)
	rc.SetArgs(args)
	err := rc.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	out, err := execRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Available Commands:")
	for _, sub := range []string{"dump", "export", "lookup", "fn", "run", "serve"} {
		assert.Contains(t, out, sub)
	}
}

func TestLookup(t *testing.T) {
	out, err := execRoot(t, "lookup", "0", "9", "5")
	require.NoError(t, err)
	assert.Equal(t, "K4D A\n", out)

	out, err = execRoot(t, "lookup", "0", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, "K00 NO (no keycode)\n", out)

	_, err = execRoot(t, "lookup", "1", "0", "0")
	assert.ErrorIs(t, err, keymap.ErrIndexOutOfRange)

	_, err = execRoot(t, "lookup", "0", "a", "0")
	assert.Error(t, err)
}

func TestFn(t *testing.T) {
	out, err := execRoot(t, "fn", "0")
	require.NoError(t, err)
	assert.Equal(t, "FN0 layer=2 fallback=NO action=LGUI+T (0x0817)\n", out)

	_, err = execRoot(t, "fn", "10")
	assert.ErrorIs(t, err, keymap.ErrIndexOutOfRange)
}

func TestDump(t *testing.T) {
	out, err := execRoot(t, "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "sun3 layer 0")
	assert.Contains(t, out, "sun3 fn slots")
	assert.Contains(t, out, "LGUI+COMM")
	assert.Contains(t, out, "BSPC")

	_, err = execRoot(t, "dump", "--layer", "3")
	assert.ErrorIs(t, err, keymap.ErrIndexOutOfRange)
}

func TestExport(t *testing.T) {
	out, err := execRoot(t, "export", "--format", "yaml")
	require.NoError(t, err)
	p, err := keymap.Decode(strings.NewReader(out), keymap.FormatYAML)
	require.NoError(t, err)
	assert.True(t, keymap.Sun3().Equal(p))

	// convert the exported file back through --keymap-file
	dir := t.TempDir()
	bin := filepath.Join(dir, "sun3.bin")
	_, err = execRoot(t, "export", "-f", "binary", "-o", bin)
	require.NoError(t, err)
	out, err = execRoot(t, "--keymap-file", bin, "lookup", "0", "9", "5")
	require.NoError(t, err)
	assert.Equal(t, "K4D A\n", out)

	_, err = execRoot(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	require.NoError(t, keymap.WriteFile(path, keymap.Sun3(), keymap.FormatJSON))

	cfgFile := filepath.Join(dir, "sun3kbd.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("keymap-file = \"/nonexistent/map.json\"\n"), 0o644))

	// the file is read, so its bogus keymap path fails the lookup
	_, err := execRoot(t, "--config", cfgFile, "lookup", "0", "9", "5")
	assert.ErrorIs(t, err, os.ErrNotExist)

	// a flag beats the file
	out, err := execRoot(t, "--config", cfgFile, "--keymap-file", path, "lookup", "0", "9", "5")
	require.NoError(t, err)
	assert.Equal(t, "K4D A\n", out)

	// the environment is read too
	t.Setenv("SUN3KBD_KEYMAP_FILE", "/nonexistent/env.json")
	_, err = execRoot(t, "lookup", "0", "9", "5")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "sun3kbd.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("colour = \"blue\"\n"), 0o644))

	_, err := execRoot(t, "--config", cfgFile, "dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid option in configuration file: colour")
}
