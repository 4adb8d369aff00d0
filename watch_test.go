package sun3kbd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetkvm/sun3kbd/internal/keycode"
	"github.com/jetkvm/sun3kbd/internal/keymap"
)

func altKeymap(t *testing.T) *keymap.Provider {
	t.Helper()
	base, err := keymap.Sun3().Layer(0)
	require.NoError(t, err)
	row, col := keymap.Position(posA).Cell()
	base[row][col] = keycode.B
	p, err := keymap.NewProvider("alt", []keymap.Matrix{base}, keymap.Sun3().FnSlots())
	require.NoError(t, err)
	return p
}

func TestLoadKeymap(t *testing.T) {
	p, err := LoadKeymap("")
	require.NoError(t, err)
	assert.Same(t, keymap.Sun3(), p)

	path := filepath.Join(t.TempDir(), "alt.yaml")
	require.NoError(t, keymap.WriteFile(path, altKeymap(t), keymap.FormatYAML))
	p, err = LoadKeymap(path)
	require.NoError(t, err)
	assert.Equal(t, "alt", p.Name())
}

func TestReloadKeymap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	box := newKeymapBox(keymap.Sun3())

	require.NoError(t, keymap.WriteFile(path, keymap.Sun3(), keymap.FormatJSON))
	unchanged := testutil.ToFloat64(keymapReloadsTotal.WithLabelValues("unchanged"))
	require.NoError(t, reloadKeymap(path, box))
	assert.Same(t, keymap.Sun3(), box.Keymap())
	assert.Equal(t, unchanged+1, testutil.ToFloat64(keymapReloadsTotal.WithLabelValues("unchanged")))

	require.NoError(t, keymap.WriteFile(path, altKeymap(t), keymap.FormatJSON))
	require.NoError(t, reloadKeymap(path, box))
	assert.Equal(t, "alt", box.Keymap().Name())

	// a broken file keeps the keymap in place
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, reloadKeymap(path, box))
	assert.Equal(t, "alt", box.Keymap().Name())
}

func TestWatchKeymap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.toml")
	require.NoError(t, keymap.WriteFile(path, keymap.Sun3(), keymap.FormatTOML))

	conv := NewConverter(keymap.Sun3(), &recordingSink{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchKeymap(ctx, path, conv) }()

	alt := altKeymap(t)
	assert.Eventually(t, func() bool {
		if conv.Keymap().Name() == "alt" {
			return true
		}
		// rewrite until the watcher has picked the change up
		assert.NoError(t, keymap.WriteFile(path, alt, keymap.FormatTOML))
		return false
	}, 10*time.Second, 500*time.Millisecond)
	assert.True(t, alt.Equal(conv.Keymap()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
