package sun3kbd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jetkvm/sun3kbd/internal/keymap"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 200 * time.Millisecond

// KeymapHolder owns a replaceable keymap.
type KeymapHolder interface {
	Keymap() *keymap.Provider
	SetKeymap(p *keymap.Provider)
}

// keymapBox is a KeymapHolder with nothing attached to it.
type keymapBox struct {
	p atomic.Pointer[keymap.Provider]
}

func newKeymapBox(p *keymap.Provider) *keymapBox {
	b := &keymapBox{}
	b.p.Store(p)
	return b
}

func (b *keymapBox) Keymap() *keymap.Provider { return b.p.Load() }

func (b *keymapBox) SetKeymap(p *keymap.Provider) {
	b.p.Store(p)
	keymapLogger.Info().Str("name", p.Name()).Msg("keymap replaced")
}

// LoadKeymap returns the keymap stored at path, or the built-in Type-3 map
// when path is empty.
func LoadKeymap(path string) (*keymap.Provider, error) {
	if path == "" {
		return keymap.Sun3(), nil
	}
	p, err := keymap.LoadFile(path)
	if err != nil {
		return nil, err
	}
	keymapLogger.Info().Str("path", path).Str("name", p.Name()).Int("layers", p.Layers()).Msg("keymap loaded")
	return p, nil
}

// reloadKeymap loads path and hands it to h. A keymap that fails to load
// leaves the current one in place.
func reloadKeymap(path string, h KeymapHolder) error {
	p, err := keymap.LoadFile(path)
	if err != nil {
		keymapReloadsTotal.WithLabelValues("error").Inc()
		return err
	}
	if cur := h.Keymap(); p.Equal(cur) && p.Name() == cur.Name() {
		keymapReloadsTotal.WithLabelValues("unchanged").Inc()
		return nil
	}
	h.SetKeymap(p)
	keymapReloadsTotal.WithLabelValues("ok").Inc()
	return nil
}

// WatchKeymap reloads path into h whenever it changes, until ctx is done.
// The directory is watched so renames over the file are seen.
func WatchKeymap(ctx context.Context, path string, h KeymapHolder) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("keymap watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	keymapLogger.Info().Str("path", abs).Msg("watching keymap")

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			keymapLogger.Trace().Str("op", ev.Op.String()).Msg("keymap changed")
			timer.Reset(reloadDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			keymapLogger.Warn().Err(err).Msg("keymap watcher error")
		case <-timer.C:
			if err := reloadKeymap(abs, h); err != nil {
				keymapLogger.Warn().Err(err).Str("path", abs).Msg("keymap reload failed, keeping current keymap")
			}
		}
	}
}
