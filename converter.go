// Package sun3kbd turns the serial stream of a Sun Type-3 keyboard into USB
// HID keyboard reports.
package sun3kbd

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/jetkvm/sun3kbd/internal/hid"
	"github.com/jetkvm/sun3kbd/internal/keycode"
	"github.com/jetkvm/sun3kbd/internal/keymap"
	"github.com/jetkvm/sun3kbd/internal/sunkbd"
)

// Converter maps keyboard events through the current keymap and forwards the
// resulting reports to a sink. The keymap can be replaced at any time.
type Converter struct {
	id     xid.ID
	log    zerolog.Logger
	keymap atomic.Pointer[keymap.Provider]
	sink   ReportSink

	stateLock sync.Mutex
	kbd       *hid.Keyboard
	// keycode resolved at press time, so a swapped keymap cannot strand a key
	held map[keymap.Position]keycode.Keycode

	sentReport   hid.Report
	sentConsumer uint16
	sentSystem   uint16
	overflow     int
}

func NewConverter(p *keymap.Provider, sink ReportSink) *Converter {
	id := xid.New()
	c := &Converter{
		id:   id,
		log:  converterLogger.With().Str("session", id.String()).Logger(),
		sink: sink,
		kbd:  hid.NewKeyboard(),
		held: map[keymap.Position]keycode.Keycode{},
	}
	c.keymap.Store(p)
	return c
}

// ID identifies this converter in logs.
func (c *Converter) ID() xid.ID { return c.id }

// Keymap returns the keymap in use.
func (c *Converter) Keymap() *keymap.Provider { return c.keymap.Load() }

// SetKeymap swaps the keymap. Keys already held release with the keycode
// they were pressed with.
func (c *Converter) SetKeymap(p *keymap.Provider) {
	old := c.keymap.Swap(p)
	c.log.Info().Str("from", old.Name()).Str("to", p.Name()).Msg("keymap replaced")
}

// HandleEvent applies one decoded keyboard event.
func (c *Converter) HandleEvent(ev sunkbd.Event) error {
	keyEventsTotal.WithLabelValues(ev.Kind.String()).Inc()

	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	if ev.Kind == sunkbd.KeyDown || ev.Kind == sunkbd.KeyUp {
		lastInputTimestamp.SetToCurrentTime()
	}

	switch ev.Kind {
	case sunkbd.KeyDown:
		return c.press(keymap.Position(ev.Position))
	case sunkbd.KeyUp:
		return c.release(keymap.Position(ev.Position))
	case sunkbd.Idle:
		if len(c.held) > 0 {
			c.log.Debug().Int("held", len(c.held)).Msg("idle with keys held, releasing all")
		}
		return c.releaseAll()
	case sunkbd.ResetDone:
		c.log.Info().Uint8("type", ev.Value).Msg("keyboard reset")
		if ev.Value != sunkbd.TypeSun3 {
			c.log.Warn().Uint8("type", ev.Value).Msg("not a Type-3 keyboard, positions may not match the keymap")
		}
		return c.releaseAll()
	case sunkbd.LayoutReport:
		c.log.Info().Uint8("layout", ev.Value).Msg("keyboard layout")
	}
	return nil
}

// Release drops every held key, as when the keyboard line goes away.
func (c *Converter) Release() error {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()
	return c.releaseAll()
}

func (c *Converter) press(pos keymap.Position) error {
	if _, ok := c.held[pos]; ok {
		return nil
	}
	p := c.keymap.Load()
	row, col := pos.Cell()
	kc, ok, err := p.Lookup(0, row, col)
	if err != nil {
		lookupErrorsTotal.Inc()
		return fmt.Errorf("key %s: %w", pos, err)
	}
	if !ok {
		undefinedKeysTotal.Inc()
		c.log.Debug().Stringer("position", pos).Msg("no keycode at position")
		return nil
	}
	c.held[pos] = kc

	if kc.IsFn() {
		a, err := p.FnToAction(kc)
		if err != nil {
			// an Fn keycode beyond the slots the keymap defines
			lookupErrorsTotal.Inc()
			delete(c.held, pos)
			return fmt.Errorf("key %s: %w", pos, err)
		}
		c.log.Trace().Stringer("position", pos).Stringer("fn", kc).Stringer("action", a).Msg("fn action")
		c.kbd.PressAction(kc, a)
	} else {
		c.log.Trace().Stringer("position", pos).Stringer("keycode", kc).Msg("press")
		c.kbd.Press(kc)
	}
	return c.flush()
}

func (c *Converter) release(pos keymap.Position) error {
	kc, ok := c.held[pos]
	if !ok {
		return nil
	}
	delete(c.held, pos)
	if kc.IsFn() {
		c.kbd.ReleaseAction(kc)
	} else {
		c.kbd.Release(kc)
	}
	return c.flush()
}

func (c *Converter) releaseAll() error {
	for pos := range c.held {
		delete(c.held, pos)
	}
	c.kbd.Reset()
	return c.flush()
}

// flush sends every report that differs from what the sink last received.
func (c *Converter) flush() error {
	if n := c.kbd.Overflow(); n > c.overflow {
		rolloverTotal.Add(float64(n - c.overflow))
		c.overflow = n
	}

	var errs []error
	if r := c.kbd.Report(); r != c.sentReport {
		if err := c.sink.KeyboardReport(r.Modifier, r.Keys[:]); err != nil {
			errs = append(errs, fmt.Errorf("keyboard report: %w", err))
		} else {
			c.sentReport = r
			reportsSentTotal.WithLabelValues("keyboard").Inc()
		}
	}
	if u := c.kbd.Consumer(); u != c.sentConsumer {
		if err := c.sink.ConsumerReport(u); err != nil {
			errs = append(errs, fmt.Errorf("consumer report: %w", err))
		} else {
			c.sentConsumer = u
			reportsSentTotal.WithLabelValues("consumer").Inc()
		}
	}
	if u := c.kbd.System(); u != c.sentSystem {
		if err := c.sink.SystemReport(u); err != nil {
			errs = append(errs, fmt.Errorf("system report: %w", err))
		} else {
			c.sentSystem = u
			reportsSentTotal.WithLabelValues("system").Inc()
		}
	}
	if len(errs) > 0 {
		sinkErrorsTotal.Add(float64(len(errs)))
		return errors.Join(errs...)
	}
	return nil
}
