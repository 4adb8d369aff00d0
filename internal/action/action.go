// Package action models the composite (modifier set, keycode) actions bound
// to Fn keys and their 16-bit encoded form.
package action

import (
	"fmt"
	"strings"

	"github.com/jetkvm/sun3kbd/internal/keycode"
)

// Mods is a 5-bit modifier set. Bits 0-3 are CTL, SFT, ALT, GUI; bit 4
// selects the right-hand modifiers for the whole set.
type Mods uint8

const (
	LCTL Mods = 0x01
	LSFT Mods = 0x02
	LALT Mods = 0x04
	LGUI Mods = 0x08

	RCTL Mods = 0x11
	RSFT Mods = 0x12
	RALT Mods = 0x14
	RGUI Mods = 0x18

	rightFlag Mods = 0x10
	modMask   Mods = 0x1F
)

// Right reports whether the set refers to right-hand modifiers.
func (m Mods) Right() bool {
	return m&rightFlag != 0
}

// HIDModifier converts the set to a HID report modifier byte.
func (m Mods) HIDModifier() byte {
	b := byte(m & 0x0F)
	if m.Right() {
		return b << 4
	}
	return b
}

var modNames = []string{"CTL", "SFT", "ALT", "GUI"}

func (m Mods) String() string {
	side := "L"
	if m.Right() {
		side = "R"
	}
	var parts []string
	for i, n := range modNames {
		if m&(1<<i) != 0 {
			parts = append(parts, side+n)
		}
	}
	return strings.Join(parts, "+")
}

// ParseMods parses a "+"-joined modifier list such as "LGUI+LSFT". Left and
// right modifiers cannot be mixed in one set.
func ParseMods(s string) (Mods, error) {
	var m Mods
	var side byte
	for _, part := range strings.Split(s, "+") {
		p := strings.ToUpper(strings.TrimSpace(part))
		if len(p) != 4 || (p[0] != 'L' && p[0] != 'R') {
			return 0, fmt.Errorf("invalid modifier %q", part)
		}
		if side != 0 && side != p[0] {
			return 0, fmt.Errorf("mixed left and right modifiers in %q", s)
		}
		side = p[0]
		bit := -1
		for i, n := range modNames {
			if p[1:] == n {
				bit = i
				break
			}
		}
		if bit < 0 {
			return 0, fmt.Errorf("invalid modifier %q", part)
		}
		m |= 1 << bit
	}
	if side == 'R' {
		m |= rightFlag
	}
	return m, nil
}

// Action is a modifier set pressed together with a keycode.
type Action struct {
	Mods Mods
	Key  keycode.Keycode
}

// ModsKey builds the action sent for an Fn key bound to a modified key. A
// right-hand flag with no modifier bits is dropped.
func ModsKey(mods Mods, key keycode.Keycode) Action {
	mods &= modMask
	if mods == rightFlag {
		mods = 0
	}
	return Action{Mods: mods, Key: key}
}

// Code returns the 16-bit action word: kind nibble 0, then the 5-bit
// modifier set, then the keycode.
func (a Action) Code() uint16 {
	return uint16(a.Mods&modMask)<<8 | uint16(a.Key)
}

// FromCode decodes an action word produced by Code.
func FromCode(code uint16) (Action, error) {
	if kind := code >> 12; kind > 1 {
		return Action{}, fmt.Errorf("unsupported action kind %d in 0x%04X", kind, code)
	}
	mods := Mods(code>>8) & modMask
	if mods == rightFlag {
		return Action{}, fmt.Errorf("right-hand flag without modifiers in 0x%04X", code)
	}
	return Action{Mods: mods, Key: keycode.Keycode(code)}, nil
}

func (a Action) String() string {
	if a.Mods&^rightFlag == 0 {
		return a.Key.String()
	}
	return a.Mods.String() + "+" + a.Key.String()
}

// Parse reads the String form, e.g. "LGUI+T" or "LCTL+LSFT+ESC".
func Parse(s string) (Action, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, "+")
	if i < 0 {
		kc, err := keycode.Parse(s)
		if err != nil {
			return Action{}, err
		}
		return Action{Key: kc}, nil
	}
	mods, err := ParseMods(s[:i])
	if err != nil {
		return Action{}, err
	}
	kc, err := keycode.Parse(s[i+1:])
	if err != nil {
		return Action{}, err
	}
	return ModsKey(mods, kc), nil
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
