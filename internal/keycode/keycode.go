// Package keycode defines the logical keycodes stored in keymap tables.
//
// Values 0x04-0x7E are HID keyboard page usages and can be sent as-is in a
// boot keyboard report, as can the eight modifiers at 0xE0-0xE7. System
// control, consumer (media) and Fn keys are converter-internal. Codes with no
// name are written and parsed in hex, e.g. "0x80".
package keycode

import (
	"fmt"
	"strconv"
	"strings"
)

// Keycode is a logical key identifier as stored in a keymap cell.
type Keycode uint8

// None is the "no key present" sentinel.
const None Keycode = 0x00

// HID keyboard page.
const (
	RollOver  Keycode = 0x01
	PostFail  Keycode = 0x02
	Undefined Keycode = 0x03

	A Keycode = 0x04 + iota - 3
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	Enter
	Escape
	Backspace
	Tab
	Space
	Minus
	Equal
	LBracket
	RBracket
	Backslash
	NonUSHash
	Semicolon
	Quote
	Grave
	Comma
	Dot
	Slash
	CapsLock
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	PrintScreen
	ScrollLock
	Pause
	Insert
	Home
	PageUp
	Delete
	End
	PageDown
	Right
	Left
	Down
	Up
	NumLock
	KPSlash
	KPAsterisk
	KPMinus
	KPPlus
	KPEnter
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9
	KP0
	KPDot
	NonUSBackslash
	Application
	Power
	KPEqual
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
	Execute
	Help
	Menu
	Select
	Stop
	Again
	Undo
	Cut
	Copy
	Paste
	Find
)

// System control and consumer page keys.
const (
	SystemPower Keycode = 0xA5 + iota
	SystemSleep
	SystemWake
	AudioMute
	AudioVolUp
	AudioVolDown
	MediaNextTrack
	MediaPrevTrack
	MediaStop
	MediaPlayPause
	MediaSelect
	Mail
	Calculator
	MyComputer
	WWWSearch
	WWWHome
	WWWBack
	WWWForward
	WWWStop
	WWWRefresh
	WWWFavorites
)

// Fn keys. Their index into the Fn slot table is kc - Fn0.
const (
	Fn0 Keycode = 0xC0 + iota
	Fn1
	Fn2
	Fn3
	Fn4
	Fn5
	Fn6
	Fn7
	Fn8
	Fn9
	Fn10
	Fn11
	Fn12
	Fn13
	Fn14
	Fn15
	Fn16
	Fn17
	Fn18
	Fn19
	Fn20
	Fn21
	Fn22
	Fn23
	Fn24
	Fn25
	Fn26
	Fn27
	Fn28
	Fn29
	Fn30
	Fn31
)

// Modifiers, in HID modifier-bit order.
const (
	LCtrl Keycode = 0xE0 + iota
	LShift
	LAlt
	LGUI
	RCtrl
	RShift
	RAlt
	RGUI
)

// FnCount is the number of addressable Fn keycodes.
const FnCount = int(Fn31-Fn0) + 1

// Defined reports whether kc maps to a key, i.e. is not the None sentinel.
func (kc Keycode) Defined() bool {
	return kc != None
}

// IsKey reports whether kc is a keyboard page usage that fits in the key
// array of a boot keyboard report.
func (kc Keycode) IsKey() bool {
	return kc > Undefined && kc <= Find
}

func (kc Keycode) IsSystem() bool {
	return kc >= SystemPower && kc <= SystemWake
}

func (kc Keycode) IsConsumer() bool {
	return kc >= AudioMute && kc <= WWWFavorites
}

func (kc Keycode) IsFn() bool {
	return kc >= Fn0 && kc <= Fn31
}

func (kc Keycode) IsModifier() bool {
	return kc >= LCtrl && kc <= RGUI
}

// FnIndex returns the dense Fn slot index of an Fn keycode.
func (kc Keycode) FnIndex() (int, bool) {
	if !kc.IsFn() {
		return 0, false
	}
	return int(kc - Fn0), true
}

// ModBit returns the HID report modifier bit of a modifier keycode, or 0.
func (kc Keycode) ModBit() byte {
	if !kc.IsModifier() {
		return 0
	}
	return 1 << (kc - LCtrl)
}

// FnKey returns the Fn keycode for slot index i.
func FnKey(i int) (Keycode, error) {
	if i < 0 || i >= FnCount {
		return None, fmt.Errorf("fn index %d out of range [0,%d)", i, FnCount)
	}
	return Fn0 + Keycode(i), nil
}

var consumerUsages = map[Keycode]uint16{
	AudioMute:      0x00E2,
	AudioVolUp:     0x00E9,
	AudioVolDown:   0x00EA,
	MediaNextTrack: 0x00B5,
	MediaPrevTrack: 0x00B6,
	MediaStop:      0x00B7,
	MediaPlayPause: 0x00CD,
	MediaSelect:    0x0183,
	Mail:           0x018A,
	Calculator:     0x0192,
	MyComputer:     0x0194,
	WWWSearch:      0x0221,
	WWWHome:        0x0223,
	WWWBack:        0x0224,
	WWWForward:     0x0225,
	WWWStop:        0x0226,
	WWWRefresh:     0x0227,
	WWWFavorites:   0x022A,
}

// ConsumerUsage returns the HID consumer page usage of a consumer key.
func (kc Keycode) ConsumerUsage() (uint16, bool) {
	u, ok := consumerUsages[kc]
	return u, ok
}

// SystemUsage returns the HID generic desktop system control usage.
func (kc Keycode) SystemUsage() (uint16, bool) {
	if !kc.IsSystem() {
		return 0, false
	}
	return 0x81 + uint16(kc-SystemPower), true
}

func (kc Keycode) String() string {
	if n := names[kc]; n != "" {
		return n
	}
	return "0x" + strings.ToUpper(strconv.FormatUint(uint64(kc), 16))
}

func (kc Keycode) MarshalText() ([]byte, error) {
	return []byte(kc.String()), nil
}

func (kc *Keycode) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*kc = v
	return nil
}

// Parse resolves a keycode name. Short keymap names (SCLN, BSPC), long
// aliases (SEMICOLON, BSPACE), the hex form String uses for unnamed codes and
// an optional KC_ prefix are accepted.
func Parse(name string) (Keycode, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "KC_")
	if n == "" {
		return None, fmt.Errorf("empty keycode name")
	}
	if kc, ok := byName[n]; ok {
		return kc, nil
	}
	if hex, ok := strings.CutPrefix(n, "0X"); ok {
		v, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return None, fmt.Errorf("keycode %q: %w", name, err)
		}
		return Keycode(v), nil
	}
	return None, fmt.Errorf("unknown keycode %q", name)
}

// All returns every named keycode in ascending order, None included.
func All() []Keycode {
	out := make([]Keycode, 0, len(byName))
	for i := 0; i < len(names); i++ {
		if names[i] != "" {
			out = append(out, Keycode(i))
		}
	}
	return out
}
