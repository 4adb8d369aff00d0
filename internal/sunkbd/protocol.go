// Package sunkbd decodes the byte stream of a Sun Type-3/4/5 keyboard.
//
// The keyboard talks 1200 baud 8N1. Each key press sends its position
// code, each release the code with bit 7 set. 0x7F means no key is held.
package sunkbd

import "fmt"

const BaudRate = 1200

// Keyboard to host.
const (
	codeIdle   byte = 0x7F
	codeLayout byte = 0xFE
	codeReset  byte = 0xFF
	breakBit   byte = 0x80
)

// Keyboard type bytes sent after a reset response.
const (
	TypeSun3 byte = 0x03
	TypeSun4 byte = 0x04
)

// Command is a host to keyboard command byte.
type Command byte

const (
	CmdReset    Command = 0x01
	CmdBellOn   Command = 0x02
	CmdBellOff  Command = 0x03
	CmdClickOn  Command = 0x0A
	CmdClickOff Command = 0x0B
	CmdLED      Command = 0x0E
	CmdLayout   Command = 0x0F
)

// LED bits for CmdLED.
const (
	LEDNumLock    byte = 0x01
	LEDCompose    byte = 0x02
	LEDScrollLock byte = 0x04
	LEDCapsLock   byte = 0x08
)

func (c Command) String() string {
	switch c {
	case CmdReset:
		return "reset"
	case CmdBellOn:
		return "bell-on"
	case CmdBellOff:
		return "bell-off"
	case CmdClickOn:
		return "click-on"
	case CmdClickOff:
		return "click-off"
	case CmdLED:
		return "led"
	case CmdLayout:
		return "layout"
	}
	return fmt.Sprintf("cmd(0x%02X)", byte(c))
}

// Bytes returns the wire form of c. Only CmdLED takes an argument.
func (c Command) Bytes(arg ...byte) []byte {
	b := []byte{byte(c)}
	if c == CmdLED {
		var leds byte
		if len(arg) > 0 {
			leds = arg[0] & 0x0F
		}
		b = append(b, leds)
	}
	return b
}

type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	Idle
	ResetDone
	LayoutReport
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case Idle:
		return "idle"
	case ResetDone:
		return "reset"
	case LayoutReport:
		return "layout"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one decoded keyboard message. Position is set for key events,
// Value holds the keyboard type or layout byte.
type Event struct {
	Kind     EventKind
	Position uint8
	Value    byte
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s K%02X", e.Kind, e.Position)
	case ResetDone, LayoutReport:
		return fmt.Sprintf("%s 0x%02X", e.Kind, e.Value)
	}
	return e.Kind.String()
}

// Decoder turns single bytes into events. The zero value is ready to use.
type Decoder struct {
	pending byte
}

// Feed consumes one byte. ok is false when b only started a two-byte message.
func (d *Decoder) Feed(b byte) (ev Event, ok bool) {
	if p := d.pending; p != 0 {
		d.pending = 0
		if p == codeReset {
			return Event{Kind: ResetDone, Value: b}, true
		}
		return Event{Kind: LayoutReport, Value: b}, true
	}
	switch {
	case b == codeReset, b == codeLayout:
		d.pending = b
		return Event{}, false
	case b == codeIdle:
		return Event{Kind: Idle}, true
	case b&breakBit != 0:
		return Event{Kind: KeyUp, Position: b &^ breakBit}, true
	}
	return Event{Kind: KeyDown, Position: b}, true
}

// Reset drops any half-received message.
func (d *Decoder) Reset() {
	d.pending = 0
}
