package keymap

import (
	"fmt"

	"github.com/jetkvm/sun3kbd/internal/action"
	kc "github.com/jetkvm/sun3kbd/internal/keycode"
)

/*
Sun Type-3 keyboard, physical positions (scancodes in hex):

,-------.  ,-----------------------------------------------------------.  ,-----------.
| 01| 03|  | 05| 06|     08|     0A|     0C|     0E|     10| 11| 12| 2B|  | 15| 16| 17|
|-------|  |-----------------------------------------------------------|  |-----------|
| 19| 1A|  | 1D| 1E| 1F| 20| 21| 22| 23| 24| 25| 26| 27| 28| 29| 58| 2A|  | 2D| 2E| 2F|
|-------|  |-----------------------------------------------------------|  |-----------|
| 31| 33|  |  35 | 36| 37| 38| 39| 3A| 3B| 3C| 3D| 3E| 3F| 40| 41| 42  |  | 44| 45| 46|
|-------|  |-----------------------------------------------------------|  |-----------|
| 48| 49|  |  4C  | 4D| 4E| 4F| 50| 51| 52| 53| 54| 55| 56| 57|   59   |  | 5B| 5C| 5D|
|-------|  |-----------------------------------------------------------|  |-----------|
| 5F| 61|  |   63   | 64| 65| 66| 67| 68| 69| 6A| 6B| 6C| 6D|    6E| 6F|  | 70| 71| 72|
`-------'  |-----------------------------------------------------------|  `-----------'
           | 77 | 78  |               79                  | 7A  |   13 |
           `-----------------------------------------------------------'

Position p lives at matrix row p>>3, column p&7.
*/

// Sun3Layout is the Type-3 diagram above, row by row.
var Sun3Layout = Layout{
	0x01, 0x03, 0x05, 0x06, 0x08, 0x0A, 0x0C, 0x0E, 0x10, 0x11, 0x12, 0x2B, 0x15, 0x16, 0x17,
	0x19, 0x1A, 0x1D, 0x1E, 0x1F, 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x58, 0x2A, 0x2D, 0x2E, 0x2F,
	0x31, 0x33, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F, 0x40, 0x41, 0x42, 0x44, 0x45, 0x46,
	0x48, 0x49, 0x4C, 0x4D, 0x4E, 0x4F, 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57, 0x59, 0x5B, 0x5C, 0x5D,
	0x5F, 0x61, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F, 0x70, 0x71, 0x72,
	0x77, 0x78, 0x79, 0x7A, 0x13,
}

// Sun3Name names the reference keymap.
const Sun3Name = "sun3"

func sun3Base() (Matrix, error) {
	return Sun3Layout.Build(
		kc.Fn0, kc.Fn1, kc.F1, kc.F2, kc.F3, kc.F4, kc.F5, kc.F6, kc.F7, kc.F8, kc.F9, kc.Backspace, kc.AudioVolDown, kc.AudioMute, kc.AudioVolUp,
		kc.Fn2, kc.Fn3, kc.Escape, kc.Key1, kc.Key2, kc.Key3, kc.Key4, kc.Key5, kc.Key6, kc.Key7, kc.Key8, kc.Key9, kc.Key0, kc.Minus, kc.Equal, kc.Backslash, kc.Grave, kc.MediaPrevTrack, kc.MediaPlayPause, kc.MediaNextTrack,
		kc.Fn4, kc.Fn5, kc.Tab, kc.Q, kc.W, kc.E, kc.R, kc.T, kc.Y, kc.U, kc.I, kc.O, kc.P, kc.LBracket, kc.RBracket, kc.Delete, kc.Home, kc.Up, kc.PageUp,
		kc.Fn6, kc.Fn7, kc.LGUI, kc.A, kc.S, kc.D, kc.F, kc.G, kc.H, kc.J, kc.K, kc.L, kc.Semicolon, kc.Quote, kc.Enter, kc.Left, kc.Insert, kc.Right,
		kc.Fn8, kc.Fn9, kc.LShift, kc.Z, kc.X, kc.C, kc.V, kc.B, kc.N, kc.M, kc.Comma, kc.Dot, kc.Slash, kc.RShift, kc.RGUI, kc.End, kc.Down, kc.PageDown,
		kc.LAlt, kc.LCtrl, kc.Space, kc.RCtrl, kc.RAlt,
	)
}

// sun3Fn binds the ten Fn keys on the left-hand block.
var sun3Fn = []FnSlot{
	{Layer: 2, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.T)},      // FN0 new tab
	{Layer: 3, Fallback: kc.Semicolon, Action: action.ModsKey(action.LGUI, kc.N)}, // FN1 new window
	{Layer: 4, Fallback: kc.Slash, Action: action.ModsKey(action.LGUI, kc.Comma)}, // FN2 props
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.Z)},      // FN3 undo
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.None)},   // FN4 front
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.C)},      // FN5 copy
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.O)},      // FN6 open
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.V)},      // FN7 paste
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.F)},      // FN8 find
	{Layer: 0, Fallback: kc.None, Action: action.ModsKey(action.LGUI, kc.X)},      // FN9 cut
}

var sun3 = mustSun3()

func mustSun3() *Provider {
	base, err := sun3Base()
	if err != nil {
		panic(fmt.Sprintf("sun3 keymap: %v", err))
	}
	p, err := NewProvider(Sun3Name, []Matrix{base}, sun3Fn)
	if err != nil {
		panic(fmt.Sprintf("sun3 keymap: %v", err))
	}
	return p
}

// Sun3 returns the reference Sun Type-3 keymap.
func Sun3() *Provider {
	return sun3
}
