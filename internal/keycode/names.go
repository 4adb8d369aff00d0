package keycode

import "fmt"

// names holds the canonical short name of every defined keycode.
var names = [256]string{
	None:      "NO",
	RollOver:  "ROLL_OVER",
	PostFail:  "POST_FAIL",
	Undefined: "UNDEFINED",

	Enter:          "ENT",
	Escape:         "ESC",
	Backspace:      "BSPC",
	Tab:            "TAB",
	Space:          "SPC",
	Minus:          "MINS",
	Equal:          "EQL",
	LBracket:       "LBRC",
	RBracket:       "RBRC",
	Backslash:      "BSLS",
	NonUSHash:      "NUHS",
	Semicolon:      "SCLN",
	Quote:          "QUOT",
	Grave:          "GRV",
	Comma:          "COMM",
	Dot:            "DOT",
	Slash:          "SLSH",
	CapsLock:       "CAPS",
	PrintScreen:    "PSCR",
	ScrollLock:     "SLCK",
	Pause:          "PAUS",
	Insert:         "INS",
	Home:           "HOME",
	PageUp:         "PGUP",
	Delete:         "DEL",
	End:            "END",
	PageDown:       "PGDN",
	Right:          "RGHT",
	Left:           "LEFT",
	Down:           "DOWN",
	Up:             "UP",
	NumLock:        "NLCK",
	KPSlash:        "PSLS",
	KPAsterisk:     "PAST",
	KPMinus:        "PMNS",
	KPPlus:         "PPLS",
	KPEnter:        "PENT",
	KPDot:          "PDOT",
	NonUSBackslash: "NUBS",
	Application:    "APP",
	Power:          "PWR",
	KPEqual:        "PEQL",
	Execute:        "EXEC",
	Help:           "HELP",
	Menu:           "MENU",
	Select:         "SLCT",
	Stop:           "STOP",
	Again:          "AGIN",
	Undo:           "UNDO",
	Cut:            "CUT",
	Copy:           "COPY",
	Paste:          "PSTE",
	Find:           "FIND",

	SystemPower:    "PWR_SYS",
	SystemSleep:    "SLEP",
	SystemWake:     "WAKE",
	AudioMute:      "MUTE",
	AudioVolUp:     "VOLU",
	AudioVolDown:   "VOLD",
	MediaNextTrack: "MNXT",
	MediaPrevTrack: "MPRV",
	MediaStop:      "MSTP",
	MediaPlayPause: "MPLY",
	MediaSelect:    "MSEL",
	Mail:           "MAIL",
	Calculator:     "CALC",
	MyComputer:     "MYCM",
	WWWSearch:      "WSCH",
	WWWHome:        "WHOM",
	WWWBack:        "WBAK",
	WWWForward:     "WFWD",
	WWWStop:        "WSTP",
	WWWRefresh:     "WREF",
	WWWFavorites:   "WFAV",

	LCtrl:  "LCTL",
	LShift: "LSFT",
	LAlt:   "LALT",
	LGUI:   "LGUI",
	RCtrl:  "RCTL",
	RShift: "RSFT",
	RAlt:   "RALT",
	RGUI:   "RGUI",
}

// aliases are the long names the firmware headers also accept.
var aliases = map[string]Keycode{
	"ENTER":     Enter,
	"ESCAPE":    Escape,
	"BSPACE":    Backspace,
	"SPACE":     Space,
	"MINUS":     Minus,
	"EQUAL":     Equal,
	"LBRACKET":  LBracket,
	"RBRACKET":  RBracket,
	"BSLASH":    Backslash,
	"SCOLON":    Semicolon,
	"QUOTE":     Quote,
	"GRAVE":     Grave,
	"COMMA":     Comma,
	"SLASH":     Slash,
	"CAPSLOCK":  CapsLock,
	"PSCREEN":   PrintScreen,
	"SCKLOCK":   ScrollLock,
	"PAUSE":     Pause,
	"INSERT":    Insert,
	"PGDOWN":    PageDown,
	"DELETE":    Delete,
	"RIGHT":     Right,
	"NUMLOCK":   NumLock,
	"LCTRL":     LCtrl,
	"LSHIFT":    LShift,
	"LWIN":      LGUI,
	"RCTRL":     RCtrl,
	"RSHIFT":    RShift,
	"RWIN":      RGUI,
	"NONE":      None,
}

var byName = map[string]Keycode{}

func init() {
	for i := 0; i < 26; i++ {
		names[A+Keycode(i)] = string(rune('A' + i))
	}
	for i := 0; i < 9; i++ {
		names[Key1+Keycode(i)] = string(rune('1' + i))
		names[KP1+Keycode(i)] = fmt.Sprintf("P%d", i+1)
	}
	names[Key0] = "0"
	names[KP0] = "P0"
	for i := 0; i < 12; i++ {
		names[F1+Keycode(i)] = fmt.Sprintf("F%d", i+1)
		names[F13+Keycode(i)] = fmt.Sprintf("F%d", i+13)
	}
	for i := 0; i < FnCount; i++ {
		names[Fn0+Keycode(i)] = fmt.Sprintf("FN%d", i)
	}

	for i, n := range names {
		if n != "" {
			byName[n] = Keycode(i)
		}
	}
	for n, kc := range aliases {
		byName[n] = kc
	}
}
