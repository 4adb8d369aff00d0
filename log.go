package sun3kbd

import (
	"io"
	"os"

	"github.com/jetkvm/sun3kbd/internal/logging"
)

// logWriter receives the JSON log stream when Config.LogJSON is set.
var logWriter io.Writer = os.Stderr

var (
	logger          = logging.GetRootLogger()
	converterLogger = logging.GetSubsystemLogger("converter")
	serialLogger    = logging.GetSubsystemLogger("serial")
	usbLogger       = logging.GetSubsystemLogger("usb")
	keymapLogger    = logging.GetSubsystemLogger("keymap")
	webLogger       = logging.GetSubsystemLogger("web")
)
