package sun3kbd

import (
	"fmt"

	"github.com/jetkvm/sun3kbd/internal/sunkbd"
)

// Report sink backends.
const (
	BackendAuto   = "auto"
	BackendUinput = "uinput"
	BackendLog    = "log"
)

// DefaultHTTPListen is where serve listens when no address is configured.
const DefaultHTTPListen = ":8080"

// Config is everything the converter and the HTTP view need. The cmd
// package binds each field to a flag.
type Config struct {
	SerialPort  string
	SerialBaud  int
	KeyClick    bool
	Backend     string
	DeviceName  string
	KeymapFile  string
	KeymapWatch bool
	HTTPListen  string
	LogLevel    string
	LogJSON     bool
}

func NewConfig() *Config {
	return &Config{
		SerialPort: "/dev/ttyS3",
		SerialBaud: sunkbd.BaudRate,
		Backend:    BackendAuto,
		DeviceName: "Sun Type-3 Keyboard",
		LogLevel:   "info",
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendUinput, BackendLog:
	default:
		return fmt.Errorf("invalid backend %q: want %s, %s or %s", c.Backend, BackendAuto, BackendUinput, BackendLog)
	}
	if c.SerialBaud <= 0 {
		return fmt.Errorf("invalid serial baud rate %d", c.SerialBaud)
	}
	if c.KeymapWatch && c.KeymapFile == "" {
		return fmt.Errorf("keymap-watch needs keymap-file")
	}
	return nil
}
