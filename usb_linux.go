//go:build linux

package sun3kbd

import (
	"os"

	"github.com/jetkvm/sun3kbd/internal/uinput"
)

func uinputAvailable() bool {
	if _, err := os.Stat("/dev/uinput"); err != nil {
		return false
	}
	return true
}

func newUinputSink(name string) (ReportSink, error) {
	usbLogger.Info().Msg("Initializing uinput backend")
	u, err := uinput.NewBackend(name, usbLogger)
	if err != nil {
		return nil, err
	}
	return u, nil
}
