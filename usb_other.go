//go:build !linux

package sun3kbd

import "errors"

func uinputAvailable() bool { return false }

func newUinputSink(string) (ReportSink, error) {
	return nil, errors.New("uinput backend needs linux")
}
