package sun3kbd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jetkvm/sun3kbd/internal/hid"
)

// ReportSink receives the reports the converter produces.
type ReportSink interface {
	KeyboardReport(modifier byte, keys []byte) error
	ConsumerReport(usage uint16) error
	SystemReport(usage uint16) error
	Close() error
}

// NewReportSink opens the backend named in cfg. "auto" prefers a uinput
// keyboard and falls back to logging the reports.
func NewReportSink(cfg *Config) (ReportSink, error) {
	switch cfg.Backend {
	case BackendLog:
		return NewLogSink(usbLogger), nil
	case BackendUinput:
		return newUinputSink(cfg.DeviceName)
	case BackendAuto:
		if uinputAvailable() {
			sink, err := newUinputSink(cfg.DeviceName)
			if err == nil {
				return sink, nil
			}
			usbLogger.Warn().Err(err).Msg("uinput backend failed, falling back to log backend")
		} else {
			usbLogger.Info().Msg("uinput not available, using log backend")
		}
		return NewLogSink(usbLogger), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// LogSink writes every report to a logger instead of a device.
type LogSink struct {
	log *zerolog.Logger
}

func NewLogSink(l *zerolog.Logger) *LogSink {
	return &LogSink{log: l}
}

func (s *LogSink) KeyboardReport(modifier byte, keys []byte) error {
	r := hid.Report{Modifier: modifier}
	copy(r.Keys[:], keys)
	s.log.Info().Str("report", r.String()).Msg("keyboard report")
	return nil
}

func (s *LogSink) ConsumerReport(usage uint16) error {
	s.log.Info().Uint16("usage", usage).Msg("consumer report")
	return nil
}

func (s *LogSink) SystemReport(usage uint16) error {
	s.log.Info().Uint16("usage", usage).Msg("system report")
	return nil
}

func (s *LogSink) Close() error { return nil }
