// Package logging owns the process root logger and hands out subsystem
// loggers derived from it.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// swapWriter lets SetOutput redirect loggers that were already derived.
type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *swapWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

var (
	output = &swapWriter{w: consoleWriter(os.Stderr)}

	rootLogger = zerolog.New(output).With().Timestamp().Logger()

	subsystemLoggers     = map[string]*zerolog.Logger{}
	subsystemLoggersLock sync.Mutex
)

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
}

// GetRootLogger returns the process wide logger.
func GetRootLogger() *zerolog.Logger {
	return &rootLogger
}

// GetSubsystemLogger returns the logger tagged with subsystem, creating it on
// first use.
func GetSubsystemLogger(subsystem string) *zerolog.Logger {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	if l, ok := subsystemLoggers[subsystem]; ok {
		return l
	}
	l := rootLogger.With().Str("subsystem", subsystem).Logger()
	subsystemLoggers[subsystem] = &l
	return &l
}

// SetLevel sets the global level from its name ("debug", "info", ...).
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// SetOutput redirects every logger to w. With json false the output is
// rendered for humans.
func SetOutput(w io.Writer, json bool) {
	if !json {
		w = consoleWriter(w)
	}
	output.set(w)
}
