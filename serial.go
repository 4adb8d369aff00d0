package sun3kbd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/jetkvm/sun3kbd/internal/sunkbd"
)

func serialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// openKeyboardPort opens the serial line the keyboard is attached to.
func openKeyboardPort(path string, baud int) (serial.Port, error) {
	mode := serialMode(baud)
	port, err := serial.Open(path, mode)
	if err != nil {
		serialLogger.Error().
			Err(err).
			Str("path", path).
			Interface("mode", mode).
			Msg("Error opening serial port")
		return nil, fmt.Errorf("open keyboard port %s: %w", path, err)
	}
	return port, nil
}

// sendCommand writes one host command to the keyboard.
func sendCommand(w io.Writer, cmd sunkbd.Command, arg ...byte) error {
	if _, err := w.Write(cmd.Bytes(arg...)); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	serialLogger.Debug().Stringer("command", cmd).Msg("command sent")
	return nil
}

// runKeyboard resets the keyboard on line and feeds its events to conv until
// ctx is done or the line fails. Keys still held are released on return.
func runKeyboard(ctx context.Context, line io.ReadWriter, conv *Converter, click bool) error {
	scopedLogger := serialLogger.With().Str("session", conv.ID().String()).Logger()

	if err := sendCommand(line, sunkbd.CmdReset); err != nil {
		return err
	}
	clickCmd := sunkbd.CmdClickOff
	if click {
		clickCmd = sunkbd.CmdClickOn
	}

	defer func() {
		if err := conv.Release(); err != nil {
			scopedLogger.Warn().Err(err).Msg("Failed to release held keys")
		}
	}()

	err := sunkbd.NewReader(line).Run(ctx, func(ev sunkbd.Event) error {
		scopedLogger.Trace().Stringer("event", ev).Msg("event")
		if ev.Kind == sunkbd.ResetDone {
			if err := sendCommand(line, clickCmd); err != nil {
				return err
			}
		}
		if err := conv.HandleEvent(ev); err != nil {
			// a failed report should not take the keyboard down
			scopedLogger.Warn().Err(err).Stringer("event", ev).Msg("Failed to handle event")
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// RunSerial opens cfg.SerialPort and runs the converter on it until ctx is
// done.
func RunSerial(ctx context.Context, cfg *Config, conv *Converter) error {
	port, err := openKeyboardPort(cfg.SerialPort, cfg.SerialBaud)
	if err != nil {
		return err
	}
	serialLogger.Info().Str("path", cfg.SerialPort).Int("baud", cfg.SerialBaud).Msg("keyboard line open")

	// closing the port unblocks the pending read
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = port.Close()
	}()

	err = runKeyboard(ctx, port, conv, cfg.KeyClick)
	if err != nil && !errors.Is(err, context.Canceled) {
		serialLogger.Warn().Err(err).Msg("Error reading from serial port")
		return err
	}
	return nil
}
