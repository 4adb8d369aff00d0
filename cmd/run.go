package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jetkvm/sun3kbd"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRunCommand(cfg *sun3kbd.Config) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Convert keystrokes from the serial keyboard.",
		Long: `
Resets the keyboard on --serial-port and turns its key events into USB HID
reports for the selected backend. With --http-listen the keymap view and
metrics are served alongside.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return sun3kbd.Run(ctx, cfg)
		},
	}
	flags := runCmd.Flags()
	flags.StringVar(&cfg.SerialPort, "serial-port", cfg.SerialPort, "Serial device the keyboard is attached to.")
	flags.IntVar(&cfg.SerialBaud, "serial-baud", cfg.SerialBaud, "Serial line speed.")
	flags.BoolVar(&cfg.KeyClick, "key-click", cfg.KeyClick, "Enable the keyboard's key click.")
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "Report backend: auto, uinput or log.")
	flags.StringVar(&cfg.DeviceName, "device-name", cfg.DeviceName, "Name of the uinput keyboard.")
	flags.BoolVar(&cfg.KeymapWatch, "keymap-watch", cfg.KeymapWatch, "Reload --keymap-file when it changes.")
	flags.StringVar(&cfg.HTTPListen, "http-listen", cfg.HTTPListen, "Address for the keymap view and metrics; disabled when empty.")
	flags.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log JSON lines instead of console output.")
	return runCmd
}

func newServeCommand(cfg *sun3kbd.Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the keymap view and metrics over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return sun3kbd.Serve(ctx, cfg)
		},
	}
	flags := serveCmd.Flags()
	flags.StringVar(&cfg.HTTPListen, "http-listen", cfg.HTTPListen, "Address to listen on (default "+sun3kbd.DefaultHTTPListen+").")
	flags.BoolVar(&cfg.KeymapWatch, "keymap-watch", cfg.KeymapWatch, "Reload --keymap-file when it changes.")
	flags.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log JSON lines instead of console output.")
	return serveCmd
}
