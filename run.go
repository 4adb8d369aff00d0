package sun3kbd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jetkvm/sun3kbd/internal/logging"
)

func applyLogging(cfg *Config) error {
	if cfg.LogJSON {
		logging.SetOutput(logWriter, true)
	}
	return logging.SetLevel(cfg.LogLevel)
}

// Run converts keystrokes from the serial keyboard until ctx is done. The
// keymap watcher and the HTTP view run alongside when cfg enables them.
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := applyLogging(cfg); err != nil {
		return err
	}

	p, err := LoadKeymap(cfg.KeymapFile)
	if err != nil {
		return err
	}
	sink, err := NewReportSink(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			usbLogger.Warn().Err(err).Msg("failed to close report sink")
		}
	}()

	conv := NewConverter(p, sink)
	logger.Info().
		Str("session", conv.ID().String()).
		Str("keymap", p.Name()).
		Str("backend", cfg.Backend).
		Msg("starting converter")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return RunSerial(ctx, cfg, conv)
	})
	if cfg.KeymapWatch {
		g.Go(func() error {
			return WatchKeymap(ctx, cfg.KeymapFile, conv)
		})
	}
	if cfg.HTTPListen != "" {
		g.Go(func() error {
			return RunWebServer(ctx, cfg.HTTPListen, conv.Keymap)
		})
	}
	return g.Wait()
}

// Serve runs the HTTP view of the configured keymap without a keyboard.
func Serve(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := applyLogging(cfg); err != nil {
		return err
	}
	p, err := LoadKeymap(cfg.KeymapFile)
	if err != nil {
		return err
	}
	box := newKeymapBox(p)
	addr := cfg.HTTPListen
	if addr == "" {
		addr = DefaultHTTPListen
	}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.KeymapWatch {
		g.Go(func() error {
			return WatchKeymap(ctx, cfg.KeymapFile, box)
		})
	}
	g.Go(func() error {
		return RunWebServer(ctx, addr, box.Keymap)
	})
	return g.Wait()
}
