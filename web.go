package sun3kbd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jetkvm/sun3kbd/internal/keymap"
)

// KeymapSource returns the keymap the HTTP view shows.
type KeymapSource func() *keymap.Provider

var formatContentTypes = map[keymap.Format]string{
	keymap.FormatJSON:   "application/json; charset=utf-8",
	keymap.FormatYAML:   "application/yaml; charset=utf-8",
	keymap.FormatTOML:   "application/toml; charset=utf-8",
	keymap.FormatBinary: "application/octet-stream",
}

// setupRouter builds the read-only keymap view.
func setupRouter(keymaps KeymapSource) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()
	r := gin.New()

	r.Use(ginlogger.SetLogger(
		ginlogger.WithLogger(func(*gin.Context, zerolog.Logger) zerolog.Logger {
			return *webLogger
		}),
		ginlogger.WithDefaultLevel(zerolog.DebugLevel),
	))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/keymap", func(c *gin.Context) {
		p := keymaps()
		format := keymap.FormatJSON
		if q := c.Query("format"); q != "" {
			f, err := keymap.ParseFormat(q)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			format = f
		}
		if format == keymap.FormatJSON {
			c.JSON(http.StatusOK, p.Document())
			return
		}
		var buf bytes.Buffer
		if err := keymap.Encode(&buf, p, format); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, formatContentTypes[format], buf.Bytes())
	})

	r.GET("/keymap/layers/:layer/rows/:row/cols/:col", func(c *gin.Context) {
		idx, ok := intParams(c, "layer", "row", "col")
		if !ok {
			return
		}
		kc, defined, err := keymaps().Lookup(idx[0], idx[1], idx[2])
		if err != nil {
			indexError(c, err)
			return
		}
		pos, _ := keymap.PositionAt(idx[1], idx[2])
		c.JSON(http.StatusOK, gin.H{
			"layer":    idx[0],
			"row":      idx[1],
			"col":      idx[2],
			"position": pos.String(),
			"keycode":  kc.String(),
			"defined":  defined,
		})
	})

	r.GET("/keymap/fn/:index", func(c *gin.Context) {
		idx, ok := intParams(c, "index")
		if !ok {
			return
		}
		slot, err := keymaps().FnSlot(idx[0])
		if err != nil {
			indexError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"index":    idx[0],
			"layer":    slot.Layer,
			"fallback": slot.Fallback.String(),
			"action":   slot.Action.String(),
			"code":     slot.Action.Code(),
		})
	})

	return r
}

func intParams(c *gin.Context, names ...string) ([]int, bool) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func indexError(c *gin.Context, err error) {
	if errors.Is(err, keymap.ErrIndexOutOfRange) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// RunWebServer serves the keymap view on addr until ctx is done.
func RunWebServer(ctx context.Context, addr string, keymaps KeymapSource) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           setupRouter(keymaps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		webLogger.Info().Str("listen", addr).Msg("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
