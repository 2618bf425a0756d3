// Package server runs the background report server: a static file service
// over the coverage report directory, supervised by a watcher that stops it
// once the session's lifecycle flag goes inactive.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mariogeiger/coverage-http/internal/lifecycle"
)

const (
	DefaultListen       = "127.0.0.1:8080"
	DefaultPollInterval = 100 * time.Millisecond
)

// Config describes the report server.
type Config struct {
	Listen          string        // bind address, default 127.0.0.1:8080
	Dir             string        // directory served at /
	PollInterval    time.Duration // lifecycle flag poll interval, default 100ms
	ShutdownTimeout time.Duration // graceful Shutdown bound, default 2s
}

// Handle is the supervisor's view of the running server. It is returned by
// Start and never escapes with the underlying http.Server.
type Handle struct {
	addr string
	done chan struct{}
}

// Addr returns the bound listen address.
func (h *Handle) Addr() string { return h.addr }

// Done closes once the server and its watcher have fully stopped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the server has stopped or d has elapsed. It reports
// whether the stop completed in time. A nil handle (bind failure at startup)
// is already stopped.
func (h *Handle) Wait(d time.Duration) bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	case <-time.After(d):
		return false
	}
}

// Start binds the listener and launches the serve and watcher goroutines.
// A bind failure is returned synchronously; it is fatal to the serving
// capability only, so callers keep the session running without a handle.
func Start(cfg Config, flag *lifecycle.Flag) (*Handle, error) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 2 * time.Second
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.Listen, err)
	}

	srv := &http.Server{
		Handler:           newHandler(cfg.Dir),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	h := &Handle{addr: ln.Addr().String(), done: make(chan struct{})}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	go watch(srv, flag, cfg, serveErr, h.done)

	slog.Info("report server listening", "addr", h.addr, "dir", cfg.Dir)
	return h, nil
}

// watch polls the lifecycle flag and shuts the server down once it goes
// inactive. It returns only after the graceful stop has completed or the
// server has already exited on its own.
func watch(srv *http.Server, flag *lifecycle.Flag, cfg Config, serveErr <-chan error, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("report server exited", "err", err)
			}
			return
		case <-ticker.C:
			if flag.IsActive() {
				continue
			}
			slog.Info("shutting down report server")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			if err := srv.Shutdown(ctx); err != nil {
				slog.Warn("report server shutdown", "err", err)
			}
			cancel()
			<-serveErr
			slog.Info("report server shutdown complete")
			return
		}
	}
}

// newHandler builds the gin handler serving cfg directory at /.
// The file service hangs off NoRoute so explicit routes stay available.
func newHandler(dir string) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.NoRoute(gin.WrapH(http.FileServer(gin.Dir(dir, false))))
	return g
}
