// Package shutdown turns interrupt signals into a bounded shutdown: the
// cooperative path gets one grace period, then the watchdog ends the process
// unconditionally.
package shutdown

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mariogeiger/coverage-http/internal/lifecycle"
)

// DefaultGrace is the maximum tolerated cooperative-shutdown latency.
const DefaultGrace = 2 * time.Second

// Coordinator owns the interrupt handler and the forced-exit watchdog.
type Coordinator struct {
	flag  *lifecycle.Flag
	grace time.Duration
	exit  func(int) // os.Exit, injectable for tests

	armOnce    sync.Once
	finishOnce sync.Once
	finished   chan struct{}
}

// Install registers the process-lifetime interrupt handler. Repeated signals
// re-run Trigger, whose effects are idempotent.
func Install(flag *lifecycle.Flag, grace time.Duration) *Coordinator {
	c := New(flag, grace)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range ch {
			c.Trigger()
		}
	}()
	return c
}

// New builds a Coordinator without registering signal handling.
func New(flag *lifecycle.Flag, grace time.Duration) *Coordinator {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Coordinator{
		flag:     flag,
		grace:    grace,
		exit:     os.Exit,
		finished: make(chan struct{}),
	}
}

// Trigger deactivates the lifecycle flag and arms the watchdog. Safe to call
// any number of times; the watchdog is armed once per session.
func (c *Coordinator) Trigger() {
	slog.Info("received interrupt, shutting down")
	c.flag.Deactivate()
	c.armOnce.Do(func() { go c.watchdog() })
}

// Finish tells the watchdog the cooperative path completed, so a forced exit
// is no longer needed. Idempotent.
func (c *Coordinator) Finish() {
	c.finishOnce.Do(func() { close(c.finished) })
}

// watchdog races the grace timer against cooperative completion. A stalled
// cooperative path loses; forced termination still exits 0, treated as a
// successful if abrupt shutdown.
func (c *Coordinator) watchdog() {
	timer := time.NewTimer(c.grace)
	defer timer.Stop()
	select {
	case <-c.finished:
		return
	case <-timer.C:
		slog.Warn("cooperative shutdown stalled, forcing exit", "grace", c.grace)
		c.exit(0)
	}
}
