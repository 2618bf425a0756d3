// Package session runs the foreground read-eval loop: one prompt per
// iteration, one coverage run per non-exit input, until the operator leaves
// or the lifecycle flag goes inactive.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mariogeiger/coverage-http/internal/history"
	"github.com/mariogeiger/coverage-http/internal/lifecycle"
	"github.com/mariogeiger/coverage-http/internal/metrics"
	"github.com/mariogeiger/coverage-http/internal/runner"
)

const (
	DefaultTarget      = "."
	DefaultExitKeyword = "exit"
	DefaultPythonCmd   = "python"
)

// ServerHandle is the part of the report server the session waits on during
// shutdown.
type ServerHandle interface {
	Wait(d time.Duration) bool
}

// Config describes session behavior.
type Config struct {
	Target      string        // initial test path, default "."
	ExitKeyword string        // case-insensitive, default "exit"
	PythonCmd   string        // interpreter command, default "python"
	JoinTimeout time.Duration // bound on waiting for the report server to stop
}

// Controller owns the session state and drives the loop. It is not shared
// across goroutines; the lifecycle flag is its only link to the rest of the
// process.
type Controller struct {
	cfg    Config
	flag   *lifecycle.Flag
	runner runner.Runner
	sink   history.Sink

	in  io.Reader
	out io.Writer

	target string
}

// New builds a Controller reading from in and writing operator-facing text
// to out.
func New(cfg Config, flag *lifecycle.Flag, r runner.Runner, sink history.Sink, in io.Reader, out io.Writer) *Controller {
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}
	if cfg.ExitKeyword == "" {
		cfg.ExitKeyword = DefaultExitKeyword
	}
	if cfg.PythonCmd == "" {
		cfg.PythonCmd = DefaultPythonCmd
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = 2 * time.Second
	}
	if sink == nil {
		sink = history.NopSink{}
	}
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Controller{cfg: cfg, flag: flag, runner: r, sink: sink, in: in, out: out, target: cfg.Target}
}

// Target returns the current test path.
func (c *Controller) Target() string { return c.target }

// Run drives the loop until the operator exits, input closes, or the
// lifecycle flag goes inactive, then performs the cooperative shutdown:
// deactivate the flag and wait (bounded) for the report server to stop.
func (c *Controller) Run(h ServerHandle) {
	_, _ = fmt.Fprintln(c.out, "Press Enter to run coverage tests with the current test path, or enter a new path")
	_, _ = fmt.Fprintf(c.out, "Current test path: %s\n", c.target)

	scanner := bufio.NewScanner(c.in)
	for c.flag.IsActive() {
		_, _ = fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			// Input closure or read error ends the session like an exit request.
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, c.cfg.ExitKeyword) {
			break
		}
		if line != "" {
			c.target = line
			_, _ = fmt.Fprintf(c.out, "Test path updated to: %s\n", c.target)
		}
		c.runOnce()
		_, _ = fmt.Fprintf(c.out, "Current test path: %s\n", c.target)
	}

	c.flag.Deactivate()
	if h != nil && !h.Wait(c.cfg.JoinTimeout) {
		slog.Warn("timed out waiting for report server to stop", "timeout", c.cfg.JoinTimeout)
	}
	_, _ = fmt.Fprintln(c.out, "Goodbye!")
}

// runOnce executes the coverage pipeline for the current target. Failures
// are reported and recorded; they never end the session.
func (c *Controller) runOnce() {
	command := fmt.Sprintf("%s -m coverage run -m pytest %s && %s -m coverage html",
		c.cfg.PythonCmd, c.target, c.cfg.PythonCmd)

	_, _ = fmt.Fprintln(c.out, "Running coverage tests...")
	c.record(history.Event{Type: history.EventRunStart, OccurredAt: time.Now(), Target: c.target, Command: command})
	metrics.IncRunStart()

	start := time.Now()
	err := c.runner.Run(command)
	elapsed := time.Since(start)

	finish := history.Event{
		Type:       history.EventRunFinish,
		OccurredAt: time.Now(),
		Target:     c.target,
		Command:    command,
		Success:    err == nil,
		Duration:   elapsed,
	}
	if err != nil {
		if serr, ok := err.(*runner.StepError); ok {
			finish.ExitCode = serr.ExitCode
			finish.FailedStep = serr.Step
		} else {
			finish.ExitCode = -1
		}
		metrics.IncRunFailure()
		_, _ = fmt.Fprintf(c.out, "Error running coverage: %v\n", err)
	} else {
		_, _ = fmt.Fprintln(c.out, "Coverage tests completed successfully!")
	}
	metrics.ObserveRunDuration(elapsed, err == nil)
	c.record(finish)
}

// record sends a history event best-effort; sink problems are logged and
// otherwise ignored.
func (c *Controller) record(e history.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.sink.Send(ctx, e); err != nil {
		slog.Warn("failed to record run history", "event", e.Type, "err", err)
	}
}
