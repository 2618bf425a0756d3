package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a "&&"-delimited sequence of external commands.
type Runner interface {
	Run(sequence string) error
}

// StepError reports the first failing step of a sequence. A step that could
// not be launched and a step that exited non-zero get the same treatment;
// callers only need to know which step ended the sequence.
type StepError struct {
	Step     string // the command line of the failing step
	Index    int    // zero-based position in the sequence
	ExitCode int    // -1 when the step never ran
	Err      error
}

func (e *StepError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("step %d (%s) failed with exit code %d", e.Index+1, e.Step, e.ExitCode)
	}
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExecRunner runs each step as a subprocess with stdout/stderr attached to
// the session's own streams, so the operator sees output in real time.
type ExecRunner struct {
	Out    io.Writer // status lines; defaults to os.Stdout
	Stdout io.Writer // step stdout; defaults to os.Stdout
	Stderr io.Writer // step stderr; defaults to os.Stderr
}

// Run executes each step in order and stops at the first failure.
// The returned error is always a *StepError when a step fails.
func (r *ExecRunner) Run(sequence string) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	steps := strings.Split(sequence, "&&")
	for i, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		_, _ = fmt.Fprintf(out, "Executing: %s\n", step)

		parts := strings.Fields(step)
		// #nosec G204 -- the sequence is operator-provided by design
		cmd := exec.Command(parts[0], parts[1:]...)
		if r.Stdout != nil {
			cmd.Stdout = r.Stdout
		} else {
			cmd.Stdout = os.Stdout
		}
		if r.Stderr != nil {
			cmd.Stderr = r.Stderr
		} else {
			cmd.Stderr = os.Stderr
		}

		if err := cmd.Run(); err != nil {
			serr := &StepError{Step: step, Index: i, ExitCode: -1, Err: err}
			if ee, ok := err.(*exec.ExitError); ok {
				serr.ExitCode = ee.ExitCode()
			}
			_, _ = fmt.Fprintf(out, "Command failed: %s\n", serr.Error())
			return serr
		}
	}
	return nil
}
