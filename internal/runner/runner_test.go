package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix core utilities")
	}
}

func TestRunAllStepsSucceed(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	r := &ExecRunner{Out: &out, Stdout: &out, Stderr: &out}
	if err := r.Run("true && true"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := strings.Count(out.String(), "Executing:"); got != 2 {
		t.Fatalf("expected 2 executed steps, saw %d (output: %q)", got, out.String())
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "step-b-ran")

	var out bytes.Buffer
	r := &ExecRunner{Out: &out, Stdout: &out, Stderr: &out}
	err := r.Run("false && touch " + marker)
	if err == nil {
		t.Fatalf("expected failure from first step")
	}
	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *StepError", err)
	}
	if serr.Index != 0 || serr.Step != "false" {
		t.Errorf("failing step = %d %q, want 0 %q", serr.Index, serr.Step, "false")
	}
	if serr.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", serr.ExitCode)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("second step ran after first failed")
	}
}

func TestRunReportsUnlaunchableStep(t *testing.T) {
	var out bytes.Buffer
	r := &ExecRunner{Out: &out, Stdout: &out, Stderr: &out}
	err := r.Run("definitely-not-a-real-command-xyz")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *StepError", err)
	}
	if serr.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1 for unlaunchable step", serr.ExitCode)
	}
}

func TestRunSkipsEmptySteps(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	r := &ExecRunner{Out: &out, Stdout: &out, Stderr: &out}
	if err := r.Run("  true &&   && true  "); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := strings.Count(out.String(), "Executing:"); got != 2 {
		t.Fatalf("expected 2 executed steps, saw %d", got)
	}
}

func TestRunStreamsStepOutput(t *testing.T) {
	skipOnWindows(t)
	var out bytes.Buffer
	r := &ExecRunner{Out: &out, Stdout: &out, Stderr: &out}
	if err := r.Run("echo hello-from-step"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "hello-from-step") {
		t.Fatalf("step stdout not streamed: %q", out.String())
	}
}

func TestStepErrorMessageNamesTheStep(t *testing.T) {
	e := &StepError{Step: "pytest tests/", Index: 0, ExitCode: 2}
	msg := e.Error()
	if !strings.Contains(msg, "pytest tests/") || !strings.Contains(msg, "exit code 2") {
		t.Fatalf("unhelpful error message: %q", msg)
	}
}
