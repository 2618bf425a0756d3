package pyenv

import (
	"runtime"
	"strings"
	"testing"
)

func TestLookupFindsKnownBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix which")
	}
	// `sh` exists on any unix system this tool runs on.
	path, err := Lookup("sh")
	if err != nil {
		t.Fatalf("Lookup(sh) error: %v", err)
	}
	if !strings.HasSuffix(path, "/sh") {
		t.Fatalf("unexpected path %q", path)
	}
	if strings.ContainsAny(path, "\n\r") {
		t.Fatalf("path contains newline: %q", path)
	}
}

func TestLookupMissingBinary(t *testing.T) {
	if _, err := Lookup("definitely-not-installed-interpreter-xyz"); err == nil {
		t.Fatalf("expected error for missing interpreter")
	}
}
