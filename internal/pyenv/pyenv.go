// Package pyenv locates the Python interpreter the coverage pipeline will
// use. Resolution is best-effort; the session works without it.
package pyenv

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Lookup resolves the interpreter's path by asking the platform's own
// resolver (`which` on unix, `where` on Windows), matching what an operator
// would see in their shell.
func Lookup(interpreter string) (string, error) {
	resolver := "which"
	if runtime.GOOS == "windows" {
		resolver = "where"
	}
	out, err := exec.Command(resolver, interpreter).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", resolver, interpreter, err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("%s %s: empty result", resolver, interpreter)
	}
	// `where` can return multiple matches, one per line; the first wins.
	if i := strings.IndexByte(path, '\n'); i >= 0 {
		path = strings.TrimSpace(path[:i])
	}
	return path, nil
}
