// Package assets prepares the report directory the HTTP server exposes, so
// the operator always gets a page on first visit instead of a 404.
package assets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const placeholderHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Coverage Report</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .container {
            max-width: 800px;
            margin: 0 auto;
            background-color: #f9f9f9;
            padding: 20px;
            border-radius: 5px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
        }
        h1 {
            color: #2c3e50;
            border-bottom: 1px solid #ddd;
            padding-bottom: 10px;
        }
        .message {
            background-color: #e7f2fa;
            border-left: 4px solid #3498db;
            padding: 15px;
            margin: 20px 0;
        }
        .hint {
            background-color: #fef5e7;
            border-left: 4px solid #f39c12;
            padding: 15px;
            margin: 20px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Coverage Report Placeholder</h1>
        <div class="message">
            <p>No coverage reports have been generated yet.</p>
            <p>Press Enter in the terminal to run the coverage tests.</p>
        </div>
        <div class="hint">
            <p>After the coverage tests complete successfully, refresh this page to see the actual coverage report.</p>
        </div>
    </div>
</body>
</html>`

// Bootstrap ensures dir exists and contains an index.html. An existing
// index.html (a real generated report) is never overwritten.
func Bootstrap(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Info("creating report directory", "dir", dir)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("stat report directory %s: %w", dir, err)
	}

	indexPath := filepath.Join(dir, "index.html")
	if _, err := os.Stat(indexPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", indexPath, err)
	}

	slog.Info("creating placeholder index.html", "dir", dir)
	if err := os.WriteFile(indexPath, []byte(placeholderHTML), 0o640); err != nil {
		return fmt.Errorf("write placeholder %s: %w", indexPath, err)
	}
	return nil
}
