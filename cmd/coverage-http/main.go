package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mariogeiger/coverage-http/internal/assets"
	"github.com/mariogeiger/coverage-http/internal/config"
	"github.com/mariogeiger/coverage-http/internal/history"
	historyfactory "github.com/mariogeiger/coverage-http/internal/history/factory"
	"github.com/mariogeiger/coverage-http/internal/lifecycle"
	"github.com/mariogeiger/coverage-http/internal/metrics"
	"github.com/mariogeiger/coverage-http/internal/pyenv"
	"github.com/mariogeiger/coverage-http/internal/runner"
	"github.com/mariogeiger/coverage-http/internal/server"
	"github.com/mariogeiger/coverage-http/internal/session"
	"github.com/mariogeiger/coverage-http/internal/shutdown"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Flags holds the CLI overrides layered over the config file.
type Flags struct {
	ConfigPath string
	Listen     string
	ReportDir  string
	Target     string
}

func buildRoot() *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "coverage-http",
		Short: "Interactive Python coverage runner with a built-in report server",
		Long: `coverage-http runs pytest under coverage on demand and serves the
generated HTML report over HTTP for the life of the session.

Press Enter at the prompt to re-run coverage with the current test path,
type a new path to switch targets, or type "exit" (or Ctrl+C) to leave.

Examples:
  coverage-http                          # serve htmlcov on 127.0.0.1:8080
  coverage-http --target=tests/unit      # start with a specific test path
  coverage-http --config=coverage.toml   # full configuration from TOML`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	root.Flags().StringVar(&flags.Listen, "listen", "", "report server address (default 127.0.0.1:8080)")
	root.Flags().StringVar(&flags.ReportDir, "dir", "", "report directory to serve (default htmlcov)")
	root.Flags().StringVar(&flags.Target, "target", "", "initial test path (default .)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the coverage-http version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("coverage-http %s\n", version)
		},
	})

	return root
}

func runSession(flags *Flags) error {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Listen != "" {
		cfg.Listen = flags.Listen
	}
	if flags.ReportDir != "" {
		cfg.ReportDir = flags.ReportDir
	}
	if flags.Target != "" {
		cfg.Target = flags.Target
	}

	slog.SetDefault(cfg.Log.NewLogger())

	// Best-effort interpreter resolution; the session works without it.
	if path, err := pyenv.Lookup(cfg.Python); err != nil {
		slog.Warn("could not resolve Python interpreter path", "err", err)
	} else {
		fmt.Printf("Python interpreter path: %s\n", path)
	}

	if err := assets.Bootstrap(cfg.ReportDir); err != nil {
		return err
	}

	sink, err := historyfactory.NewSinkFromDSN(cfg.History.DSN)
	if err != nil {
		slog.Warn("run history disabled", "err", err)
		sink = history.NopSink{}
	}
	defer func() { _ = sink.Close() }()

	if cfg.Metrics.Enabled {
		if err := metrics.RegisterDefault(); err != nil {
			slog.Warn("failed to register metrics", "err", err)
		} else if cfg.Metrics.Listen != "" {
			go func() {
				if err := metrics.Serve(cfg.Metrics.Listen); err != nil {
					slog.Warn("metrics server exited", "err", err)
				}
			}()
		}
	}

	flag := lifecycle.New()

	var handle session.ServerHandle
	srvHandle, err := server.Start(server.Config{
		Listen:          cfg.Listen,
		Dir:             cfg.ReportDir,
		PollInterval:    cfg.PollInterval,
		ShutdownTimeout: cfg.Grace,
	}, flag)
	if err != nil {
		// Fatal to the serving capability only; the prompt stays usable.
		slog.Error("report server unavailable", "err", err)
	} else {
		handle = srvHandle
		fmt.Printf("Serving coverage reports on http://%s\n", srvHandle.Addr())
		fmt.Println("Navigate to this URL to view coverage reports")
	}

	coordinator := shutdown.Install(flag, cfg.Grace)

	controller := session.New(session.Config{
		Target:      cfg.Target,
		PythonCmd:   cfg.Python,
		JoinTimeout: cfg.Grace,
	}, flag, &runner.ExecRunner{}, sink, os.Stdin, os.Stdout)
	controller.Run(handle)

	coordinator.Finish()
	return nil
}
