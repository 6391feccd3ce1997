// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/scout"
	"github.com/poiesic/scout/config"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/replay"
	"github.com/poiesic/scout/search"
	"github.com/poiesic/scout/server"
	"github.com/poiesic/scout/storage/sqlite"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags override the matching config keys when set.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dataset",
			Aliases: []string{"d"},
			Usage:   "Path to the SQLite profiles database (empty for in-memory)",
		},
		&cli.StringFlag{
			Name:  "csv",
			Usage: "Profiles CSV to import at startup",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible chat service host URL",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Chat model name",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for each backend call",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable the summary cache",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scout",
		Usage: "Conversational candidate search over a profiles dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
					},
				),
			},
			{
				Name:   "ask",
				Usage:  "Run one conversational turn and print the result as JSON",
				Action: askCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:    "message",
						Aliases: []string{"m"},
						Usage:   "Recruiter message",
					},
					&cli.StringFlag{
						Name:  "request",
						Usage: "JSON file holding a full turn request (message, history, feedback)",
					},
				),
			},
			{
				Name:   "replay",
				Usage:  "Replay scripted conversations concurrently",
				Action: replayCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "scenarios",
						Aliases:  []string{"s"},
						Usage:    "Scenario file (.jsonl or .yaml)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of conversations to run at once",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per turn on backend timeouts or outages",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the JSON report here instead of stdout",
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Import a profiles CSV into a SQLite dataset",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Profiles CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Path to the SQLite profiles database",
						Required: true,
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and applies command flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("dataset") {
		cfg.Dataset.Path = c.String("dataset")
	}
	if c.IsSet("csv") {
		cfg.Dataset.ImportCSV = c.String("csv")
	}
	if c.IsSet("host") {
		cfg.AI.Host = c.String("host")
	}
	if c.IsSet("model") {
		cfg.AI.Model = c.String("model")
	}
	if c.IsSet("timeout") {
		cfg.AI.Timeout = c.Duration("timeout")
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := appLogger(c)
	var opts []scout.Option
	opts = append(opts, scout.WithLogger(logger))
	if cfg.Server.Metrics {
		opts = append(opts, scout.WithMonitor(search.DefaultMetricsMonitor()))
	}
	engine, err := scout.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	serverOpts := []server.Option{server.WithLogger(logger)}
	if !cfg.Server.Metrics {
		serverOpts = append(serverOpts, server.WithGatherer(nil))
	}
	srv, err := server.New(engine, serverOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Dataset: %s\n", orMemory(cfg.Dataset.Path))
	fmt.Fprintf(os.Stderr, "Chat host: %s\n", cfg.AI.Host)
	fmt.Fprintf(os.Stderr, "Chat model: %s\n", cfg.AI.Model)
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

func askCommand(c *cli.Context) error {
	req, err := readTurnRequest(c.String("request"), c.String("message"))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := appLogger(c)
	engine, err := scout.New(cfg, scout.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.ProcessTurn(c.Context, *req)
	if err != nil {
		return fmt.Errorf("turn failed: %w", err)
	}
	return writeJSON(c.App.Writer, result)
}

// readTurnRequest loads a request file, or builds a request from message.
// A message given alongside a file replaces the file's message.
func readTurnRequest(path, message string) (*core.TurnRequest, error) {
	req := &core.TurnRequest{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("invalid request file: %w", err)
		}
	}
	if message != "" {
		req.Message = message
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("a message is required: use --message or --request")
	}
	return req, nil
}

func replayCommand(c *cli.Context) error {
	scenarios, err := replay.LoadScenarios(c.String("scenarios"))
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	if c.Int("concurrency") <= 0 {
		return fmt.Errorf("concurrency must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := appLogger(c)
	engine, err := scout.New(cfg, scout.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	runner, err := replay.NewRunner(engine,
		replay.WithPoolSize(c.Int("concurrency")),
		replay.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		replay.WithProgress(os.Stderr),
		replay.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scenarios: %d\n", len(scenarios))
	fmt.Fprintf(os.Stderr, "Chat model: %s\n", cfg.AI.Model)
	fmt.Fprintln(os.Stderr)

	report, err := runner.Run(c.Context, scenarios)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := writeJSON(out, report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(scenarios)), 1)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	f, err := os.Open(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	dataset, err := sqlite.Open(c.String("dataset"), sqlite.WithLogger(appLogger(c)))
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer dataset.Close()

	n, err := dataset.ImportCSV(c.Context, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d profiles into %s\n", n, c.String("dataset"))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orMemory(path string) string {
	if path == "" {
		return "(in-memory)"
	}
	return path
}

// loggerKey holds the logger built by setupLogger in the app metadata.
const loggerKey = "logger"

// setupLogger builds the process logger from --log-level and stores it in
// the app metadata for commands to pass down.
func setupLogger(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"), os.Stderr)
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

// appLogger returns the logger stored by setupLogger, or an info level
// logger when the hook did not run.
func appLogger(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(*slog.Logger); ok {
		return logger
	}
	logger, _ := newLogger("info", os.Stderr)
	return logger
}

func newLogger(levelName string, w io.Writer) (*slog.Logger, error) {
	// Normalize to lowercase
	levelStr := strings.ToLower(levelName)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})), nil
}
