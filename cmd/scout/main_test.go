package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/scout/config"
	"github.com/poiesic/scout/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag[T cli.Flag](cmd *cli.Command, name string) (T, bool) {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok {
			for _, n := range flag.Names() {
				if n == name {
					return f, true
				}
			}
		}
	}
	var zero T
	return zero, false
}

func TestCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"serve", "ask", "replay", "import"} {
		assert.NotNil(t, findCommand(t, app, name))
	}
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "replay")

	scenarios, ok := findFlag[*cli.StringFlag](cmd, "scenarios")
	require.True(t, ok)
	assert.True(t, scenarios.Required)

	concurrency, ok := findFlag[*cli.IntFlag](cmd, "concurrency")
	require.True(t, ok)
	assert.Equal(t, 4, concurrency.Value)

	retries, ok := findFlag[*cli.IntFlag](cmd, "max-retries")
	require.True(t, ok)
	assert.Equal(t, 3, retries.Value)

	delay, ok := findFlag[*cli.DurationFlag](cmd, "retry-delay")
	require.True(t, ok)
	assert.Equal(t, time.Second, delay.Value)

	model, ok := findFlag[*cli.StringFlag](cmd, "model")
	require.True(t, ok)
	assert.Empty(t, model.Value)
	assert.Empty(t, model.EnvVars)
}

func TestReplayCommandValidation(t *testing.T) {
	app := newApp()

	err := app.Run([]string{"scout", "replay"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios")

	path := filepath.Join(t.TempDir(), "s.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"a","turns":[{"message":"x"}]}`), 0o600))

	err = newApp().Run([]string{"scout", "replay", "--scenarios", path, "--concurrency", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be greater than 0")

	err = newApp().Run([]string{"scout", "replay", "--scenarios", path, "--max-retries", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max-retries must be greater than 0")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "profiles.csv")
	dbPath := filepath.Join(dir, "db", "scout.db")
	require.NoError(t, os.WriteFile(csvPath, []byte(sqlite.SampleProfilesCSV), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"scout", "import", "--csv", csvPath, "--dataset", dbPath}))
	assert.Contains(t, out.String(), "Imported 5 profiles")

	dataset, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer dataset.Close()
	rows, err := dataset.Execute(t.Context(), "SELECT id FROM profiles WHERE seniority_rank <= 2 ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].ID())
}

func TestImportCommandRequiresFlags(t *testing.T) {
	err := newApp().Run([]string{"scout", "import", "--csv", "x.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset")
}

func TestAskCommandRequiresMessage(t *testing.T) {
	err := newApp().Run([]string{"scout", "ask"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a message is required")
}

func TestReadTurnRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	body, err := json.Marshal(map[string]any{
		"message":  "backend",
		"history":  []map[string]string{{"role": "user", "content": "hi"}},
		"feedback": []map[string]any{{"profileId": "p1", "interesting": false, "reason": "muito senior"}},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	req, err := readTurnRequest(path, "")
	require.NoError(t, err)
	assert.Equal(t, "backend", req.Message)
	assert.Len(t, req.History, 1)
	assert.Equal(t, "p1", req.Feedback[0].ProfileID)

	req, err = readTurnRequest(path, "frontend")
	require.NoError(t, err)
	assert.Equal(t, "frontend", req.Message)

	req, err = readTurnRequest("", "only a message")
	require.NoError(t, err)
	assert.Empty(t, req.History)
}

func TestApplyFlags(t *testing.T) {
	var cfg *config.Config
	app := &cli.App{
		Name:  "test",
		Flags: engineFlags(),
		Action: func(c *cli.Context) error {
			cfg = config.Default()
			applyFlags(c, cfg)
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"test", "--model", "gpt-4o-mini", "--dataset", "", "--timeout", "5s", "--no-cache"}))
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Empty(t, cfg.Dataset.Path)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, config.Default().AI.Host, cfg.AI.Host)
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				defaultLogger := slog.Default()
				var got *slog.Logger
				app := &cli.App{
					Name:   "test",
					Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						got = appLogger(c)
						return nil
					},
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", level}))
				require.NotNil(t, got)
				assert.Same(t, got, app.Metadata[loggerKey])
				assert.Same(t, defaultLogger, slog.Default())
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name:   "test",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
