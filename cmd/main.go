package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/repositories"
	"github.com/desertthunder/passport/internal/shared"
)

// configEnv overrides the default config.toml location.
const configEnv = "PASSPORT_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p := os.Getenv(configEnv); p != "" {
		if _, err := os.Stat(p); err != nil {
			logger.Fatalf("%v: %s=%s", shared.ErrMissingConfig, configEnv, p)
		}
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, config.Log.Level)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Fatalf("failed to open client database: %v", err)
	}
	defer db.Close()

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		HTTPClient: &http.Client{Timeout: config.Timeout()},
		Logger:     logger,
		Storage:    repositories.NewClientStateRepository(db),
		Runs:       repositories.NewExportRunRepository(db),
	})

	app := &cli.Command{
		Name:     "passport",
		Usage:    "Explore the world's music one country at a time",
		Version:  "0.1.0",
		Before:   runner.Restore,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		db.Close()
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrInvalidSession):
			logger.Error(err.Error())
			os.Exit(2)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
