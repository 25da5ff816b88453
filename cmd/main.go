package main

import (
	"context"
	"errors"
	"os"

	"github.com/aveledo/tracktop/internal/services"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var imageService services.ImageService
	if config.Credentials.LastFM.APIKey != "" {
		imageService = services.NewLastFMService(
			config.Credentials.LastFM.BaseURL,
			config.Credentials.LastFM.APIKey,
			config.Credentials.LastFM.RateLimit,
		)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: imageService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tracktop",
		Usage:    "Build music data and artwork for the blog from a library export",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
