package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aveledo/tracktop/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs a local preview server for the built media and data files.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	router := server.NewPreviewRouter(r.config.Library.DataPath, r.config.Media.Dir, r.logger)

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("preview server listening", "addr", addr)
	r.writePlain("Serving media and data on http://%s\n", addr)
	r.writePlain("  /media/...             built covers and placeholders\n")
	r.writePlain("  /data/music-data.json  current data file\n")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

// serveCommand previews built assets over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve built media and music data for local preview",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Address to listen on",
				Value:   "localhost:4321",
			},
		},
		Action: r.Serve,
	}
}
