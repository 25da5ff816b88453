package main

import (
	"context"
	"fmt"

	"github.com/aveledo/tracktop/internal/formatter"
	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/aveledo/tracktop/internal/tasks"
	"github.com/aveledo/tracktop/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// MediaGenerate renders gradient placeholders for every album and artist in
// the data file.
func (r *Runner) MediaGenerate(ctx context.Context, cmd *cli.Command) error {
	data, err := formatter.LoadMusicData(r.config.Library.DataPath)
	if err != nil {
		return err
	}

	r.logger.Info("generating placeholders", "albums", len(data.Albums), "artists", len(data.Artists))

	db, assets := r.openAssets()
	if db != nil {
		defer db.Close()
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	engine := tasks.NewMediaEngine(r.service, assets)
	result, err := engine.Generate(ctx, progressCh, data, r.mediaOpts(cmd.Bool("force")))
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if err := formatter.WriteMusicData(r.config.Library.DataPath, data); err != nil {
		return err
	}

	return r.mediaSummary("Placeholders Generated", result)
}

// MediaFetch resolves artwork through the image service, with placeholder fallback.
func (r *Runner) MediaFetch(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: image service not configured, set credentials.lastfm.api_key", shared.ErrServiceUnavailable)
	}

	data, err := formatter.LoadMusicData(r.config.Library.DataPath)
	if err != nil {
		return err
	}

	r.logger.Info("fetching artwork", "service", r.service.Name(), "albums", len(data.Albums), "artists", len(data.Artists))

	db, assets := r.openAssets()
	if db != nil {
		defer db.Close()
	}
	engine := tasks.NewMediaEngine(r.service, assets)
	opts := r.mediaOpts(cmd.Bool("force"))

	if cmd.Bool("ui") {
		return r.runMediaUI(ctx, engine, data, opts, ui.FetchOp)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Fetch(ctx, progressCh, data, opts)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if err := formatter.WriteMusicData(r.config.Library.DataPath, data); err != nil {
		return err
	}

	return r.mediaSummary("Artwork Fetched", result)
}

// MediaReconcile repoints data entries at downloaded images and removes
// superseded placeholder files.
func (r *Runner) MediaReconcile(ctx context.Context, cmd *cli.Command) error {
	data, err := formatter.LoadMusicData(r.config.Library.DataPath)
	if err != nil {
		return err
	}

	db, assets := r.openAssets()
	if db != nil {
		defer db.Close()
	}

	engine := tasks.NewMediaEngine(r.service, assets)
	result, err := engine.Reconcile(ctx, nil, data, r.mediaOpts(false))
	if err != nil {
		return err
	}

	if err := formatter.WriteMusicData(r.config.Library.DataPath, data); err != nil {
		return err
	}

	r.writePlainHeader("Media Reconciled")
	r.writePlain("Entries relinked to downloads: %d\n", result.Relinked)
	r.writePlain("Placeholder files removed: %d\n", result.Removed)
	return nil
}

// runMediaUI drives an artwork pass through the interactive TUI and persists
// the updated data afterwards.
func (r *Runner) runMediaUI(ctx context.Context, engine *tasks.MediaEngine, data *models.MusicData, opts tasks.MediaOpts, op ui.Op) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tracktop-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, engine, data, opts, op)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	result, err := model.Result()
	if err != nil {
		return err
	}
	if result == nil {
		// Quit before the pass finished; leave the data file alone.
		return nil
	}

	if err := formatter.WriteMusicData(r.config.Library.DataPath, data); err != nil {
		return err
	}
	return r.mediaSummary("Artwork Fetched", result)
}

// mediaSummary prints the standard summary block for an artwork pass.
func (r *Runner) mediaSummary(title string, result *tasks.MediaResult) error {
	r.writePlain("\n")
	r.writePlainHeader(title)
	r.writePlain("Albums: %d  Artists: %d\n", result.Albums, result.Artists)
	r.writePlain("Downloaded: %d  Placeholders: %d  Skipped: %d\n", result.Downloaded, result.Placeholders, result.Skipped)

	if len(result.Failures) > 0 {
		r.writePlain("\nFailed entries (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			r.writePlain("  - %s %q: %v\n", f.Kind, f.Name, f.Err)
		}
	}

	return nil
}

// mediaCommand handles artwork generation, fetching and reconciliation.
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Manage album covers and artist images",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Render gradient placeholders for albums and artists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-render placeholders that already exist",
					},
				},
				Action: r.MediaGenerate,
			},
			{
				Name:  "fetch",
				Usage: "Fetch artwork from Last.fm, falling back to placeholders",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Refetch artwork that already exists",
					},
					&cli.BoolFlag{
						Name:  "ui",
						Usage: "Monitor the fetch in an interactive TUI",
					},
				},
				Action: r.MediaFetch,
			},
			{
				Name:   "reconcile",
				Usage:  "Repoint data at downloaded images and remove stale placeholders",
				Action: r.MediaReconcile,
			},
		},
	}
}
