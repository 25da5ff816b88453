package main

import (
	"context"
	"fmt"

	"github.com/aveledo/tracktop/internal/library"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/aveledo/tracktop/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Parse parses the library export, ranks tracks and writes the data file.
func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	libraryPath := cmd.String("library")
	if libraryPath == "" {
		libraryPath = r.config.Library.Path
	}
	if libraryPath == "" {
		return fmt.Errorf("%w: no library export configured, pass --library or set library.path", shared.ErrMissingLibrary)
	}

	dataPath := cmd.String("output")
	if dataPath == "" {
		dataPath = r.config.Library.DataPath
	}

	limits := library.BuildOptions{
		TrackLimit: int(cmd.Int("limit")),
		GenreLimit: int(cmd.Int("genre-limit")),
	}
	if limits.TrackLimit == 0 {
		limits.TrackLimit = r.config.Library.TrackLimit
	}
	if limits.GenreLimit == 0 {
		limits.GenreLimit = r.config.Library.GenreLimit
	}

	r.logger.Info("building music data", "library", libraryPath, "output", dataPath)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	engine := tasks.NewMediaEngine(r.service, nil)
	result, err := engine.Build(ctx, progressCh, tasks.BuildOpts{
		LibraryPath: libraryPath,
		DataPath:    dataPath,
		Limits:      limits,
	})
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Music Data Built")
	r.writePlain("Played tracks found: %d\n", result.TotalTracks)
	r.writePlain("Top tracks kept: %d\n", result.TopTracks)
	r.writePlain("Albums: %d  Artists: %d  Genres: %d\n", result.Albums, result.Artists, result.Genres)
	r.writePlain("Data file: %s\n", result.DataPath)
	if result.BackupPath != "" {
		r.writePlain("Previous data backed up to: %s\n", result.BackupPath)
	}

	return nil
}

// parseCommand builds the data file from a library export.
func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Parse a library export and build the music data file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Path to the library XML export",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path for the music data JSON file",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of top tracks to keep",
			},
			&cli.IntFlag{
				Name:  "genre-limit",
				Usage: "Number of top genres to keep",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output build summary as JSON",
			},
		},
		Action: r.Parse,
	}
}
