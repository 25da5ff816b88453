package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/aveledo/tracktop/internal/formatter"
	"github.com/aveledo/tracktop/internal/repositories"
	"github.com/aveledo/tracktop/internal/services"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/aveledo/tracktop/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.ImageService
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.ImageService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		parseCommand, mediaCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, e.g. to redirect output while a TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openAssets opens the media asset cache when the database has been set up.
// A missing database is not an error; the pipelines just run uncached.
func (r *Runner) openAssets() (*sql.DB, *repositories.MediaAssetRepository) {
	path := r.config.Database.Path
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		r.logger.Warn("failed to open media cache", "error", err)
		return nil, nil
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, repositories.NewMediaAssetRepository(db)
}

// mediaOpts assembles pipeline options from the media config.
func (r *Runner) mediaOpts(force bool) tasks.MediaOpts {
	opts := tasks.MediaOpts{
		AlbumsDir:  r.config.Media.AlbumsDir(),
		ArtistsDir: r.config.Media.ArtistsDir(),
		FontPath:   r.config.Media.FontPath,
		Force:      force,
	}

	start, startErr := formatter.ParseHexColor(r.config.Media.GradientStart)
	end, endErr := formatter.ParseHexColor(r.config.Media.GradientEnd)
	if startErr == nil && endErr == nil {
		opts.Gradient = [2]color.RGBA{start, end}
	}

	return opts
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
