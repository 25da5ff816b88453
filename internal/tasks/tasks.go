// package tasks implements the blog build pipelines.
//
// The core abstraction is BuildEngine, which orchestrates library data builds
// and album/artist artwork resolution. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/aveledo/tracktop/internal/formatter"
	"github.com/aveledo/tracktop/internal/library"
	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/repositories"
	"github.com/aveledo/tracktop/internal/services"
	"github.com/aveledo/tracktop/internal/shared"
)

// Media paths recorded in the data file are site-relative, independent of
// where the files land on disk.
const (
	albumMediaPrefix  = "/media/albums/"
	artistMediaPrefix = "/media/artists/"
)

// Placeholder dimensions and caption lengths per asset kind.
const (
	albumArtSize      = 400
	artistArtSize     = 300
	albumCaptionRunes = 30
	artistCaptionRune = 15
)

// BuildOpts configures a data build from a library export.
type BuildOpts struct {
	LibraryPath string
	DataPath    string
	Limits      library.BuildOptions
}

// BuildResult summarizes a data build.
type BuildResult struct {
	TotalTracks int    // Played tracks found in the export
	TopTracks   int    // Tracks kept after ranking
	Albums      int    // Album groups in the data file
	Artists     int    // Artist groups in the data file
	Genres      int    // Genre groups in the data file
	DataPath    string // Where the data file was written
	BackupPath  string // Backup of the previous data file, empty if none
}

// MediaOpts configures artwork generation and fetching.
type MediaOpts struct {
	AlbumsDir  string        // Disk directory for album covers
	ArtistsDir string        // Disk directory for artist images
	FontPath   string        // Optional TTF for placeholder captions
	Gradient   [2]color.RGBA // Placeholder gradient, zero value uses the default
	Force      bool          // Redo work even when the file already exists
}

// MediaFailure records one album or artist whose artwork could not be resolved.
type MediaFailure struct {
	Kind string
	Name string
	Err  error
}

// MediaResult summarizes an artwork pass over the data file.
type MediaResult struct {
	Albums       int // Album entries visited
	Artists      int // Artist entries visited
	Downloaded   int // Images fetched from the image service
	Placeholders int // Gradient placeholders rendered
	Skipped      int // Entries whose file already existed
	Failures     []MediaFailure
}

// ReconcileResult summarizes a media reconciliation pass.
type ReconcileResult struct {
	Relinked int // Data entries moved from a placeholder to a downloaded image
	Removed  int // Placeholder files deleted because a download superseded them
}

// BuildEngine defines the blog build operations.
type BuildEngine interface {
	// Build parses a library export, ranks tracks and writes the data file.
	Build(ctx context.Context, progress chan<- ProgressUpdate, opts BuildOpts) (*BuildResult, error)

	// Generate renders gradient placeholders for every album and artist in the data.
	Generate(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*MediaResult, error)

	// Fetch resolves real artwork through the image service, falling back to placeholders.
	Fetch(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*MediaResult, error)

	// Reconcile repoints data entries at downloaded images and removes superseded placeholders.
	Reconcile(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*ReconcileResult, error)
}

// MediaEngine implements BuildEngine.
//
// The image service and asset repository are optional: without a service,
// Fetch is unavailable; without a repository, outcomes are not cached.
type MediaEngine struct {
	service services.ImageService
	assets  *repositories.MediaAssetRepository
}

// NewMediaEngine creates a MediaEngine with the provided dependencies.
func NewMediaEngine(service services.ImageService, assets *repositories.MediaAssetRepository) *MediaEngine {
	return &MediaEngine{service: service, assets: assets}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MediaEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Build parses the library export, ranks tracks by play count and writes the
// structured data file, backing up any previous one first.
func (e *MediaEngine) Build(ctx context.Context, progress chan<- ProgressUpdate, opts BuildOpts) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, parseLibraryUpdate(opts.LibraryPath))
	tracks, err := library.Parse(opts.LibraryPath)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, rankTracksUpdate(len(tracks)))
	data := library.BuildMusicData(tracks, opts.Limits)

	backup, err := formatter.BackupDataFile(opts.DataPath)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, writeDataUpdate(opts.DataPath, data))
	if err := formatter.WriteMusicData(opts.DataPath, data); err != nil {
		return nil, err
	}

	return &BuildResult{
		TotalTracks: len(tracks),
		TopTracks:   len(data.Tracks),
		Albums:      len(data.Albums),
		Artists:     len(data.Artists),
		Genres:      len(data.Genres),
		DataPath:    opts.DataPath,
		BackupPath:  backup,
	}, nil
}

// Generate renders a gradient placeholder for every album and artist in the
// data and points the data entries at the rendered files. Existing files are
// kept unless opts.Force is set.
func (e *MediaEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*MediaResult, error) {
	result := &MediaResult{}

	for i := range data.Albums {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		album := &data.Albums[i]
		result.Albums++
		e.sendProgress(progress, albumArtUpdate(i+1, len(data.Albums), album.Name))

		webPath, outcome, err := e.placeholderFor(models.AssetAlbum, album.Name, album.Slug, opts)
		if err != nil {
			result.Failures = append(result.Failures, MediaFailure{Kind: models.AssetAlbum, Name: album.Name, Err: err})
			e.sendProgress(progress, artFailedUpdate(AlbumArt, i+1, len(data.Albums), album.Name, err))
			continue
		}
		result.count(outcome)
		album.CoverImage = webPath
		e.sendProgress(progress, artDoneUpdate(AlbumArt, i+1, len(data.Albums), album.Name, outcome))
	}

	for i := range data.Artists {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		artist := &data.Artists[i]
		result.Artists++
		e.sendProgress(progress, artistArtUpdate(i+1, len(data.Artists), artist.Name))

		webPath, outcome, err := e.placeholderFor(models.AssetArtist, artist.Name, artist.Slug, opts)
		if err != nil {
			result.Failures = append(result.Failures, MediaFailure{Kind: models.AssetArtist, Name: artist.Name, Err: err})
			e.sendProgress(progress, artFailedUpdate(ArtistArt, i+1, len(data.Artists), artist.Name, err))
			continue
		}
		result.count(outcome)
		artist.Image = webPath
		e.sendProgress(progress, artDoneUpdate(ArtistArt, i+1, len(data.Artists), artist.Name, outcome))
	}

	applyAlbumCovers(data)
	return result, nil
}

// Fetch resolves artwork for every album and artist through the image
// service, saving downloads as JPEGs and falling back to a placeholder when
// the service has nothing. Entries whose JPEG already exists are skipped
// unless opts.Force is set.
func (e *MediaEngine) Fetch(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*MediaResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: image service not initialized", shared.ErrServiceUnavailable)
	}

	result := &MediaResult{}

	for i := range data.Albums {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		album := &data.Albums[i]
		result.Albums++
		e.sendProgress(progress, albumArtUpdate(i+1, len(data.Albums), album.Name))

		resolve := func(ctx context.Context) (string, error) {
			return e.service.AlbumCoverURL(ctx, album.Artist, album.Name)
		}
		webPath, outcome := e.fetchOne(ctx, models.AssetAlbum, album.Name, album.Slug, resolve, opts, result)
		if webPath != "" {
			album.CoverImage = webPath
		}
		e.sendProgress(progress, artDoneUpdate(AlbumArt, i+1, len(data.Albums), album.Name, outcome))
	}

	for i := range data.Artists {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		artist := &data.Artists[i]
		result.Artists++
		e.sendProgress(progress, artistArtUpdate(i+1, len(data.Artists), artist.Name))

		resolve := func(ctx context.Context) (string, error) {
			return e.service.ArtistImageURL(ctx, artist.Name)
		}
		webPath, outcome := e.fetchOne(ctx, models.AssetArtist, artist.Name, artist.Slug, resolve, opts, result)
		if webPath != "" {
			artist.Image = webPath
		}
		e.sendProgress(progress, artDoneUpdate(ArtistArt, i+1, len(data.Artists), artist.Name, outcome))
	}

	applyAlbumCovers(data)
	return result, nil
}

// Reconcile repoints placeholder entries at downloaded JPEGs where one exists
// on disk, removes the superseded placeholder files and sweeps both media
// directories for leftovers.
func (e *MediaEngine) Reconcile(ctx context.Context, progress chan<- ProgressUpdate, data *models.MusicData, opts MediaOpts) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	for i := range data.Albums {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		album := &data.Albums[i]
		if relinked := e.relink(&album.CoverImage, models.AssetAlbum, album.Slug, opts, result); relinked {
			e.sendProgress(progress, relinkUpdate(i+1, len(data.Albums), album.Name))
		}
	}

	for i := range data.Artists {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		artist := &data.Artists[i]
		if relinked := e.relink(&artist.Image, models.AssetArtist, artist.Slug, opts, result); relinked {
			e.sendProgress(progress, relinkUpdate(i+1, len(data.Artists), artist.Name))
		}
	}

	applyAlbumCovers(data)

	removed, err := sweepShadowedPlaceholders(opts.AlbumsDir)
	if err != nil {
		return result, err
	}
	result.Removed += removed
	removed, err = sweepShadowedPlaceholders(opts.ArtistsDir)
	if err != nil {
		return result, err
	}
	result.Removed += removed

	e.sendProgress(progress, cleanupUpdate(result.Removed))
	return result, nil
}

// placeholderFor ensures a placeholder PNG exists for the given entry and
// returns its site-relative path.
func (e *MediaEngine) placeholderFor(kind, name, slug string, opts MediaOpts) (string, string, error) {
	dir, prefix, size, caption := mediaLayout(kind, opts)

	filename := slug + ".png"
	diskPath := filepath.Join(dir, filename)
	webPath := prefix + filename

	if fileExists(diskPath) && !opts.Force {
		return webPath, "exists", nil
	}

	renderOpts := formatter.PlaceholderOpts{
		Width:    size,
		Height:   size,
		Start:    opts.Gradient[0],
		End:      opts.Gradient[1],
		FontPath: opts.FontPath,
	}
	if err := formatter.WritePlaceholder(diskPath, truncateRunes(name, caption), renderOpts); err != nil {
		return "", "", err
	}

	e.recordAsset(kind, name, slug, models.SourcePlaceholder, "", webPath)
	return webPath, "placeholder", nil
}

// fetchOne resolves artwork for one entry. The happy path downloads a JPEG;
// every failure degrades to a placeholder so the blog never shows a hole.
func (e *MediaEngine) fetchOne(ctx context.Context, kind, name, slug string, resolve func(context.Context) (string, error), opts MediaOpts, result *MediaResult) (string, string) {
	dir, prefix, _, _ := mediaLayout(kind, opts)

	filename := slug + ".jpg"
	diskPath := filepath.Join(dir, filename)
	webPath := prefix + filename

	if fileExists(diskPath) && !opts.Force {
		result.Skipped++
		return webPath, "exists"
	}

	// A cached download lets us skip the API round trip and refetch the
	// image directly.
	url := e.cachedURL(kind, slug, opts)
	if url == "" {
		var err error
		url, err = resolve(ctx)
		if err != nil {
			if !errors.Is(err, shared.ErrImageNotFound) {
				result.Failures = append(result.Failures, MediaFailure{Kind: kind, Name: name, Err: err})
			}
			return e.fallback(kind, name, slug, opts, result)
		}
	}

	imageData, err := formatter.DownloadImage(ctx, url)
	if err != nil {
		result.Failures = append(result.Failures, MediaFailure{Kind: kind, Name: name, Err: err})
		return e.fallback(kind, name, slug, opts, result)
	}
	if err := formatter.SaveImage(diskPath, imageData); err != nil {
		result.Failures = append(result.Failures, MediaFailure{Kind: kind, Name: name, Err: err})
		return e.fallback(kind, name, slug, opts, result)
	}

	result.Downloaded++
	e.recordAsset(kind, name, slug, models.SourceLastFM, url, webPath)
	return webPath, "downloaded"
}

// fallback renders a placeholder for an entry whose artwork could not be
// downloaded.
func (e *MediaEngine) fallback(kind, name, slug string, opts MediaOpts, result *MediaResult) (string, string) {
	webPath, outcome, err := e.placeholderFor(kind, name, slug, opts)
	if err != nil {
		result.Failures = append(result.Failures, MediaFailure{Kind: kind, Name: name, Err: err})
		return "", "failed"
	}
	if outcome == "placeholder" {
		result.Placeholders++
	} else {
		result.Skipped++
	}
	return webPath, outcome
}

// relink moves one data entry from a placeholder PNG to a downloaded JPEG
// when the JPEG exists on disk, deleting the placeholder file.
func (e *MediaEngine) relink(mediaPath *string, kind, slug string, opts MediaOpts, result *ReconcileResult) bool {
	if !strings.HasSuffix(*mediaPath, ".png") {
		return false
	}

	dir, prefix, _, _ := mediaLayout(kind, opts)
	jpgDisk := filepath.Join(dir, slug+".jpg")
	if !fileExists(jpgDisk) {
		return false
	}

	*mediaPath = prefix + slug + ".jpg"
	result.Relinked++

	pngDisk := filepath.Join(dir, slug+".png")
	if fileExists(pngDisk) {
		if err := os.Remove(pngDisk); err == nil {
			result.Removed++
		}
	}

	e.recordAsset(kind, "", slug, "", "", *mediaPath)
	return true
}

// recordAsset upserts the asset cache row for an entry. Cache failures never
// abort a build; empty fields leave the cached value alone on update.
func (e *MediaEngine) recordAsset(kind, name, slug, source, url, webPath string) {
	if e.assets == nil {
		return
	}

	existing, err := e.assets.GetBySlug(kind, slug)
	if err != nil {
		if !errors.Is(err, shared.ErrAssetNotFound) || source == "" {
			return
		}
		asset := &models.MediaAsset{Kind: kind, Name: name, Slug: slug, Source: source, URL: url, Path: webPath}
		_ = e.assets.Create(asset)
		return
	}

	if name != "" {
		existing.Name = name
	}
	if source != "" {
		existing.Source = source
		existing.URL = url
	}
	existing.Path = webPath
	_ = e.assets.Update(existing)
}

// cachedURL returns the remembered download URL for an entry, if any.
func (e *MediaEngine) cachedURL(kind, slug string, opts MediaOpts) string {
	if e.assets == nil || opts.Force {
		return ""
	}
	asset, err := e.assets.GetBySlug(kind, slug)
	if err != nil || asset.Source != models.SourceLastFM {
		return ""
	}
	return asset.URL
}

// count tallies a placeholderFor outcome.
func (r *MediaResult) count(outcome string) {
	switch outcome {
	case "exists":
		r.Skipped++
	case "placeholder":
		r.Placeholders++
	}
}

// mediaLayout returns the disk directory, site path prefix, placeholder size
// and caption length for an asset kind.
func mediaLayout(kind string, opts MediaOpts) (dir, prefix string, size, caption int) {
	if kind == models.AssetArtist {
		return opts.ArtistsDir, artistMediaPrefix, artistArtSize, artistCaptionRune
	}
	return opts.AlbumsDir, albumMediaPrefix, albumArtSize, albumCaptionRunes
}

// applyAlbumCovers propagates album cover paths onto every track copy in the
// data file, including the copies nested under artists and genres.
func applyAlbumCovers(data *models.MusicData) {
	covers := make(map[string]string, len(data.Albums))
	for _, album := range data.Albums {
		if album.CoverImage != "" {
			covers[album.Name] = album.CoverImage
		}
	}

	setCover := func(tracks []models.Track) {
		for i := range tracks {
			if path, ok := covers[tracks[i].Album]; ok {
				tracks[i].AlbumCover = path
			}
		}
	}

	setCover(data.Tracks)
	for i := range data.Albums {
		setCover(data.Albums[i].Tracks)
	}
	for i := range data.Artists {
		setCover(data.Artists[i].Tracks)
	}
	for i := range data.Genres {
		setCover(data.Genres[i].Tracks)
	}
}

// sweepShadowedPlaceholders removes every PNG in dir that has a JPEG sibling
// with the same basename.
func sweepShadowedPlaceholders(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read media directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		jpg := strings.TrimSuffix(name, ".png") + ".jpg"
		if fileExists(filepath.Join(dir, jpg)) {
			if err := os.Remove(filepath.Join(dir, name)); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
