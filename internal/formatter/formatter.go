// package formatter renders placeholder artwork and reads and writes the
// blog's media files (downloaded images, music data JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/fogleman/gg"
)

// PlaceholderOpts controls gradient placeholder rendering.
type PlaceholderOpts struct {
	Width    int
	Height   int
	Start    color.RGBA // top gradient color
	End      color.RGBA // bottom gradient color
	FontPath string     // optional TTF; empty falls back to the built-in face
}

// DefaultGradient is the purple gradient used when config supplies none.
var DefaultGradient = [2]color.RGBA{
	{R: 102, G: 126, B: 234, A: 255},
	{R: 118, G: 75, B: 162, A: 255},
}

// ParseHexColor parses a #RRGGBB color string.
func ParseHexColor(s string) (color.RGBA, error) {
	var c color.RGBA
	c.A = 255
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("%w: hex color %q", shared.ErrInvalidInput, s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("%w: hex color %q", shared.ErrInvalidInput, s)
	}
	return c, nil
}

// RenderPlaceholder draws a vertical gradient with centered, word-wrapped
// white text and returns it as PNG bytes.
func RenderPlaceholder(text string, opts PlaceholderOpts) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 400
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.Start.A == 0 && opts.End.A == 0 {
		opts.Start, opts.End = DefaultGradient[0], DefaultGradient[1]
	}

	dc := gg.NewContext(opts.Width, opts.Height)

	// One pixel-aligned row per gradient step avoids antialiasing seams.
	for y := 0; y < opts.Height; y++ {
		ratio := float64(y) / float64(opts.Height)
		dc.SetRGB255(
			lerp(opts.Start.R, opts.End.R, ratio),
			lerp(opts.Start.G, opts.End.G, ratio),
			lerp(opts.Start.B, opts.End.B, ratio),
		)
		dc.DrawRectangle(0, float64(y), float64(opts.Width), 1)
		dc.Fill()
	}

	if opts.FontPath != "" {
		size := 60.0
		if n := len([]rune(text)); n > 0 && opts.Width/n < 60 {
			size = float64(opts.Width / n)
		}
		// Missing or unreadable fonts fall back to the default face.
		_ = dc.LoadFontFace(opts.FontPath, size)
	}

	if text == "" {
		text = "?"
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(
		text,
		float64(opts.Width)/2, float64(opts.Height)/2,
		0.5, 0.5,
		float64(opts.Width-40), 1.5,
		gg.AlignCenter,
	)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, ratio float64) int {
	return int(float64(a)*(1-ratio) + float64(b)*ratio)
}

// WritePlaceholder renders a placeholder and writes it to path, creating
// parent directories as needed.
func WritePlaceholder(path, text string, opts PlaceholderOpts) error {
	data, err := RenderPlaceholder(text, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write placeholder: %w", err)
	}
	return nil
}

var downloadClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL", shared.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// SaveImage writes downloaded image bytes to path, creating parent
// directories as needed.
func SaveImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// LoadMusicData reads the blog's music data JSON file.
func LoadMusicData(path string) (*models.MusicData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read music data: %w", err)
	}

	var data models.MusicData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedData, err)
	}
	return &data, nil
}

// WriteMusicData writes the music data file as indented JSON.
func WriteMusicData(path string, data *models.MusicData) error {
	out, err := shared.MarshalJSON(data, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write music data: %w", err)
	}
	return nil
}

// BackupDataFile copies the data file to a _backup sibling once; an
// existing backup is left alone. Returns the backup path, or "" when
// there is nothing to back up.
func BackupDataFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}

	ext := filepath.Ext(path)
	backup := path[:len(path)-len(ext)] + "_backup" + ext
	if _, err := os.Stat(backup); err == nil {
		return backup, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read data file for backup: %w", err)
	}
	if err := os.WriteFile(backup, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backup, nil
}
