package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library     LibraryConfig     `toml:"library"`
	Media       MediaConfig       `toml:"media"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
}

// LibraryConfig locates the media-library export and the blog data file.
type LibraryConfig struct {
	Path       string `toml:"path"`
	DataPath   string `toml:"data_path"`
	TrackLimit int    `toml:"track_limit"`
	GenreLimit int    `toml:"genre_limit"`
}

// MediaConfig controls where media files live and how placeholders render.
type MediaConfig struct {
	Dir           string `toml:"dir"`
	FontPath      string `toml:"font_path"`
	GradientStart string `toml:"gradient_start"`
	GradientEnd   string `toml:"gradient_end"`
}

// AlbumsDir returns the album-cover directory under the media root.
func (m MediaConfig) AlbumsDir() string { return filepath.Join(m.Dir, "albums") }

// ArtistsDir returns the artist-image directory under the media root.
func (m MediaConfig) ArtistsDir() string { return filepath.Join(m.Dir, "artists") }

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	LastFM LastFMConfig `toml:"lastfm"`
}

// LastFMConfig contains Last.fm API settings.
type LastFMConfig struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
