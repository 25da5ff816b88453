package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[library]
path = "exports/Library.xml"
track_limit = 50

[media]
dir = "static/media"

[credentials.lastfm]
api_key = "secret"
rate_limit = 2.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Library.Path != "exports/Library.xml" {
		t.Errorf("Library.Path = %q", config.Library.Path)
	}
	if config.Library.TrackLimit != 50 {
		t.Errorf("TrackLimit = %d, want 50", config.Library.TrackLimit)
	}
	if config.Credentials.LastFM.APIKey != "secret" {
		t.Errorf("APIKey = %q, want secret", config.Credentials.LastFM.APIKey)
	}
	if config.Credentials.LastFM.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v, want 2.5", config.Credentials.LastFM.RateLimit)
	}
	if got := config.Media.AlbumsDir(); got != filepath.Join("static/media", "albums") {
		t.Errorf("AlbumsDir() = %q", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() on created file error = %v", err)
	}
	if config.Library.TrackLimit != 200 {
		t.Errorf("TrackLimit = %d, want 200", config.Library.TrackLimit)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("CreateConfigFile() expected error when file exists")
	}
}
