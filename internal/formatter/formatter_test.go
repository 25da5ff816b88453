package formatter

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aveledo/tracktop/internal/models"
)

func TestParseHexColor(t *testing.T) {
	tc := []struct {
		name    string
		in      string
		want    [3]uint8
		wantErr bool
	}{
		{name: "purple", in: "#667EEA", want: [3]uint8{102, 126, 234}},
		{name: "black", in: "#000000", want: [3]uint8{0, 0, 0}},
		{name: "missing hash", in: "667EEA", wantErr: true},
		{name: "too short", in: "#FFF", wantErr: true},
		{name: "not hex", in: "#ZZZZZZ", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHexColor(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) error = %v", tt.in, err)
			}
			if got.R != tt.want[0] || got.G != tt.want[1] || got.B != tt.want[2] {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.A != 255 {
				t.Errorf("alpha = %d, want 255", got.A)
			}
		})
	}
}

func TestRenderPlaceholder(t *testing.T) {
	data, err := RenderPlaceholder("OK Computer", PlaceholderOpts{Width: 120, Height: 80})
	if err != nil {
		t.Fatalf("RenderPlaceholder() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 120 || bounds.Dy() != 80 {
		t.Errorf("image size = %dx%d, want 120x80", bounds.Dx(), bounds.Dy())
	}

	// Top edge should be near the gradient start color.
	r, _, b, _ := img.At(2, 0).RGBA()
	if r>>8 > 120 {
		t.Errorf("top-left red = %d, want near %d", r>>8, DefaultGradient[0].R)
	}
	if b>>8 < 200 {
		t.Errorf("top-left blue = %d, want near %d", b>>8, DefaultGradient[0].B)
	}
}

func TestRenderPlaceholderEmptyText(t *testing.T) {
	data, err := RenderPlaceholder("", PlaceholderOpts{Width: 40, Height: 40})
	if err != nil {
		t.Fatalf("RenderPlaceholder() error = %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
}

func TestWritePlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "media", "albums", "test.png")

	if err := WritePlaceholder(path, "Test Album", PlaceholderOpts{Width: 50, Height: 50}); err != nil {
		t.Fatalf("WritePlaceholder() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("placeholder file missing: %v", err)
	}
	defer f.Close()
	if _, _, err := image.Decode(f); err != nil {
		t.Fatalf("placeholder not decodable: %v", err)
	}
}

func TestDownloadImage(t *testing.T) {
	payload := []byte("fake-jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	got, err := DownloadImage(context.Background(), srv.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("DownloadImage() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("DownloadImage() = %q", got)
	}
}

func TestDownloadImageFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := DownloadImage(context.Background(), srv.URL); err == nil {
		t.Error("DownloadImage() expected error for 404")
	}
	if _, err := DownloadImage(context.Background(), ""); err == nil {
		t.Error("DownloadImage() expected error for empty URL")
	}
}

func TestMusicDataRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "music-data.json")

	data := &models.MusicData{
		Tracks: []models.Track{{ID: "1", Name: "Song", Artist: "Band", PlayCount: 3, DiscNumber: 1}},
		Albums: []models.Album{{Name: "Album", Slug: "album", Artist: "Band"}},
	}

	if err := WriteMusicData(path, data); err != nil {
		t.Fatalf("WriteMusicData() error = %v", err)
	}

	got, err := LoadMusicData(path)
	if err != nil {
		t.Fatalf("LoadMusicData() error = %v", err)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].Name != "Song" {
		t.Errorf("LoadMusicData() = %+v", got)
	}
	if len(got.Albums) != 1 || got.Albums[0].Slug != "album" {
		t.Errorf("Albums = %+v", got.Albums)
	}
}

func TestLoadMusicDataMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music-data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMusicData(path); err == nil {
		t.Error("LoadMusicData() expected error for malformed JSON")
	}
}

func TestBackupDataFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "music-data.json")
	if err := os.WriteFile(path, []byte(`{"tracks": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := BackupDataFile(path)
	if err != nil {
		t.Fatalf("BackupDataFile() error = %v", err)
	}
	want := filepath.Join(dir, "music-data_backup.json")
	if backup != want {
		t.Errorf("backup path = %q, want %q", backup, want)
	}

	// Second call leaves the existing backup alone.
	if err := os.WriteFile(path, []byte(`{"tracks": [1]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := BackupDataFile(path); err != nil {
		t.Fatalf("second BackupDataFile() error = %v", err)
	}
	raw, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"tracks": []}` {
		t.Errorf("backup overwritten: %s", raw)
	}

	// Missing source is not an error.
	got, err := BackupDataFile(filepath.Join(dir, "absent.json"))
	if err != nil || got != "" {
		t.Errorf("BackupDataFile(absent) = (%q, %v)", got, err)
	}
}
