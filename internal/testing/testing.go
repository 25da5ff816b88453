// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"
)

// MockImageService is a test double for [services.ImageService]
type MockImageService struct {
	AlbumURL    string
	ArtistURL   string
	AlbumErr    error
	ArtistErr   error
	AlbumCalls  int
	ArtistCalls int
}

func (m *MockImageService) AlbumCoverURL(ctx context.Context, artist, album string) (string, error) {
	m.AlbumCalls++
	return m.AlbumURL, m.AlbumErr
}

func (m *MockImageService) ArtistImageURL(ctx context.Context, artist string) (string, error) {
	m.ArtistCalls++
	return m.ArtistURL, m.ArtistErr
}

func (m *MockImageService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
