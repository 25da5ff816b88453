package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func testAsset() *models.MediaAsset {
	return &models.MediaAsset{
		Kind:   models.AssetAlbum,
		Name:   "OK Computer",
		Slug:   "ok-computer",
		Source: models.SourceLastFM,
		URL:    "https://img.example/ok-computer.jpg",
		Path:   "/media/albums/ok-computer.jpg",
	}
}

func TestMediaAssetRepositoryCRUD(t *testing.T) {
	repo := NewMediaAssetRepository(newTestDB(t))

	asset := testAsset()
	if err := repo.Create(asset); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if asset.AssetID == "" {
		t.Fatal("Create() did not assign an id")
	}

	got, err := repo.Get(asset.AssetID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "OK Computer" || got.Source != models.SourceLastFM {
		t.Errorf("Get() = %+v", got)
	}

	got.Source = models.SourcePlaceholder
	got.URL = ""
	got.Path = "/media/albums/ok-computer.png"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	updated, err := repo.GetBySlug(models.AssetAlbum, "ok-computer")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if updated.Source != models.SourcePlaceholder {
		t.Errorf("Source = %q after update", updated.Source)
	}
	if updated.Path != "/media/albums/ok-computer.png" {
		t.Errorf("Path = %q after update", updated.Path)
	}

	if err := repo.Delete(asset.AssetID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(asset.AssetID); !errors.Is(err, shared.ErrAssetNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrAssetNotFound", err)
	}
}

func TestMediaAssetRepositoryList(t *testing.T) {
	repo := NewMediaAssetRepository(newTestDB(t))

	albums := []*models.MediaAsset{
		{Kind: models.AssetAlbum, Name: "A", Slug: "a", Source: models.SourceLastFM, Path: "/media/albums/a.jpg"},
		{Kind: models.AssetAlbum, Name: "B", Slug: "b", Source: models.SourcePlaceholder, Path: "/media/albums/b.png"},
		{Kind: models.AssetArtist, Name: "C", Slug: "c", Source: models.SourcePlaceholder, Path: "/media/artists/c.png"},
	}
	for _, a := range albums {
		if err := repo.Create(a); err != nil {
			t.Fatalf("Create(%s) error = %v", a.Slug, err)
		}
	}

	got, err := repo.List(map[string]any{"kind": models.AssetAlbum})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List(kind=album) returned %d assets, want 2", len(got))
	}

	got, err = repo.List(map[string]any{"source": models.SourcePlaceholder})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List(source=placeholder) returned %d assets, want 2", len(got))
	}

	got, err = repo.List(nil)
	if err != nil {
		t.Fatalf("List(nil) error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List(nil) returned %d assets, want 3", len(got))
	}
}

func TestMediaAssetRepositoryValidation(t *testing.T) {
	repo := NewMediaAssetRepository(newTestDB(t))

	bad := testAsset()
	bad.Kind = "banner"
	if err := repo.Create(bad); err == nil {
		t.Error("Create() expected error for unknown kind")
	}

	bad = testAsset()
	bad.Source = "scraped"
	if err := repo.Create(bad); err == nil {
		t.Error("Create() expected error for unknown source")
	}
}
