// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations over the sqlite media cache.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/shared"
)

// MediaAssetRepository implements models.Repository[*models.MediaAsset]
// over the media_assets table.
type MediaAssetRepository struct {
	db *sql.DB
}

// NewMediaAssetRepository creates a repository backed by the given database.
func NewMediaAssetRepository(db *sql.DB) *MediaAssetRepository {
	return &MediaAssetRepository{db: db}
}

// Create inserts a new media asset. The asset is validated first and given
// an id if it has none.
func (r *MediaAssetRepository) Create(asset *models.MediaAsset) error {
	if asset.AssetID == "" {
		asset.AssetID = shared.GenerateID()
	}
	now := time.Now().UTC()
	if asset.Created.IsZero() {
		asset.Created = now
	}
	asset.Updated = now

	if err := asset.Validate(); err != nil {
		return fmt.Errorf("invalid media asset: %w", err)
	}

	_, err := r.db.Exec(
		`INSERT INTO media_assets (id, kind, name, slug, source, url, path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.AssetID, asset.Kind, asset.Name, asset.Slug, asset.Source, asset.URL, asset.Path,
		asset.Created, asset.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media asset: %w", err)
	}
	return nil
}

// Get retrieves a media asset by its ID.
func (r *MediaAssetRepository) Get(id string) (*models.MediaAsset, error) {
	row := r.db.QueryRow(
		`SELECT id, kind, name, slug, source, url, path, created_at, updated_at
		 FROM media_assets WHERE id = ?`, id)

	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %s", shared.ErrAssetNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media asset: %w", err)
	}
	return asset, nil
}

// GetBySlug retrieves a media asset by kind and slug, the natural lookup
// for skip-if-cached checks.
func (r *MediaAssetRepository) GetBySlug(kind, slug string) (*models.MediaAsset, error) {
	row := r.db.QueryRow(
		`SELECT id, kind, name, slug, source, url, path, created_at, updated_at
		 FROM media_assets WHERE kind = ? AND slug = ?`, kind, slug)

	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", shared.ErrAssetNotFound, kind, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media asset: %w", err)
	}
	return asset, nil
}

// Update modifies an existing media asset.
func (r *MediaAssetRepository) Update(asset *models.MediaAsset) error {
	asset.Updated = time.Now().UTC()
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("invalid media asset: %w", err)
	}

	res, err := r.db.Exec(
		`UPDATE media_assets SET kind = ?, name = ?, slug = ?, source = ?, url = ?, path = ?, updated_at = ?
		 WHERE id = ?`,
		asset.Kind, asset.Name, asset.Slug, asset.Source, asset.URL, asset.Path, asset.Updated,
		asset.AssetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update media asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %s", shared.ErrAssetNotFound, asset.AssetID)
	}
	return nil
}

// Delete removes a media asset by its ID.
func (r *MediaAssetRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM media_assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete media asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %s", shared.ErrAssetNotFound, id)
	}
	return nil
}

// List retrieves all media assets matching the given criteria.
// Supported criteria keys: kind, slug, source.
func (r *MediaAssetRepository) List(criteria map[string]any) ([]*models.MediaAsset, error) {
	query := `SELECT id, kind, name, slug, source, url, path, created_at, updated_at FROM media_assets`
	var clauses []string
	var args []any

	for _, key := range []string{"kind", "slug", "source"} {
		if v, ok := criteria[key]; ok {
			clauses = append(clauses, fmt.Sprintf("%s = ?", key))
			args = append(args, v)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.MediaAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media assets: %w", err)
	}
	return assets, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	var url sql.NullString
	err := s.Scan(
		&asset.AssetID, &asset.Kind, &asset.Name, &asset.Slug, &asset.Source,
		&url, &asset.Path, &asset.Created, &asset.Updated,
	)
	if err != nil {
		return nil, err
	}
	asset.URL = url.String
	return &asset, nil
}
