package models

import (
	"fmt"
	"time"
)

// Asset kinds.
const (
	AssetAlbum  = "album"
	AssetArtist = "artist"
)

// Asset sources.
const (
	SourceLastFM      = "lastfm"
	SourcePlaceholder = "placeholder"
)

// MediaAsset records the outcome of resolving one album cover or artist
// image: where it came from and where it was written on disk.
type MediaAsset struct {
	AssetID string
	Kind    string // album or artist
	Name    string
	Slug    string
	Source  string // lastfm or placeholder
	URL     string // remote URL for downloaded images, empty for placeholders
	Path    string // media path recorded in the data file, e.g. /media/albums/x.jpg
	Created time.Time
	Updated time.Time
}

func (a *MediaAsset) ID() string           { return a.AssetID }
func (a *MediaAsset) CreatedAt() time.Time { return a.Created }
func (a *MediaAsset) UpdatedAt() time.Time { return a.Updated }

// Validate checks that the asset's discriminator fields hold known values.
func (a *MediaAsset) Validate() error {
	if a.AssetID == "" {
		return fmt.Errorf("media asset missing id")
	}
	if a.Kind != AssetAlbum && a.Kind != AssetArtist {
		return fmt.Errorf("media asset has unknown kind %q", a.Kind)
	}
	if a.Source != SourceLastFM && a.Source != SourcePlaceholder {
		return fmt.Errorf("media asset has unknown source %q", a.Source)
	}
	if a.Slug == "" {
		return fmt.Errorf("media asset missing slug")
	}
	return nil
}
