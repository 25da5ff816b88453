// package services defines interface ImageService for resolving artwork
// from third-party HTTP APIs.
//
// Last.fm is the only implementation; the interface keeps the media
// pipelines testable without network access.
package services

import (
	"context"
)

// ImageService resolves remote artwork URLs for albums and artists.
type ImageService interface {
	// AlbumCoverURL returns the URL of the largest known cover image for
	// the album, or shared.ErrImageNotFound when the service has none.
	AlbumCoverURL(ctx context.Context, artist, album string) (string, error)

	// ArtistImageURL returns the URL of the largest known image for the
	// artist, or shared.ErrImageNotFound when the service has none.
	ArtistImageURL(ctx context.Context, artist string) (string, error)

	// Name returns the name of the service (e.g., "Last.fm")
	Name() string
}
