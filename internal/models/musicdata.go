package models

// Track is one library track in the blog's data file.
//
// Field names follow the blog's JSON schema; Duration is milliseconds.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	AlbumArtist string `json:"albumArtist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	Year        *int64 `json:"year"`
	Duration    int64  `json:"duration"`
	ReleaseDate string `json:"releaseDate"`
	Composer    string `json:"composer"`
	PlayCount   int64  `json:"playCount"`
	Loved       bool   `json:"loved"`
	TrackNumber *int64 `json:"trackNumber"`
	DiscNumber  int64  `json:"discNumber"`
	Slug        string `json:"slug,omitempty"`
	AlbumCover  string `json:"albumCover,omitempty"`
}

// Album groups the top tracks belonging to one album.
type Album struct {
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Artist     string  `json:"artist"`
	Year       *int64  `json:"year"`
	Tracks     []Track `json:"tracks"`
	CoverImage string  `json:"coverImage,omitempty"`
}

// Artist groups the top tracks belonging to one artist.
type Artist struct {
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Tracks []Track `json:"tracks"`
	Image  string  `json:"image,omitempty"`
}

// Genre groups the top tracks belonging to one genre.
type Genre struct {
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Tracks []Track `json:"tracks"`
}

// MusicData is the blog's structured music data file.
type MusicData struct {
	Tracks  []Track  `json:"tracks"`
	Albums  []Album  `json:"albums"`
	Artists []Artist `json:"artists"`
	Genres  []Genre  `json:"genres"`
}
