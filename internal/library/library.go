// package library parses a media-library XML export into the blog's
// structured music data.
//
// The export is a property-list document: a plist root wrapping one dict
// whose Tracks entry maps track ids to per-track records. Parsing goes
// through [plist.Decode]; this package only interprets the decoded tree.
package library

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/plist"
	"github.com/aveledo/tracktop/internal/shared"
	"github.com/beevik/etree"
)

// Parse reads a library export file and extracts every track with at
// least one play, in document order.
func Parse(path string) ([]models.Track, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingLibrary, err)
	}
	return parseDocument(doc)
}

// ParseString parses a library export from a string. Exposed for tests
// and piped input.
func ParseString(data string) ([]models.Track, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedData, err)
	}
	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) ([]models.Track, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", shared.ErrMalformedData)
	}

	dictEl := root.SelectElement("dict")
	if dictEl == nil {
		return []models.Track{}, nil
	}

	decoded, err := plist.Decode(dictEl)
	if err != nil {
		return nil, fmt.Errorf("failed to decode library: %w", err)
	}

	top, err := decoded.AsDict()
	if err != nil {
		return nil, fmt.Errorf("%w: top-level value is not a record", shared.ErrMalformedData)
	}

	tracksVal, ok := top.Get("Tracks")
	if !ok {
		return []models.Track{}, nil
	}
	tracksDict, err := tracksVal.AsDict()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingTracks, err)
	}

	var tracks []models.Track
	for _, id := range tracksDict.Keys() {
		entry, _ := tracksDict.Get(id)
		record, err := entry.AsDict()
		if err != nil {
			// Non-record track entries are skipped, matching the
			// tolerance of the rest of the decode path.
			continue
		}

		track := extractTrack(id, record)
		if track.PlayCount > 0 {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

// extractTrack maps one track record to the blog schema, applying the
// blog's defaults for missing fields.
func extractTrack(key string, record *plist.Dict) models.Track {
	id := key
	if n, ok := intField(record, "Track ID"); ok {
		id = strconv.FormatInt(n, 10)
	}

	artist := stringField(record, "Artist", "Unknown Artist")
	albumArtist := stringField(record, "Album Artist", artist)

	loved := boolField(record, "Loved") || boolField(record, "Favorited")

	track := models.Track{
		ID:          id,
		Name:        stringField(record, "Name", "Unknown"),
		Artist:      artist,
		AlbumArtist: albumArtist,
		Album:       stringField(record, "Album", "Unknown Album"),
		Genre:       stringField(record, "Genre", "Unknown"),
		ReleaseDate: stringField(record, "Release Date", ""),
		Composer:    stringField(record, "Composer", ""),
		Loved:       loved,
		DiscNumber:  1,
	}

	if n, ok := intField(record, "Year"); ok {
		track.Year = &n
	}
	if n, ok := intField(record, "Total Time"); ok {
		track.Duration = n
	}
	if n, ok := intField(record, "Play Count"); ok {
		track.PlayCount = n
	}
	if n, ok := intField(record, "Track Number"); ok {
		track.TrackNumber = &n
	}
	if n, ok := intField(record, "Disc Number"); ok {
		track.DiscNumber = n
	}

	return track
}

func stringField(d *plist.Dict, key, def string) string {
	v, ok := d.Get(key)
	if !ok {
		return def
	}
	s, err := v.AsString()
	if err != nil {
		return def
	}
	return s
}

func intField(d *plist.Dict, key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	n, err := v.AsInt()
	if err != nil {
		return 0, false
	}
	return n, true
}

func boolField(d *plist.Dict, key string) bool {
	v, ok := d.Get(key)
	if !ok {
		return false
	}
	b, err := v.AsBool()
	if err != nil {
		return false
	}
	return b
}

// BuildOptions controls how much of the library makes it into the data file.
type BuildOptions struct {
	TrackLimit int // top tracks kept, default 200
	GenreLimit int // top genres kept, default 10
}

// grouping is an insertion-ordered multimap used while bucketing tracks.
type grouping struct {
	keys    []string
	buckets map[string][]models.Track
}

func newGrouping() *grouping {
	return &grouping{buckets: make(map[string][]models.Track)}
}

func (g *grouping) add(key string, t models.Track) {
	if _, ok := g.buckets[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.buckets[key] = append(g.buckets[key], t)
}

// sortedKeys returns group keys ordered by bucket size descending,
// first-seen order for ties.
func (g *grouping) sortedKeys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return len(g.buckets[keys[i]]) > len(g.buckets[keys[j]])
	})
	return keys
}

// BuildMusicData ranks tracks by play count and groups the winners into
// album, artist and genre views. Albums and artists keep every group from
// the top tracks; genres keep only the most-represented ones.
func BuildMusicData(tracks []models.Track, opts BuildOptions) *models.MusicData {
	if opts.TrackLimit <= 0 {
		opts.TrackLimit = 200
	}
	if opts.GenreLimit <= 0 {
		opts.GenreLimit = 10
	}

	sorted := make([]models.Track, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayCount > sorted[j].PlayCount
	})
	if len(sorted) > opts.TrackLimit {
		sorted = sorted[:opts.TrackLimit]
	}

	albums := newGrouping()
	artists := newGrouping()
	genres := newGrouping()

	for i := range sorted {
		sorted[i].Slug = shared.Slugify(sorted[i].Name)

		albums.add(sorted[i].Album, sorted[i])
		artists.add(sorted[i].Artist, sorted[i])
		genres.add(sorted[i].Genre, sorted[i])
	}

	data := &models.MusicData{
		Tracks:  sorted,
		Albums:  []models.Album{},
		Artists: []models.Artist{},
		Genres:  []models.Genre{},
	}

	for _, name := range albums.sortedKeys() {
		bucket := albums.buckets[name]
		album := models.Album{
			Name:   name,
			Slug:   shared.Slugify(name),
			Artist: bucket[0].Artist,
			Year:   bucket[0].Year,
			Tracks: bucket,
		}
		data.Albums = append(data.Albums, album)
	}

	for _, name := range artists.sortedKeys() {
		data.Artists = append(data.Artists, models.Artist{
			Name:   name,
			Slug:   shared.Slugify(name),
			Tracks: artists.buckets[name],
		})
	}

	genreKeys := genres.sortedKeys()
	if len(genreKeys) > opts.GenreLimit {
		genreKeys = genreKeys[:opts.GenreLimit]
	}
	for _, name := range genreKeys {
		data.Genres = append(data.Genres, models.Genre{
			Name:   name,
			Slug:   shared.Slugify(name),
			Tracks: genres.buckets[name],
		})
	}

	return data
}
