package music

import "github.com/google/uuid"

// Album is a shared entity: one row may be referenced by many songs and
// is deduplicated by case-insensitive, whitespace-trimmed name.
type Album struct {
	ID          string
	Name        string
	AlbumArtist string
	CoverHigh   string
	CoverLow    string
	Year        int
	SongCount   int // derived cache, recomputed by UpdateSongCountAlbum
}

// Artist is a shared entity, deduplicated by name like Album.
type Artist struct {
	ID        string
	Name      string
	Cover     string
	SongCount int
}

// Genre is a shared entity, deduplicated by name like Album.
type Genre struct {
	ID        string
	Name      string
	SongCount int
}

// SearchResult groups the per-category hits of a SearchAll call.
type SearchResult struct {
	Songs   []*Song
	Albums  []*Album
	Artists []*Artist
	Genres  []*Genre
}

// GenerateEntityID creates a fresh UUID for a shared entity row.
func GenerateEntityID() string {
	return uuid.New().String()
}
