package music

import "context"

// Library is the storage contract for the music library. It's the
// primary repository interface everything else consumes.
//
// Every mutating call runs inside one transaction: bridge rows and
// entity rows are never observable half-applied. RemoveSong returns the
// cover-image paths orphaned by the delete; removing those files is the
// caller's (best-effort) job, never the transaction's.
type Library interface {
	// Song methods
	Store(ctx context.Context, song *Song) error
	RemoveSong(ctx context.Context, id string) ([]string, error)
	GetSongsByOptions(ctx context.Context, opts QueryOptions, excludePaths ...string) ([]*Song, error)
	GetByHash(ctx context.Context, hash string) (*Song, error)
	UpdateSongCover(ctx context.Context, songID, coverHigh, coverLow string) error
	UpdateAlbumCoverIfMissing(ctx context.Context, songID, coverHigh, coverLow string) error

	// Entity methods
	GetAlbumsByOptions(ctx context.Context, filter AlbumFilter, sort *Sort) ([]*Album, error)
	GetArtistsByOptions(ctx context.Context, filter ArtistFilter, sort *Sort) ([]*Artist, error)
	GetGenresByOptions(ctx context.Context, filter GenreFilter, sort *Sort) ([]*Genre, error)
	GetPlaylistsByOptions(ctx context.Context, filter PlaylistFilter, sort *Sort) ([]*Playlist, error)
	SearchAll(ctx context.Context, term string, excludePaths ...string) (*SearchResult, error)

	// Playlist methods
	CreatePlaylist(ctx context.Context, playlist *Playlist) error
	GetPlaylistSongs(ctx context.Context, playlistID string) ([]*Song, error)
	AddToPlaylist(ctx context.Context, playlistID string, songIDs ...string) error
	RemoveFromPlaylist(ctx context.Context, playlistID string, songIDs ...string) error
	RemovePlaylist(ctx context.Context, playlistID string) error

	// Song-count caches are derived state; these sweeps overwrite them
	// from live bridge-row counts.
	UpdateSongCountAlbum(ctx context.Context) error
	UpdateSongCountArtist(ctx context.Context) error
	UpdateSongCountGenre(ctx context.Context) error
	UpdateSongCountPlaylist(ctx context.Context) error

	// Stats
	Stats(ctx context.Context) (Stats, error)
	CodecDistribution(ctx context.Context) (map[string]int, error)
}

// Stats are the total row counts per category.
type Stats struct {
	Songs     int
	Albums    int
	Artists   int
	Genres    int
	Playlists int
}
