package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"melodex/src/music"
)

func newTestLibrary(t *testing.T) *SqliteLibrary {
	t.Helper()
	return newTestLibraryWithOptions(t, Options{})
}

func newTestLibraryWithOptions(t *testing.T, opts Options) *SqliteLibrary {
	t.Helper()
	lib, err := NewSqliteLibrary(filepath.Join(t.TempDir(), "library.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

// seedSong stores a song with the given associations and returns it
// with its assigned ID.
func seedSong(t *testing.T, lib *SqliteLibrary, title, path string, artists []string, album string, genres []string) *music.Song {
	t.Helper()
	song := &music.Song{Title: title, Path: path}
	for _, name := range artists {
		song.Artists = append(song.Artists, music.Artist{Name: name})
	}
	if album != "" {
		song.Album = &music.Album{Name: album}
	}
	for _, name := range genres {
		song.Genres = append(song.Genres, music.Genre{Name: name})
	}
	require.NoError(t, lib.Store(context.Background(), song))
	return song
}

func countRows(t *testing.T, lib *SqliteLibrary, table string) int {
	t.Helper()
	var n int
	require.NoError(t, lib.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestNewSqliteLibrary_CreatesSchema(t *testing.T) {
	lib := newTestLibrary(t)

	for _, table := range []string{
		"songs", "albums", "artists", "genres", "playlists",
		"song_artists", "song_albums", "song_genres", "playlist_songs",
	} {
		require.Equal(t, 0, countRows(t, lib, table), "table %s should exist and be empty", table)
	}
}

func TestNewSqliteLibrary_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	lib, err := NewSqliteLibrary(path, Options{})
	require.NoError(t, err)
	seedSong(t, lib, "Da Funk", "/music/dafunk.mp3", []string{"Daft Punk"}, "Homework", nil)
	require.NoError(t, lib.Close())

	reopened, err := NewSqliteLibrary(path, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	songs, err := reopened.GetSongsByOptions(context.Background(), music.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.Equal(t, "Da Funk", songs[0].Title)
}
