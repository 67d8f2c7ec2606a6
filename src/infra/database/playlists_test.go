package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/src/music"
)

func TestPlaylistLifecycle(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	a := seedSong(t, lib, "One More Time", "/1.mp3", nil, "", nil)
	b := seedSong(t, lib, "Aerodynamic", "/2.mp3", nil, "", nil)

	playlist := &music.Playlist{Name: "Morning Mix", Description: "wake up slowly"}
	require.NoError(t, lib.CreatePlaylist(ctx, playlist))
	require.NotEmpty(t, playlist.ID)

	require.NoError(t, lib.AddToPlaylist(ctx, playlist.ID, a.ID, b.ID))

	songs, err := lib.GetPlaylistSongs(ctx, playlist.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"One More Time", "Aerodynamic"}, titles(songs))

	require.NoError(t, lib.RemoveFromPlaylist(ctx, playlist.ID, a.ID))
	songs, err = lib.GetPlaylistSongs(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aerodynamic"}, titles(songs))

	// Unlinking never touches the songs themselves.
	assert.Equal(t, 2, countRows(t, lib, "songs"))

	require.NoError(t, lib.RemovePlaylist(ctx, playlist.ID))
	assert.Equal(t, 0, countRows(t, lib, "playlists"))
	assert.Equal(t, 0, countRows(t, lib, "playlist_songs"))
	assert.Equal(t, 2, countRows(t, lib, "songs"))
}

func TestCreatePlaylist_AllowsDuplicateNames(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	require.NoError(t, lib.CreatePlaylist(ctx, &music.Playlist{Name: "Mix"}))
	require.NoError(t, lib.CreatePlaylist(ctx, &music.Playlist{Name: "Mix"}))
	assert.Equal(t, 2, countRows(t, lib, "playlists"))
}

func TestCreatePlaylist_RejectsEmptyName(t *testing.T) {
	lib := newTestLibrary(t)
	err := lib.CreatePlaylist(context.Background(), &music.Playlist{Name: "  "})
	require.Error(t, err)
}

func TestAddToPlaylist_SkipsAlreadyPresent(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	song := seedSong(t, lib, "A", "/a.mp3", nil, "", nil)
	playlist := &music.Playlist{Name: "Mix"}
	require.NoError(t, lib.CreatePlaylist(ctx, playlist))

	require.NoError(t, lib.AddToPlaylist(ctx, playlist.ID, song.ID))
	require.NoError(t, lib.AddToPlaylist(ctx, playlist.ID, song.ID))
	assert.Equal(t, 1, countRows(t, lib, "playlist_songs"))
}

func TestAddToPlaylist_MissingPlaylist(t *testing.T) {
	lib := newTestLibrary(t)
	song := seedSong(t, lib, "A", "/a.mp3", nil, "", nil)

	err := lib.AddToPlaylist(context.Background(), "no-such-playlist", song.ID)
	assert.ErrorIs(t, err, music.ErrNotFound)
}

func TestAddToPlaylist_MissingSongAbortsWholeCall(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	song := seedSong(t, lib, "A", "/a.mp3", nil, "", nil)
	playlist := &music.Playlist{Name: "Mix"}
	require.NoError(t, lib.CreatePlaylist(ctx, playlist))

	err := lib.AddToPlaylist(ctx, playlist.ID, song.ID, "no-such-song")
	assert.ErrorIs(t, err, music.ErrConstraint)
	// Transactional: the valid song must not have been linked either.
	assert.Equal(t, 0, countRows(t, lib, "playlist_songs"))
}

func TestRemovePlaylist_Missing(t *testing.T) {
	lib := newTestLibrary(t)
	err := lib.RemovePlaylist(context.Background(), "no-such-playlist")
	assert.ErrorIs(t, err, music.ErrNotFound)
}

func TestGetPlaylistsByOptions(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	require.NoError(t, lib.CreatePlaylist(ctx, &music.Playlist{Name: "Morning Mix"}))
	require.NoError(t, lib.CreatePlaylist(ctx, &music.Playlist{Name: "Workout"}))

	playlists, err := lib.GetPlaylistsByOptions(ctx, music.PlaylistFilter{Name: "morning"}, nil)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Morning Mix", playlists[0].Name)

	playlists, err = lib.GetPlaylistsByOptions(ctx, music.PlaylistFilter{All: true}, &music.Sort{Ascending: true})
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "Morning Mix", playlists[0].Name)
}
