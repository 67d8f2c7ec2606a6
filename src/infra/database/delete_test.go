package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/src/music"
)

func TestRemoveSong_CascadesOverSoleReferences(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	// Two songs share the artist; album and genre belong to one song each.
	doomed := seedSong(t, lib, "One More Time", "/1.mp3", []string{"Daft Punk"}, "Discovery", []string{"House"})
	seedSong(t, lib, "Get Lucky", "/2.mp3", []string{"Daft Punk"}, "Random Access Memories", []string{"Disco"})

	cleanup, err := lib.RemoveSong(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, cleanup) // nothing had covers

	assert.Equal(t, 1, countRows(t, lib, "songs"))
	// The shared artist survives, the sole-referenced album and genre go.
	assert.Equal(t, 1, countRows(t, lib, "artists"))
	assert.Equal(t, 1, countRows(t, lib, "albums"))
	assert.Equal(t, 1, countRows(t, lib, "genres"))

	albums, err := lib.GetAlbumsByOptions(ctx, music.AlbumFilter{All: true}, nil)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Random Access Memories", albums[0].Name)
}

func TestRemoveSong_LeavesNoDanglingBridges(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	song := seedSong(t, lib, "Billie Jean", "/bj.mp3", []string{"Michael Jackson"}, "Thriller", []string{"Pop", "Funk"})
	playlist := &music.Playlist{Name: "Favorites"}
	require.NoError(t, lib.CreatePlaylist(ctx, playlist))
	require.NoError(t, lib.AddToPlaylist(ctx, playlist.ID, song.ID))

	_, err := lib.RemoveSong(ctx, song.ID)
	require.NoError(t, err)

	for _, table := range []string{"song_artists", "song_albums", "song_genres", "playlist_songs"} {
		assert.Equal(t, 0, countRows(t, lib, table), "expected no rows left in %s", table)
	}
	// The playlist itself survives, only its membership rows go.
	assert.Equal(t, 1, countRows(t, lib, "playlists"))
}

func TestRemoveSong_ReturnsOrphanedCoverPaths(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	song := &music.Song{
		Title:     "Nightvision",
		Path:      "/music/nv.mp3",
		CoverHigh: "/covers/song-high.jpg",
		CoverLow:  "/covers/song-low.jpg",
		Artists:   []music.Artist{{Name: "Daft Punk", Cover: "/covers/artist.jpg"}},
		Album: &music.Album{
			Name:      "Discovery",
			CoverHigh: "/covers/album-high.jpg",
			CoverLow:  "/covers/album-low.jpg",
		},
		Genres: []music.Genre{{Name: "House"}},
	}
	require.NoError(t, lib.Store(ctx, song))

	cleanup, err := lib.RemoveSong(ctx, song.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/covers/song-high.jpg", "/covers/song-low.jpg",
		"/covers/album-high.jpg", "/covers/album-low.jpg",
		"/covers/artist.jpg",
	}, cleanup)
}

func TestRemoveSong_SharedEntitiesContributeNoCovers(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	shared := &music.Album{Name: "Discovery", CoverHigh: "/covers/album-high.jpg"}
	doomed := &music.Song{Title: "A", Path: "/a.mp3", Album: shared}
	require.NoError(t, lib.Store(ctx, doomed))
	keeper := &music.Song{Title: "B", Path: "/b.mp3", Album: &music.Album{Name: "Discovery"}}
	require.NoError(t, lib.Store(ctx, keeper))

	cleanup, err := lib.RemoveSong(ctx, doomed.ID)
	require.NoError(t, err)
	// The album still has a referencer, so its cover must not be
	// reported for deletion.
	assert.Empty(t, cleanup)
	assert.Equal(t, 1, countRows(t, lib, "albums"))
}

func TestRemoveSong_MissingSong(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.RemoveSong(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, music.ErrNotFound)
}

func TestRemoveSong_TwiceSecondFails(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	song := seedSong(t, lib, "A", "/a.mp3", nil, "", nil)

	_, err := lib.RemoveSong(ctx, song.ID)
	require.NoError(t, err)
	_, err = lib.RemoveSong(ctx, song.ID)
	assert.ErrorIs(t, err, music.ErrNotFound)
}
