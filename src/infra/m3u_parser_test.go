package infra

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/src/infra/database"
	"melodex/src/music"
)

func newLibrary(t *testing.T) *database.SqliteLibrary {
	t.Helper()
	lib, err := database.NewSqliteLibrary(filepath.Join(t.TempDir(), "library.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestParseM3U(t *testing.T) {
	parser := NewM3UParser(nil)

	content := `#EXTM3U

#EXTINF:224,Daft Punk - One More Time
/music/omt.mp3

"/music/quoted path.mp3"

#EXTINF:-1,Unknown
`
	paths, err := parser.ParseM3U(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/omt.mp3", "/music/quoted path.mp3"}, paths)
}

func TestGenerateM3U(t *testing.T) {
	parser := NewM3UParser(nil)

	songs := []*music.Song{
		{
			Title:    "One More Time",
			Path:     "/music/omt.mp3",
			Duration: 320,
			Artists:  []music.Artist{{Name: "Daft Punk"}},
		},
		{Title: "Untitled", Path: "/music/untitled.mp3"},
	}

	content, err := parser.GenerateM3U(songs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "#EXTM3U\n"))
	assert.Contains(t, content, "#EXTINF:320,Daft Punk - One More Time\n/music/omt.mp3")
	assert.Contains(t, content, "#EXTINF:-1,Untitled\n/music/untitled.mp3")
}

func TestImportM3U_MatchesByExactPath(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	stored := &music.Song{Title: "One More Time", Path: "/music/omt.mp3"}
	require.NoError(t, lib.Store(ctx, stored))

	parser := NewM3UParser(lib)
	content := "#EXTM3U\n/music/omt.mp3\n/music/never-imported.mp3\n"

	playlist, err := parser.ImportM3U(ctx, "Imported", "from m3u", content)
	require.NoError(t, err)
	require.NotEmpty(t, playlist.ID)
	assert.Equal(t, 1, playlist.SongCount)

	songs, err := lib.GetPlaylistSongs(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "One More Time", songs[0].Title)
}

func TestImportM3U_RoundTrip(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	for _, s := range []*music.Song{
		{Title: "A", Path: "/music/a.mp3", Duration: 100},
		{Title: "B", Path: "/music/b.mp3", Duration: 200},
	} {
		require.NoError(t, lib.Store(ctx, s))
	}
	songs, err := lib.GetSongsByOptions(ctx, music.QueryOptions{Sort: &music.Sort{Ascending: true}})
	require.NoError(t, err)

	parser := NewM3UParser(lib)
	content, err := parser.GenerateM3U(songs)
	require.NoError(t, err)

	playlist, err := parser.ImportM3U(ctx, "Round Trip", "", content)
	require.NoError(t, err)
	assert.Equal(t, 2, playlist.SongCount)
}
