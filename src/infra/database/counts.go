package database

import (
	"context"

	"melodex/src/music"
)

// The song-count columns on albums, artists, genres and playlists are
// caches of derived state. They are never maintained incrementally;
// these sweeps overwrite each cache from a live bridge-row count.

// UpdateSongCountAlbum recomputes album_song_count for every album.
func (d *SqliteLibrary) UpdateSongCountAlbum(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE albums SET album_song_count =
			(SELECT COUNT(*) FROM song_albums WHERE song_albums.album_id = albums.album_id)
	`)
	return classify(err)
}

// UpdateSongCountArtist recomputes artist_song_count for every artist.
func (d *SqliteLibrary) UpdateSongCountArtist(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE artists SET artist_song_count =
			(SELECT COUNT(*) FROM song_artists WHERE song_artists.artist_id = artists.artist_id)
	`)
	return classify(err)
}

// UpdateSongCountGenre recomputes genre_song_count for every genre.
func (d *SqliteLibrary) UpdateSongCountGenre(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE genres SET genre_song_count =
			(SELECT COUNT(*) FROM song_genres WHERE song_genres.genre_id = genres.genre_id)
	`)
	return classify(err)
}

// UpdateSongCountPlaylist recomputes playlist_song_count for every playlist.
func (d *SqliteLibrary) UpdateSongCountPlaylist(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE playlists SET playlist_song_count =
			(SELECT COUNT(*) FROM playlist_songs WHERE playlist_songs.playlist_id = playlists.playlist_id)
	`)
	return classify(err)
}

// Stats returns the total row count per category.
func (d *SqliteLibrary) Stats(ctx context.Context) (music.Stats, error) {
	var stats music.Stats
	for _, c := range []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM songs`, &stats.Songs},
		{`SELECT COUNT(*) FROM albums`, &stats.Albums},
		{`SELECT COUNT(*) FROM artists`, &stats.Artists},
		{`SELECT COUNT(*) FROM genres`, &stats.Genres},
		{`SELECT COUNT(*) FROM playlists`, &stats.Playlists},
	} {
		if err := d.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return stats, classify(err)
		}
	}
	return stats, nil
}

// CodecDistribution returns the number of songs per codec.
func (d *SqliteLibrary) CodecDistribution(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(codec, ''), 'unknown') AS codec, COUNT(*) AS count
		FROM songs
		GROUP BY COALESCE(NULLIF(codec, ''), 'unknown')
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	distribution := make(map[string]int)
	for rows.Next() {
		var codec string
		var count int
		if err := rows.Scan(&codec, &count); err != nil {
			return nil, classify(err)
		}
		distribution[codec] = count
	}
	return distribution, classify(rows.Err())
}
