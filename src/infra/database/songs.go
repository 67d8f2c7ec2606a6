package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"melodex/src/music"
)

// Store persists a song together with its entity links. The song row,
// the resolved entity rows, and every bridge row commit in one
// transaction. Storing a song whose id already exists is a no-op.
func (d *SqliteLibrary) Store(ctx context.Context, song *music.Song) error {
	if err := song.Validate(); err != nil {
		slog.Error("Store: validation failed", "error", err, "songID", song.ID)
		return err
	}
	if song.ID == "" {
		if song.Hash != "" {
			song.ID = music.GenerateSongIDFromHash(song.Hash)
		} else {
			song.ID = music.GenerateSongID()
		}
	}
	if song.DateAdded.IsZero() {
		song.DateAdded = time.Now()
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM songs WHERE song_id = ?`, song.ID).Scan(&exists)
		if err == nil {
			slog.Debug("Store: song already exists, skipping", "songID", song.ID)
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO songs (song_id, title, path, url, duration, bitrate, codec,
				container, cover_high, cover_low, hash, provider, date_added)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, song.ID, song.Title, song.Path, song.URL, song.Duration, song.Bitrate, song.Codec,
			song.Container, song.CoverHigh, song.CoverLow, song.Hash, song.Provider,
			song.DateAdded.Format(time.RFC3339))
		if err != nil {
			return err
		}

		artistIDs, err := resolveArtists(tx, song.Artists)
		if err != nil {
			return err
		}
		if err := linkArtists(tx, song.ID, uniqueIDs(artistIDs)); err != nil {
			return err
		}

		albumID, err := resolveAlbum(tx, song.Album)
		if err != nil {
			return err
		}
		if err := linkAlbum(tx, song.ID, albumID); err != nil {
			return err
		}

		genreIDs, err := resolveGenres(tx, song.Genres)
		if err != nil {
			return err
		}
		return linkGenres(tx, song.ID, uniqueIDs(genreIDs))
	})
}

// GetByHash looks a song up by its content hash. Returns (nil, nil)
// when no song matches.
func (d *SqliteLibrary) GetByHash(ctx context.Context, hash string) (*music.Song, error) {
	if hash == "" {
		return nil, nil
	}
	row := d.db.QueryRowContext(ctx, songSelect+`
		FROM songs `+songJoins+`
		WHERE songs.hash = ?
		GROUP BY songs.song_id
	`, hash)

	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	if err := d.loadSongEntities(ctx, song); err != nil {
		return nil, classify(err)
	}
	return song, nil
}

// UpdateSongCover overwrites both cover paths of a song.
func (d *SqliteLibrary) UpdateSongCover(ctx context.Context, songID, coverHigh, coverLow string) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE songs SET cover_high = ?, cover_low = ? WHERE song_id = ?`,
		coverHigh, coverLow, songID,
	)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return fmt.Errorf("update cover of song %s: %w", songID, music.ErrNotFound)
	}
	return nil
}

// UpdateAlbumCoverIfMissing fills the empty cover slots of the album
// the song belongs to. Slots that already hold a path are never
// overwritten. No-op when the song has no album.
func (d *SqliteLibrary) UpdateAlbumCoverIfMissing(ctx context.Context, songID, coverHigh, coverLow string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE albums SET
			album_cover_high = CASE
				WHEN album_cover_high IS NULL OR album_cover_high = '' THEN ? ELSE album_cover_high END,
			album_cover_low = CASE
				WHEN album_cover_low IS NULL OR album_cover_low = '' THEN ? ELSE album_cover_low END
		WHERE album_id = (SELECT album_id FROM song_albums WHERE song_id = ?)
	`, coverHigh, coverLow, songID)
	return classify(err)
}

// songSelect and songJoins are shared between every query that shapes
// full song rows. Songs with several artists or genres collapse back to
// one row through the GROUP BY the callers append.
const songSelect = `
	SELECT songs.song_id, songs.title, songs.path, songs.url, songs.duration,
		songs.bitrate, songs.codec, songs.container, songs.cover_high, songs.cover_low,
		songs.hash, songs.provider, songs.date_added,
		albums.album_id, albums.album_name, albums.album_artist,
		albums.album_cover_high, albums.album_cover_low, albums.year, albums.album_song_count`

const songJoins = `
	LEFT JOIN song_albums ON song_albums.song_id = songs.song_id
	LEFT JOIN albums ON albums.album_id = song_albums.album_id
	LEFT JOIN song_artists ON song_artists.song_id = songs.song_id
	LEFT JOIN artists ON artists.artist_id = song_artists.artist_id
	LEFT JOIN song_genres ON song_genres.song_id = songs.song_id
	LEFT JOIN genres ON genres.genre_id = song_genres.genre_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*music.Song, error) {
	var song music.Song
	var path, url, codec, container, coverHigh, coverLow, hash, provider sql.NullString
	var dateAdded sql.NullString
	var albumID, albumName, albumArtist, albumCoverHigh, albumCoverLow sql.NullString
	var albumYear, albumSongCount sql.NullInt64

	err := row.Scan(&song.ID, &song.Title, &path, &url, &song.Duration,
		&song.Bitrate, &codec, &container, &coverHigh, &coverLow,
		&hash, &provider, &dateAdded,
		&albumID, &albumName, &albumArtist,
		&albumCoverHigh, &albumCoverLow, &albumYear, &albumSongCount)
	if err != nil {
		return nil, err
	}

	song.Path = nullStr(path)
	song.URL = nullStr(url)
	song.Codec = nullStr(codec)
	song.Container = nullStr(container)
	song.CoverHigh = nullStr(coverHigh)
	song.CoverLow = nullStr(coverLow)
	song.Hash = nullStr(hash)
	song.Provider = nullStr(provider)
	if dateAdded.Valid {
		song.DateAdded, _ = time.Parse(time.RFC3339, dateAdded.String)
	}
	if albumID.Valid {
		song.Album = &music.Album{
			ID:          albumID.String,
			Name:        nullStr(albumName),
			AlbumArtist: nullStr(albumArtist),
			CoverHigh:   nullStr(albumCoverHigh),
			CoverLow:    nullStr(albumCoverLow),
			Year:        nullInt(albumYear),
			SongCount:   nullInt(albumSongCount),
		}
	}
	return &song, nil
}

// loadSongEntities fills the artist and genre lists of a shaped song.
func (d *SqliteLibrary) loadSongEntities(ctx context.Context, song *music.Song) error {
	rows, err := d.db.QueryContext(ctx, `
		SELECT a.artist_id, a.artist_name, a.artist_cover, a.artist_song_count
		FROM song_artists sa
		JOIN artists a ON a.artist_id = sa.artist_id
		WHERE sa.song_id = ?
	`, song.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var artist music.Artist
		var cover sql.NullString
		if err := rows.Scan(&artist.ID, &artist.Name, &cover, &artist.SongCount); err != nil {
			return err
		}
		artist.Cover = nullStr(cover)
		song.Artists = append(song.Artists, artist)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	genreRows, err := d.db.QueryContext(ctx, `
		SELECT g.genre_id, g.genre_name, g.genre_song_count
		FROM song_genres sg
		JOIN genres g ON g.genre_id = sg.genre_id
		WHERE sg.song_id = ?
	`, song.ID)
	if err != nil {
		return err
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var genre music.Genre
		if err := genreRows.Scan(&genre.ID, &genre.Name, &genre.SongCount); err != nil {
			return err
		}
		song.Genres = append(song.Genres, genre)
	}
	return genreRows.Err()
}
