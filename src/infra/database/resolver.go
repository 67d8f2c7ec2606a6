package database

import (
	"database/sql"
	"strings"

	"melodex/src/music"
)

// The entity resolver deduplicates shared entities by name. Names are
// whitespace-trimmed and compared case-insensitively
// (lookup-before-insert, so "Daft Punk" and "  daft punk " land on one
// row). All of it runs on the caller's transaction so a failed store
// never leaves freshly allocated entity rows behind.

// resolveArtists returns one artist id per non-empty input name, in
// input order, inserting rows for names seen for the first time.
func resolveArtists(tx *sql.Tx, artists []music.Artist) ([]string, error) {
	var ids []string
	for _, artist := range artists {
		name := strings.TrimSpace(artist.Name)
		if name == "" {
			continue
		}

		var id string
		err := tx.QueryRow(
			`SELECT artist_id FROM artists WHERE artist_name = ? COLLATE NOCASE`, name,
		).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			id = music.GenerateEntityID()
			_, err = tx.Exec(
				`INSERT INTO artists (artist_id, artist_name, artist_cover) VALUES (?, ?, ?)`,
				id, name, artist.Cover,
			)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveAlbum returns the album id for the song's album, inserting the
// row on first sight. Detail fields (album artist, covers, year) are
// written only on that first insert; a name match never updates them.
// A nil album or empty name yields no id, not an error.
func resolveAlbum(tx *sql.Tx, album *music.Album) (string, error) {
	if album == nil {
		return "", nil
	}
	name := strings.TrimSpace(album.Name)
	if name == "" {
		return "", nil
	}

	var id string
	err := tx.QueryRow(
		`SELECT album_id FROM albums WHERE album_name = ? COLLATE NOCASE`, name,
	).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = music.GenerateEntityID()
		_, err = tx.Exec(`
			INSERT INTO albums (album_id, album_name, album_artist, album_cover_high, album_cover_low, year)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, name, album.AlbumArtist, album.CoverHigh, album.CoverLow, album.Year)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	}
	return id, nil
}

// resolveGenres returns one genre id per non-empty input name, in input
// order, inserting rows for names seen for the first time.
func resolveGenres(tx *sql.Tx, genres []music.Genre) ([]string, error) {
	var ids []string
	for _, genre := range genres {
		name := strings.TrimSpace(genre.Name)
		if name == "" {
			continue
		}

		var id string
		err := tx.QueryRow(
			`SELECT genre_id FROM genres WHERE genre_name = ? COLLATE NOCASE`, name,
		).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			id = music.GenerateEntityID()
			_, err = tx.Exec(`INSERT INTO genres (genre_id, genre_name) VALUES (?, ?)`, id, name)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
