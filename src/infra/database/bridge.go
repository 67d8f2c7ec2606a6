package database

import "database/sql"

// Bridge rows associate a song with its entities. The linkers never
// deduplicate: the caller hands over unique id sets, and the bridge
// primary keys reject anything else. Empty id sets are a no-op.

// uniqueIDs drops repeated ids, keeping first-occurrence order. The
// resolver maps equivalent names ("Daft Punk", "  daft punk ") to one
// id, so a song listing both would otherwise link the same pair twice.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func linkArtists(tx *sql.Tx, songID string, artistIDs []string) error {
	for _, artistID := range artistIDs {
		_, err := tx.Exec(
			`INSERT INTO song_artists (song_id, artist_id) VALUES (?, ?)`,
			songID, artistID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func linkAlbum(tx *sql.Tx, songID, albumID string) error {
	if albumID == "" {
		return nil
	}
	_, err := tx.Exec(
		`INSERT INTO song_albums (song_id, album_id) VALUES (?, ?)`,
		songID, albumID,
	)
	return err
}

func linkGenres(tx *sql.Tx, songID string, genreIDs []string) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(
			`INSERT INTO song_genres (song_id, genre_id) VALUES (?, ?)`,
			songID, genreID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func linkPlaylist(tx *sql.Tx, playlistID string, songIDs []string) error {
	for _, songID := range songIDs {
		_, err := tx.Exec(
			`INSERT INTO playlist_songs (playlist_id, song_id) VALUES (?, ?)`,
			playlistID, songID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
