package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"melodex/src/music"
)

// RemoveSong deletes a song, its four bridge rows, and every shared
// entity the song was the last referencer of, all in one transaction.
// It returns the cover-image paths orphaned by the delete (the song's
// own covers plus the covers of cascade-deleted entities) so the caller
// can remove the files after commit. Genres cascade like albums and
// artists; they just never contribute cover paths.
func (d *SqliteLibrary) RemoveSong(ctx context.Context, id string) ([]string, error) {
	var cleanup []string

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		// Capture the song's own covers first; a missing row means
		// there is nothing to delete.
		var coverHigh, coverLow sql.NullString
		err := tx.QueryRow(
			`SELECT cover_high, cover_low FROM songs WHERE song_id = ?`, id,
		).Scan(&coverHigh, &coverLow)
		if err == sql.ErrNoRows {
			return fmt.Errorf("remove song %s: %w", id, music.ErrNotFound)
		}
		if err != nil {
			return err
		}
		cleanup = appendPath(cleanup, nullStr(coverHigh), nullStr(coverLow))

		// Snapshot reference counts of every entity the song touches
		// before any bridge rows disappear.
		albums, err := relatedRefCounts(tx, `
			SELECT a.album_id, a.album_cover_high, a.album_cover_low,
				(SELECT COUNT(*) FROM song_albums ref WHERE ref.album_id = a.album_id)
			FROM song_albums sa
			JOIN albums a ON a.album_id = sa.album_id
			WHERE sa.song_id = ?
		`, id)
		if err != nil {
			return err
		}
		artists, err := relatedRefCounts(tx, `
			SELECT a.artist_id, a.artist_cover, '',
				(SELECT COUNT(*) FROM song_artists ref WHERE ref.artist_id = a.artist_id)
			FROM song_artists sa
			JOIN artists a ON a.artist_id = sa.artist_id
			WHERE sa.song_id = ?
		`, id)
		if err != nil {
			return err
		}
		genres, err := relatedRefCounts(tx, `
			SELECT g.genre_id, '', '',
				(SELECT COUNT(*) FROM song_genres ref WHERE ref.genre_id = g.genre_id)
			FROM song_genres sg
			JOIN genres g ON g.genre_id = sg.genre_id
			WHERE sg.song_id = ?
		`, id)
		if err != nil {
			return err
		}

		// Bridges first, then the song row.
		for _, stmt := range []string{
			`DELETE FROM song_artists WHERE song_id = ?`,
			`DELETE FROM song_albums WHERE song_id = ?`,
			`DELETE FROM song_genres WHERE song_id = ?`,
			`DELETE FROM playlist_songs WHERE song_id = ?`,
			`DELETE FROM songs WHERE song_id = ?`,
		} {
			if _, err := tx.Exec(stmt, id); err != nil {
				return err
			}
		}

		// Entities this song was the sole referencer of go with it.
		for _, ref := range albums {
			if ref.count != 1 {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM albums WHERE album_id = ?`, ref.id); err != nil {
				return err
			}
			cleanup = appendPath(cleanup, ref.coverA, ref.coverB)
		}
		for _, ref := range artists {
			if ref.count != 1 {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM artists WHERE artist_id = ?`, ref.id); err != nil {
				return err
			}
			cleanup = appendPath(cleanup, ref.coverA, ref.coverB)
		}
		for _, ref := range genres {
			if ref.count != 1 {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM genres WHERE genre_id = ?`, ref.id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("RemoveSong: committed", "songID", id, "orphanedCovers", len(cleanup))
	return cleanup, nil
}

// entityRef is one shared entity referenced by the song being removed:
// its id, up to two cover paths, and how many bridge rows point at it.
type entityRef struct {
	id     string
	coverA string
	coverB string
	count  int
}

func relatedRefCounts(tx *sql.Tx, query, songID string) ([]entityRef, error) {
	rows, err := tx.Query(query, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []entityRef
	for rows.Next() {
		var ref entityRef
		var coverA, coverB sql.NullString
		if err := rows.Scan(&ref.id, &coverA, &coverB, &ref.count); err != nil {
			return nil, err
		}
		ref.coverA = nullStr(coverA)
		ref.coverB = nullStr(coverB)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func appendPath(paths []string, candidates ...string) []string {
	for _, p := range candidates {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
