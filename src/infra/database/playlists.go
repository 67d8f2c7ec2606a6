package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"melodex/src/music"
)

// CreatePlaylist inserts a new playlist row. Playlists are not
// deduplicated; every call creates an independent row.
func (d *SqliteLibrary) CreatePlaylist(ctx context.Context, playlist *music.Playlist) error {
	if err := playlist.Validate(); err != nil {
		slog.Error("CreatePlaylist: validation failed", "error", err)
		return err
	}
	if playlist.ID == "" {
		playlist.ID = music.GeneratePlaylistID()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO playlists (playlist_id, playlist_name, playlist_desc, playlist_cover)
		VALUES (?, ?, ?, ?)
	`, playlist.ID, playlist.Name, playlist.Description, playlist.Cover)
	return classify(err)
}

// AddToPlaylist links songs into a playlist. Songs already in the
// playlist are skipped; a nonexistent playlist or song aborts the whole
// call.
func (d *SqliteLibrary) AddToPlaylist(ctx context.Context, playlistID string, songIDs ...string) error {
	if len(songIDs) == 0 {
		return nil
	}
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(tx, `SELECT 1 FROM playlists WHERE playlist_id = ?`, playlistID,
			fmt.Errorf("playlist %s: %w", playlistID, music.ErrNotFound)); err != nil {
			return err
		}

		var toLink []string
		for _, songID := range songIDs {
			if err := requireRow(tx, `SELECT 1 FROM songs WHERE song_id = ?`, songID,
				fmt.Errorf("add song %s to playlist: %w", songID, music.ErrConstraint)); err != nil {
				return err
			}
			var exists int
			err := tx.QueryRow(
				`SELECT 1 FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
				playlistID, songID,
			).Scan(&exists)
			if err == sql.ErrNoRows {
				toLink = append(toLink, songID)
				continue
			}
			if err != nil {
				return err
			}
		}
		return linkPlaylist(tx, playlistID, toLink)
	})
}

// RemoveFromPlaylist unlinks songs from a playlist. The songs
// themselves are untouched.
func (d *SqliteLibrary) RemoveFromPlaylist(ctx context.Context, playlistID string, songIDs ...string) error {
	if len(songIDs) == 0 {
		return nil
	}
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, songID := range songIDs {
			_, err := tx.Exec(
				`DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
				playlistID, songID,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RemovePlaylist deletes a playlist and its bridge rows. Destruction
// never cascades to songs.
func (d *SqliteLibrary) RemovePlaylist(ctx context.Context, playlistID string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_songs WHERE playlist_id = ?`, playlistID); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM playlists WHERE playlist_id = ?`, playlistID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("remove playlist %s: %w", playlistID, music.ErrNotFound)
		}
		return nil
	})
}

// GetPlaylistSongs returns the shaped songs of one playlist.
func (d *SqliteLibrary) GetPlaylistSongs(ctx context.Context, playlistID string) ([]*music.Song, error) {
	return d.GetSongsByOptions(ctx, music.QueryOptions{
		Playlist: &music.PlaylistFilter{ID: playlistID},
		Combine:  music.CombineAll,
	})
}

func requireRow(tx *sql.Tx, query, id string, missing error) error {
	var one int
	err := tx.QueryRow(query, id).Scan(&one)
	if err == sql.ErrNoRows {
		return missing
	}
	return err
}
