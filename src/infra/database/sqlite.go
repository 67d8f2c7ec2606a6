package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melodex/src/music"

	"github.com/mattn/go-sqlite3"
)

// SqliteLibrary is the SQLite implementation of the music.Library
// interface. One instance serves one process; mutating calls each run
// inside their own transaction.
type SqliteLibrary struct {
	db *sql.DB
}

// Options tune engine-defined behavior of the store.
type Options struct {
	// CaseSensitiveLike makes the substring predicates of the query
	// builder case-sensitive. Off by default, matching SQLite's LIKE.
	CaseSensitiveLike bool
}

// NewSqliteLibrary opens (or creates) the database at path and ensures
// the schema exists.
func NewSqliteLibrary(path string, opts Options) (*SqliteLibrary, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	if opts.CaseSensitiveLike {
		dsn += "&_case_sensitive_like=1"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteLibrary{db: db}, nil
}

// Close closes the underlying database handle.
func (d *SqliteLibrary) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			song_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			path TEXT,
			url TEXT,
			duration INTEGER DEFAULT 0,
			bitrate INTEGER DEFAULT 0,
			codec TEXT,
			container TEXT,
			cover_high TEXT,
			cover_low TEXT,
			hash TEXT,
			provider TEXT,
			date_added TEXT
		);

		CREATE TABLE IF NOT EXISTS albums (
			album_id TEXT PRIMARY KEY,
			album_name TEXT NOT NULL,
			album_artist TEXT,
			album_cover_high TEXT,
			album_cover_low TEXT,
			year INTEGER DEFAULT 0,
			album_song_count INTEGER DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS artists (
			artist_id TEXT PRIMARY KEY,
			artist_name TEXT NOT NULL,
			artist_cover TEXT,
			artist_song_count INTEGER DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS genres (
			genre_id TEXT PRIMARY KEY,
			genre_name TEXT NOT NULL,
			genre_song_count INTEGER DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS playlists (
			playlist_id TEXT PRIMARY KEY,
			playlist_name TEXT NOT NULL,
			playlist_desc TEXT,
			playlist_cover TEXT,
			playlist_song_count INTEGER DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS song_artists (
			song_id TEXT NOT NULL,
			artist_id TEXT NOT NULL,
			PRIMARY KEY (song_id, artist_id),
			FOREIGN KEY (song_id) REFERENCES songs(song_id),
			FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
		);

		CREATE TABLE IF NOT EXISTS song_albums (
			song_id TEXT PRIMARY KEY,
			album_id TEXT NOT NULL,
			FOREIGN KEY (song_id) REFERENCES songs(song_id),
			FOREIGN KEY (album_id) REFERENCES albums(album_id)
		);

		CREATE TABLE IF NOT EXISTS song_genres (
			song_id TEXT NOT NULL,
			genre_id TEXT NOT NULL,
			PRIMARY KEY (song_id, genre_id),
			FOREIGN KEY (song_id) REFERENCES songs(song_id),
			FOREIGN KEY (genre_id) REFERENCES genres(genre_id)
		);

		CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_id TEXT NOT NULL,
			song_id TEXT NOT NULL,
			PRIMARY KEY (playlist_id, song_id),
			FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id),
			FOREIGN KEY (song_id) REFERENCES songs(song_id)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_albums_name ON albums(album_name COLLATE NOCASE);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_artists_name ON artists(artist_name COLLATE NOCASE);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_genres_name ON genres(genre_name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_songs_hash ON songs(hash);
		CREATE INDEX IF NOT EXISTS idx_songs_path ON songs(path);
		CREATE INDEX IF NOT EXISTS idx_song_artists_artist ON song_artists(artist_id);
		CREATE INDEX IF NOT EXISTS idx_song_albums_album ON song_albums(album_id);
		CREATE INDEX IF NOT EXISTS idx_song_genres_genre ON song_genres(genre_id);
		CREATE INDEX IF NOT EXISTS idx_playlist_songs_song ON playlist_songs(song_id);
	`)
	return err
}

// withTx runs fn inside a transaction: begin, rollback on error, commit
// on success. Errors are classified into the domain taxonomy on the way
// out.
func (d *SqliteLibrary) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

// classify maps driver errors onto the music package sentinels so
// callers can branch with errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", music.ErrTransient, err)
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", music.ErrConstraint, err)
		}
	}
	return err
}

func nullStr(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

func nullInt(n sql.NullInt64) int {
	if !n.Valid {
		return 0
	}
	return int(n.Int64)
}
