package database

import (
	"context"
	"database/sql"
	"strings"

	"melodex/src/music"
)

// The query builder turns a music.QueryOptions into one joined SQL
// statement. Every predicate is a substring match: the value is wrapped
// as %value% and compared with LIKE (case sensitivity is the store
// option). Zero predicates mean no WHERE clause, a full scan with
// joins. The exclusion path list rides outside the predicate tree and
// is always ANDed on.

// GetSongsByOptions returns fully shaped songs matching the filter
// specification, minus any song whose path appears in excludePaths.
func (d *SqliteLibrary) GetSongsByOptions(ctx context.Context, opts music.QueryOptions, excludePaths ...string) ([]*music.Song, error) {
	query := songSelect + `
		FROM songs ` + songJoins

	conds, args := songConditions(opts)
	if opts.Playlist != nil {
		query += `
	LEFT JOIN playlist_songs ON playlist_songs.song_id = songs.song_id
	LEFT JOIN playlists ON playlists.playlist_id = playlist_songs.playlist_id`
	}

	glue := " OR "
	if opts.Combine == music.CombineAll {
		glue = " AND "
	}

	var where []string
	if len(conds) > 0 {
		where = append(where, "("+strings.Join(conds, glue)+")")
	}
	if len(excludePaths) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(excludePaths)), ",")
		where = append(where, "songs.path NOT IN ("+placeholders+")")
		for _, p := range excludePaths {
			args = append(args, p)
		}
	}
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}

	query += "\n\tGROUP BY songs.song_id"
	if opts.Sort != nil {
		query += "\n\tORDER BY " + songOrderColumn(opts.Sort.Field) + direction(opts.Sort.Ascending)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var songs []*music.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, classify(err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	for _, song := range songs {
		if err := d.loadSongEntities(ctx, song); err != nil {
			return nil, classify(err)
		}
	}
	return songs, nil
}

// songConditions collects the (column LIKE ?) predicates a filter
// specification contributes to a song query.
func songConditions(opts music.QueryOptions) ([]string, []any) {
	var conds []string
	var args []any

	like := func(column, value string) {
		if value == "" {
			return
		}
		conds = append(conds, column+" LIKE ?")
		args = append(args, "%"+value+"%")
	}

	if f := opts.Song; f != nil {
		like("songs.song_id", f.ID)
		like("songs.title", f.Title)
		like("songs.path", f.Path)
		like("songs.hash", f.Hash)
		like("songs.provider", f.Provider)
	}
	if f := opts.Album; f != nil && !f.All {
		like("albums.album_id", f.ID)
		like("albums.album_name", f.Name)
		like("albums.album_artist", f.Artist)
	}
	if f := opts.Artist; f != nil && !f.All {
		like("artists.artist_id", f.ID)
		like("artists.artist_name", f.Name)
	}
	if f := opts.Genre; f != nil && !f.All {
		like("genres.genre_id", f.ID)
		like("genres.genre_name", f.Name)
	}
	if f := opts.Playlist; f != nil && !f.All {
		like("playlists.playlist_id", f.ID)
		like("playlists.playlist_name", f.Name)
	}
	return conds, args
}

func songOrderColumn(field music.SortField) string {
	if field == music.SortDateAdded {
		return "songs.date_added"
	}
	return "songs.title"
}

func direction(ascending bool) string {
	if ascending {
		return " ASC"
	}
	return " DESC"
}

// GetAlbumsByOptions returns albums matching the filter. All set on the
// filter short-circuits to every row, ignoring the other predicates.
func (d *SqliteLibrary) GetAlbumsByOptions(ctx context.Context, filter music.AlbumFilter, sort *music.Sort) ([]*music.Album, error) {
	query := `
		SELECT album_id, album_name, album_artist, album_cover_high, album_cover_low, year, album_song_count
		FROM albums`
	query, args := entityWhere(query, filter.All, [][2]string{
		{"album_id", filter.ID},
		{"album_name", filter.Name},
		{"album_artist", filter.Artist},
	})
	query += entityOrder("album_name", sort)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var albums []*music.Album
	for rows.Next() {
		var album music.Album
		var artist, coverHigh, coverLow sql.NullString
		if err := rows.Scan(&album.ID, &album.Name, &artist, &coverHigh, &coverLow, &album.Year, &album.SongCount); err != nil {
			return nil, classify(err)
		}
		album.AlbumArtist = nullStr(artist)
		album.CoverHigh = nullStr(coverHigh)
		album.CoverLow = nullStr(coverLow)
		albums = append(albums, &album)
	}
	return albums, classify(rows.Err())
}

// GetArtistsByOptions returns artists matching the filter.
func (d *SqliteLibrary) GetArtistsByOptions(ctx context.Context, filter music.ArtistFilter, sort *music.Sort) ([]*music.Artist, error) {
	query := `
		SELECT artist_id, artist_name, artist_cover, artist_song_count
		FROM artists`
	query, args := entityWhere(query, filter.All, [][2]string{
		{"artist_id", filter.ID},
		{"artist_name", filter.Name},
	})
	query += entityOrder("artist_name", sort)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var artists []*music.Artist
	for rows.Next() {
		var artist music.Artist
		var cover sql.NullString
		if err := rows.Scan(&artist.ID, &artist.Name, &cover, &artist.SongCount); err != nil {
			return nil, classify(err)
		}
		artist.Cover = nullStr(cover)
		artists = append(artists, &artist)
	}
	return artists, classify(rows.Err())
}

// GetGenresByOptions returns genres matching the filter.
func (d *SqliteLibrary) GetGenresByOptions(ctx context.Context, filter music.GenreFilter, sort *music.Sort) ([]*music.Genre, error) {
	query := `
		SELECT genre_id, genre_name, genre_song_count
		FROM genres`
	query, args := entityWhere(query, filter.All, [][2]string{
		{"genre_id", filter.ID},
		{"genre_name", filter.Name},
	})
	query += entityOrder("genre_name", sort)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var genres []*music.Genre
	for rows.Next() {
		var genre music.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.SongCount); err != nil {
			return nil, classify(err)
		}
		genres = append(genres, &genre)
	}
	return genres, classify(rows.Err())
}

// GetPlaylistsByOptions returns playlists matching the filter.
func (d *SqliteLibrary) GetPlaylistsByOptions(ctx context.Context, filter music.PlaylistFilter, sort *music.Sort) ([]*music.Playlist, error) {
	query := `
		SELECT playlist_id, playlist_name, playlist_desc, playlist_cover, playlist_song_count
		FROM playlists`
	query, args := entityWhere(query, filter.All, [][2]string{
		{"playlist_id", filter.ID},
		{"playlist_name", filter.Name},
	})
	query += entityOrder("playlist_name", sort)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var playlists []*music.Playlist
	for rows.Next() {
		var playlist music.Playlist
		var desc, cover sql.NullString
		if err := rows.Scan(&playlist.ID, &playlist.Name, &desc, &cover, &playlist.SongCount); err != nil {
			return nil, classify(err)
		}
		playlist.Description = nullStr(desc)
		playlist.Cover = nullStr(cover)
		playlists = append(playlists, &playlist)
	}
	return playlists, classify(rows.Err())
}

// entityWhere appends the WHERE clause of a single-table entity query.
// Predicates within one category are always ANDed.
func entityWhere(query string, all bool, fields [][2]string) (string, []any) {
	if all {
		return query, nil
	}
	var conds []string
	var args []any
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		conds = append(conds, f[0]+" LIKE ?")
		args = append(args, "%"+f[1]+"%")
	}
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	return query, args
}

func entityOrder(nameColumn string, sort *music.Sort) string {
	if sort == nil {
		return ""
	}
	return "\n\t\tORDER BY " + nameColumn + " COLLATE NOCASE" + direction(sort.Ascending)
}

// SearchAll runs one term as a substring predicate against song path,
// album name, artist name and genre name (combined with OR) and merges
// the per-category results.
func (d *SqliteLibrary) SearchAll(ctx context.Context, term string, excludePaths ...string) (*music.SearchResult, error) {
	songs, err := d.GetSongsByOptions(ctx, music.QueryOptions{
		Song:    &music.SongFilter{Path: term},
		Album:   &music.AlbumFilter{Name: term},
		Artist:  &music.ArtistFilter{Name: term},
		Genre:   &music.GenreFilter{Name: term},
		Combine: music.CombineAny,
	}, excludePaths...)
	if err != nil {
		return nil, err
	}

	albums, err := d.GetAlbumsByOptions(ctx, music.AlbumFilter{Name: term}, nil)
	if err != nil {
		return nil, err
	}
	artists, err := d.GetArtistsByOptions(ctx, music.ArtistFilter{Name: term}, nil)
	if err != nil {
		return nil, err
	}
	genres, err := d.GetGenresByOptions(ctx, music.GenreFilter{Name: term}, nil)
	if err != nil {
		return nil, err
	}

	return &music.SearchResult{
		Songs:   songs,
		Albums:  albums,
		Artists: artists,
		Genres:  genres,
	}, nil
}
