package library

import (
	"context"
	"fmt"
	"log/slog"

	"melodex/src/infra/files"
	"melodex/src/music"
)

// Extractor reads tags from a local audio file and builds a song out of
// them. The byte slice holds the embedded cover picture, if any.
type Extractor interface {
	ReadFile(ctx context.Context, path string) (*music.Song, []byte, error)
}

// CoverWriter persists raw cover bytes and returns the high and low
// resolution file paths.
type CoverWriter interface {
	Write(id string, data []byte) (high string, low string, err error)
}

// M3U translates between playlists and the M3U text format.
type M3U interface {
	GenerateM3U(songs []*music.Song) (string, error)
	ImportM3U(ctx context.Context, name, description, content string) (*music.Playlist, error)
}

// Service is the domain service for the library feature.
type Service struct {
	library   music.Library
	cleaner   *files.Cleaner
	extractor Extractor
	covers    CoverWriter
	m3u       M3U
}

// NewService creates a new library service.
func NewService(lib music.Library, cleaner *files.Cleaner, extractor Extractor, covers CoverWriter, m3u M3U) *Service {
	return &Service{
		library:   lib,
		cleaner:   cleaner,
		extractor: extractor,
		covers:    covers,
		m3u:       m3u,
	}
}

// StoreSong adds a song and its related entities to the library.
func (s *Service) StoreSong(ctx context.Context, song *music.Song) error {
	slog.Debug("StoreSong service called", "title", song.Title)
	if err := s.library.Store(ctx, song); err != nil {
		slog.Error("StoreSong failed", "title", song.Title, "error", err)
		return err
	}
	slog.Debug("StoreSong completed", "id", song.ID, "title", song.Title)
	return nil
}

// RemoveSong deletes a song, cascades over entities it was the last
// member of, and hands the orphaned cover files to the cleaner.
func (s *Service) RemoveSong(ctx context.Context, id string) error {
	slog.Debug("RemoveSong service called", "id", id)
	cleanup, err := s.library.RemoveSong(ctx, id)
	if err != nil {
		slog.Error("RemoveSong failed", "id", id, "error", err)
		return err
	}
	if len(cleanup) > 0 {
		s.cleaner.Remove(cleanup...)
	}
	slog.Debug("RemoveSong completed", "id", id, "orphanedCovers", len(cleanup))
	return nil
}

// GetSongs returns songs matching the given options, excluding any
// whose path is in excludePaths.
func (s *Service) GetSongs(ctx context.Context, opts music.QueryOptions, excludePaths ...string) ([]*music.Song, error) {
	slog.Debug("GetSongs service called", "excluded", len(excludePaths))
	songs, err := s.library.GetSongsByOptions(ctx, opts, excludePaths...)
	if err != nil {
		slog.Error("GetSongs failed", "error", err)
		return nil, err
	}
	slog.Debug("GetSongs completed", "count", len(songs))
	return songs, nil
}

// GetSongByHash returns the song with the given content hash, or nil
// when no song matches.
func (s *Service) GetSongByHash(ctx context.Context, hash string) (*music.Song, error) {
	slog.Debug("GetSongByHash service called", "hash", hash)
	song, err := s.library.GetByHash(ctx, hash)
	if err != nil {
		slog.Error("GetSongByHash failed", "hash", hash, "error", err)
		return nil, err
	}
	if song == nil {
		slog.Debug("No song with hash", "hash", hash)
	}
	return song, nil
}

// GetAlbums returns albums matching the filter.
func (s *Service) GetAlbums(ctx context.Context, filter music.AlbumFilter, sort *music.Sort) ([]*music.Album, error) {
	slog.Debug("GetAlbums service called")
	albums, err := s.library.GetAlbumsByOptions(ctx, filter, sort)
	if err != nil {
		slog.Error("GetAlbums failed", "error", err)
		return nil, err
	}
	slog.Debug("GetAlbums completed", "count", len(albums))
	return albums, nil
}

// GetArtists returns artists matching the filter.
func (s *Service) GetArtists(ctx context.Context, filter music.ArtistFilter, sort *music.Sort) ([]*music.Artist, error) {
	slog.Debug("GetArtists service called")
	artists, err := s.library.GetArtistsByOptions(ctx, filter, sort)
	if err != nil {
		slog.Error("GetArtists failed", "error", err)
		return nil, err
	}
	slog.Debug("GetArtists completed", "count", len(artists))
	return artists, nil
}

// GetGenres returns genres matching the filter.
func (s *Service) GetGenres(ctx context.Context, filter music.GenreFilter, sort *music.Sort) ([]*music.Genre, error) {
	slog.Debug("GetGenres service called")
	genres, err := s.library.GetGenresByOptions(ctx, filter, sort)
	if err != nil {
		slog.Error("GetGenres failed", "error", err)
		return nil, err
	}
	slog.Debug("GetGenres completed", "count", len(genres))
	return genres, nil
}

// GetPlaylists returns playlists matching the filter.
func (s *Service) GetPlaylists(ctx context.Context, filter music.PlaylistFilter, sort *music.Sort) ([]*music.Playlist, error) {
	slog.Debug("GetPlaylists service called")
	playlists, err := s.library.GetPlaylistsByOptions(ctx, filter, sort)
	if err != nil {
		slog.Error("GetPlaylists failed", "error", err)
		return nil, err
	}
	slog.Debug("GetPlaylists completed", "count", len(playlists))
	return playlists, nil
}

// Search runs a single term across songs, albums, artists and genres,
// excluding songs whose path is in excludePaths.
func (s *Service) Search(ctx context.Context, term string, excludePaths ...string) (*music.SearchResult, error) {
	slog.Debug("Search service called", "term", term, "excluded", len(excludePaths))
	result, err := s.library.SearchAll(ctx, term, excludePaths...)
	if err != nil {
		slog.Error("Search failed", "term", term, "error", err)
		return nil, err
	}
	slog.Debug("Search completed", "songs", len(result.Songs), "albums", len(result.Albums), "artists", len(result.Artists), "genres", len(result.Genres))
	return result, nil
}

// ImportFile reads tags from a local audio file and stores the song.
// Files whose content hash is already in the library are skipped and
// the existing song is returned.
func (s *Service) ImportFile(ctx context.Context, path string) (*music.Song, error) {
	slog.Debug("ImportFile service called", "path", path)

	song, picture, err := s.extractor.ReadFile(ctx, path)
	if err != nil {
		slog.Error("ImportFile tag extraction failed", "path", path, "error", err)
		return nil, err
	}

	existing, err := s.library.GetByHash(ctx, song.Hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Info("File already imported, skipping", "path", path, "id", existing.ID)
		return existing, nil
	}

	if err := s.library.Store(ctx, song); err != nil {
		slog.Error("ImportFile store failed", "path", path, "error", err)
		return nil, err
	}

	if len(picture) > 0 {
		if err := s.setCover(ctx, song, picture); err != nil {
			// The song itself is stored, covers are an extra.
			slog.Warn("Failed to ingest embedded cover", "id", song.ID, "error", err)
		}
	}

	slog.Info("Imported file", "path", path, "id", song.ID, "title", song.Title)
	return song, nil
}

// SetSongCover ingests raw cover bytes for an existing song and records
// the resulting file paths on the song and, if the album has no cover
// yet, on its album.
func (s *Service) SetSongCover(ctx context.Context, id string, data []byte) error {
	slog.Debug("SetSongCover service called", "id", id, "bytes", len(data))

	songs, err := s.library.GetSongsByOptions(ctx, music.QueryOptions{
		Song:    &music.SongFilter{ID: id},
		Combine: music.CombineAll,
	})
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		return fmt.Errorf("song %s: %w", id, music.ErrNotFound)
	}

	return s.setCover(ctx, songs[0], data)
}

func (s *Service) setCover(ctx context.Context, song *music.Song, data []byte) error {
	high, low, err := s.covers.Write(song.ID, data)
	if err != nil {
		return err
	}
	if err := s.library.UpdateSongCover(ctx, song.ID, high, low); err != nil {
		s.cleaner.Remove(high, low)
		return err
	}
	if err := s.library.UpdateAlbumCoverIfMissing(ctx, song.ID, high, low); err != nil {
		slog.Warn("Failed to backfill album cover", "songID", song.ID, "error", err)
	}
	return nil
}

// CreatePlaylist creates an empty playlist.
func (s *Service) CreatePlaylist(ctx context.Context, playlist *music.Playlist) error {
	slog.Debug("CreatePlaylist service called", "name", playlist.Name)
	if err := s.library.CreatePlaylist(ctx, playlist); err != nil {
		slog.Error("CreatePlaylist failed", "name", playlist.Name, "error", err)
		return err
	}
	slog.Debug("CreatePlaylist completed", "id", playlist.ID, "name", playlist.Name)
	return nil
}

// GetPlaylistSongs returns the songs of a playlist.
func (s *Service) GetPlaylistSongs(ctx context.Context, playlistID string) ([]*music.Song, error) {
	slog.Debug("GetPlaylistSongs service called", "playlistID", playlistID)
	songs, err := s.library.GetPlaylistSongs(ctx, playlistID)
	if err != nil {
		slog.Error("GetPlaylistSongs failed", "playlistID", playlistID, "error", err)
		return nil, err
	}
	slog.Debug("GetPlaylistSongs completed", "playlistID", playlistID, "count", len(songs))
	return songs, nil
}

// AddToPlaylist adds songs to a playlist.
func (s *Service) AddToPlaylist(ctx context.Context, playlistID string, songIDs []string) error {
	slog.Debug("AddToPlaylist service called", "playlistID", playlistID, "songs", len(songIDs))
	if err := s.library.AddToPlaylist(ctx, playlistID, songIDs...); err != nil {
		slog.Error("AddToPlaylist failed", "playlistID", playlistID, "error", err)
		return err
	}
	return nil
}

// RemoveFromPlaylist removes songs from a playlist.
func (s *Service) RemoveFromPlaylist(ctx context.Context, playlistID string, songIDs []string) error {
	slog.Debug("RemoveFromPlaylist service called", "playlistID", playlistID, "songs", len(songIDs))
	if err := s.library.RemoveFromPlaylist(ctx, playlistID, songIDs...); err != nil {
		slog.Error("RemoveFromPlaylist failed", "playlistID", playlistID, "error", err)
		return err
	}
	return nil
}

// RemovePlaylist deletes a playlist. Songs are untouched.
func (s *Service) RemovePlaylist(ctx context.Context, playlistID string) error {
	slog.Debug("RemovePlaylist service called", "playlistID", playlistID)
	if err := s.library.RemovePlaylist(ctx, playlistID); err != nil {
		slog.Error("RemovePlaylist failed", "playlistID", playlistID, "error", err)
		return err
	}
	return nil
}

// ExportPlaylistM3U renders the songs of a playlist as M3U content.
func (s *Service) ExportPlaylistM3U(ctx context.Context, playlistID string) (string, error) {
	slog.Debug("ExportPlaylistM3U service called", "playlistID", playlistID)
	songs, err := s.library.GetPlaylistSongs(ctx, playlistID)
	if err != nil {
		slog.Error("ExportPlaylistM3U failed", "playlistID", playlistID, "error", err)
		return "", err
	}
	return s.m3u.GenerateM3U(songs)
}

// ImportPlaylistM3U creates a playlist out of M3U content.
func (s *Service) ImportPlaylistM3U(ctx context.Context, name, description, content string) (*music.Playlist, error) {
	slog.Debug("ImportPlaylistM3U service called", "name", name)
	playlist, err := s.m3u.ImportM3U(ctx, name, description, content)
	if err != nil {
		slog.Error("ImportPlaylistM3U failed", "name", name, "error", err)
		return nil, err
	}
	return playlist, nil
}

// RefreshCounts recomputes the cached song counts of every shared
// entity from the bridge tables.
func (s *Service) RefreshCounts(ctx context.Context) error {
	slog.Debug("RefreshCounts service called")
	for _, update := range []func(context.Context) error{
		s.library.UpdateSongCountAlbum,
		s.library.UpdateSongCountArtist,
		s.library.UpdateSongCountGenre,
		s.library.UpdateSongCountPlaylist,
	} {
		if err := update(ctx); err != nil {
			slog.Error("RefreshCounts failed", "error", err)
			return err
		}
	}
	slog.Debug("RefreshCounts completed")
	return nil
}
