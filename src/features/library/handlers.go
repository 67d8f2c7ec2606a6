package library

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"melodex/src/music"
)

// Handler is the handler for the library feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the library feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, music.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, music.ErrConstraint):
		status = fiber.StatusConflict
	case errors.Is(err, music.ErrTransient):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// queryOptionsFromRequest builds song query options out of URL query
// parameters. Empty parameters contribute no predicate.
func queryOptionsFromRequest(c *fiber.Ctx) music.QueryOptions {
	opts := music.QueryOptions{}

	song := music.SongFilter{
		ID:       c.Query("id"),
		Title:    c.Query("title"),
		Path:     c.Query("path"),
		Hash:     c.Query("hash"),
		Provider: c.Query("provider"),
	}
	if song != (music.SongFilter{}) {
		opts.Song = &song
	}
	if v := c.Query("album"); v != "" {
		opts.Album = &music.AlbumFilter{Name: v}
	}
	if v := c.Query("albumArtist"); v != "" {
		if opts.Album == nil {
			opts.Album = &music.AlbumFilter{}
		}
		opts.Album.Artist = v
	}
	if v := c.Query("artist"); v != "" {
		opts.Artist = &music.ArtistFilter{Name: v}
	}
	if v := c.Query("genre"); v != "" {
		opts.Genre = &music.GenreFilter{Name: v}
	}
	if v := c.Query("playlist"); v != "" {
		opts.Playlist = &music.PlaylistFilter{ID: v}
	}

	if c.Query("combine") == "all" {
		opts.Combine = music.CombineAll
	}
	if c.Query("sort") == "date_added" {
		opts.Sort = &music.Sort{Field: music.SortDateAdded, Ascending: c.Query("order") != "desc"}
	} else if c.Query("sort") == "title" {
		opts.Sort = &music.Sort{Field: music.SortTitle, Ascending: c.Query("order") != "desc"}
	}

	return opts
}

// excludedPaths parses the exclude query parameter, a list of paths
// separated by the pipe character.
func excludedPaths(c *fiber.Ctx) []string {
	raw := c.Query("exclude")
	if raw == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(raw, "|") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// GetSongs is the handler for querying songs.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	slog.Debug("GetSongs handler called")
	songs, err := h.service.GetSongs(c.Context(), queryOptionsFromRequest(c), excludedPaths(c)...)
	if err != nil {
		slog.Error("Error loading songs", "error", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"songs": songs, "count": len(songs)})
}

// GetSongByHash is the handler for looking up a song by content hash.
func (h *Handler) GetSongByHash(c *fiber.Ctx) error {
	hash := c.Params("hash")
	slog.Debug("GetSongByHash handler called", "hash", hash)
	song, err := h.service.GetSongByHash(c.Context(), hash)
	if err != nil {
		return respondError(c, err)
	}
	if song == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no song with hash " + hash})
	}
	return c.JSON(song)
}

// StoreSong is the handler for adding a song.
func (h *Handler) StoreSong(c *fiber.Ctx) error {
	slog.Debug("StoreSong handler called")
	var song music.Song
	if err := c.BodyParser(&song); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.StoreSong(c.Context(), &song); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// DeleteSong is the handler for removing a song.
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	id := c.Params("id")
	slog.Debug("DeleteSong handler called", "id", id)
	if err := h.service.RemoveSong(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportFile is the handler for importing a local audio file.
func (h *Handler) ImportFile(c *fiber.Ctx) error {
	var body struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if body.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	slog.Debug("ImportFile handler called", "path", body.Path)
	song, err := h.service.ImportFile(c.Context(), body.Path)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// SetSongCover is the handler for uploading cover bytes for a song.
func (h *Handler) SetSongCover(c *fiber.Ctx) error {
	id := c.Params("id")
	data := c.Body()
	slog.Debug("SetSongCover handler called", "id", id, "bytes", len(data))
	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	if err := h.service.SetSongCover(c.Context(), id, data); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func entitySort(c *fiber.Ctx) *music.Sort {
	if c.Query("sort") == "" {
		return nil
	}
	return &music.Sort{Field: music.SortTitle, Ascending: c.Query("order") != "desc"}
}

// GetAlbums is the handler for querying albums.
func (h *Handler) GetAlbums(c *fiber.Ctx) error {
	slog.Debug("GetAlbums handler called")
	filter := music.AlbumFilter{
		ID:     c.Query("id"),
		Name:   c.Query("name"),
		Artist: c.Query("artist"),
	}
	filter.All = filter == (music.AlbumFilter{})
	albums, err := h.service.GetAlbums(c.Context(), filter, entitySort(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"albums": albums, "count": len(albums)})
}

// GetArtists is the handler for querying artists.
func (h *Handler) GetArtists(c *fiber.Ctx) error {
	slog.Debug("GetArtists handler called")
	filter := music.ArtistFilter{ID: c.Query("id"), Name: c.Query("name")}
	filter.All = filter == (music.ArtistFilter{})
	artists, err := h.service.GetArtists(c.Context(), filter, entitySort(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"artists": artists, "count": len(artists)})
}

// GetGenres is the handler for querying genres.
func (h *Handler) GetGenres(c *fiber.Ctx) error {
	slog.Debug("GetGenres handler called")
	filter := music.GenreFilter{ID: c.Query("id"), Name: c.Query("name")}
	filter.All = filter == (music.GenreFilter{})
	genres, err := h.service.GetGenres(c.Context(), filter, entitySort(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"genres": genres, "count": len(genres)})
}

// GetPlaylists is the handler for querying playlists.
func (h *Handler) GetPlaylists(c *fiber.Ctx) error {
	slog.Debug("GetPlaylists handler called")
	filter := music.PlaylistFilter{ID: c.Query("id"), Name: c.Query("name")}
	filter.All = filter == (music.PlaylistFilter{})
	playlists, err := h.service.GetPlaylists(c.Context(), filter, entitySort(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"playlists": playlists, "count": len(playlists)})
}

// Search is the handler for the combined search across categories.
func (h *Handler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	slog.Debug("Search handler called", "term", term)
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
	}
	result, err := h.service.Search(c.Context(), term, excludedPaths(c)...)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// CreatePlaylist is the handler for creating a playlist.
func (h *Handler) CreatePlaylist(c *fiber.Ctx) error {
	slog.Debug("CreatePlaylist handler called")
	var playlist music.Playlist
	if err := c.BodyParser(&playlist); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.CreatePlaylist(c.Context(), &playlist); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// GetPlaylistSongs is the handler for listing the songs of a playlist.
func (h *Handler) GetPlaylistSongs(c *fiber.Ctx) error {
	id := c.Params("id")
	slog.Debug("GetPlaylistSongs handler called", "id", id)
	songs, err := h.service.GetPlaylistSongs(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"songs": songs, "count": len(songs)})
}

type playlistSongsBody struct {
	SongIDs []string `json:"songIds"`
}

// AddToPlaylist is the handler for adding songs to a playlist.
func (h *Handler) AddToPlaylist(c *fiber.Ctx) error {
	id := c.Params("id")
	var body playlistSongsBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Debug("AddToPlaylist handler called", "id", id, "songs", len(body.SongIDs))
	if err := h.service.AddToPlaylist(c.Context(), id, body.SongIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFromPlaylist is the handler for removing songs from a playlist.
func (h *Handler) RemoveFromPlaylist(c *fiber.Ctx) error {
	id := c.Params("id")
	var body playlistSongsBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Debug("RemoveFromPlaylist handler called", "id", id, "songs", len(body.SongIDs))
	if err := h.service.RemoveFromPlaylist(c.Context(), id, body.SongIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePlaylist is the handler for deleting a playlist.
func (h *Handler) DeletePlaylist(c *fiber.Ctx) error {
	id := c.Params("id")
	slog.Debug("DeletePlaylist handler called", "id", id)
	if err := h.service.RemovePlaylist(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportPlaylistM3U is the handler for downloading a playlist as M3U.
func (h *Handler) ExportPlaylistM3U(c *fiber.Ctx) error {
	id := c.Params("id")
	slog.Debug("ExportPlaylistM3U handler called", "id", id)
	content, err := h.service.ExportPlaylistM3U(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "audio/x-mpegurl")
	return c.SendString(content)
}

// ImportPlaylistM3U is the handler for creating a playlist from M3U content.
func (h *Handler) ImportPlaylistM3U(c *fiber.Ctx) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Debug("ImportPlaylistM3U handler called", "name", body.Name)
	playlist, err := h.service.ImportPlaylistM3U(c.Context(), body.Name, body.Description, body.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// RefreshCounts is the handler for recomputing entity song counts.
func (h *Handler) RefreshCounts(c *fiber.Ctx) error {
	slog.Debug("RefreshCounts handler called")
	if err := h.service.RefreshCounts(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
