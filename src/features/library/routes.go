package library

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the library feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	library := app.Group("/library")
	library.Get("/songs", handler.GetSongs)
	library.Post("/songs", handler.StoreSong)
	library.Get("/songs/hash/:hash", handler.GetSongByHash)
	library.Delete("/songs/:id", handler.DeleteSong)
	library.Put("/songs/:id/cover", handler.SetSongCover)
	library.Post("/import", handler.ImportFile)
	library.Get("/albums", handler.GetAlbums)
	library.Get("/artists", handler.GetArtists)
	library.Get("/genres", handler.GetGenres)
	library.Get("/search", handler.Search)
	library.Get("/playlists", handler.GetPlaylists)
	library.Post("/playlists", handler.CreatePlaylist)
	library.Get("/playlists/:id/songs", handler.GetPlaylistSongs)
	library.Get("/playlists/:id/m3u", handler.ExportPlaylistM3U)
	library.Post("/playlists/import", handler.ImportPlaylistM3U)
	library.Post("/playlists/:id/songs", handler.AddToPlaylist)
	library.Delete("/playlists/:id/songs", handler.RemoveFromPlaylist)
	library.Delete("/playlists/:id", handler.DeletePlaylist)
	library.Post("/counts/refresh", handler.RefreshCounts)
}
