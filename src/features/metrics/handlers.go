package metrics

import (
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler handles HTTP requests for the metrics feature.
type Handler struct {
	service *Service
	scrape  fiber.Handler
}

// NewHandler creates a new metrics handler.
func NewHandler(service *Service) *Handler {
	promHandler := promhttp.HandlerFor(service.Registry(), promhttp.HandlerOpts{})
	return &Handler{
		service: service,
		scrape:  adaptor.HTTPHandler(promHandler),
	}
}

// Scrape refreshes the gauges and serves the prometheus exposition.
func (h *Handler) Scrape(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.Context()); err != nil {
		// Serve whatever the gauges currently hold.
		slog.Warn("Serving stale metrics", "error", err)
	}
	return h.scrape(c)
}

// GetStats returns the library counts as JSON.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	slog.Debug("GetStats handler called")
	stats, codecs, err := h.service.Stats(c.Context())
	if err != nil {
		slog.Error("Error loading stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"songs":     stats.Songs,
		"albums":    stats.Albums,
		"artists":   stats.Artists,
		"genres":    stats.Genres,
		"playlists": stats.Playlists,
		"codecs":    codecs,
	})
}
