package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"melodex/src/features/config"
	"melodex/src/features/library"
	"melodex/src/features/metrics"
	"melodex/src/music"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, libraryService *library.Service, metricsService *metrics.Service) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			switch {
			case errors.As(err, &fiberErr):
				status = fiberErr.Code
			case errors.Is(err, music.ErrNotFound):
				status = fiber.StatusNotFound
			case errors.Is(err, music.ErrConstraint):
				status = fiber.StatusConflict
			case errors.Is(err, music.ErrTransient):
				status = fiber.StatusServiceUnavailable
			}
			if status >= fiber.StatusInternalServerError {
				slog.Error("Internal Server Error", "error", err)
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Melodex",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             50 * 1024 * 1024, // cover uploads
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	library.RegisterRoutes(app, libraryService)
	metrics.RegisterRoutes(app, metricsService)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
