package metrics

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"melodex/src/music"
)

// Service exposes library statistics as prometheus gauges. Gauges are
// refreshed from the database on every scrape, the library itself is
// the source of truth.
type Service struct {
	library  music.Library
	registry *prometheus.Registry

	songs     prometheus.Gauge
	albums    prometheus.Gauge
	artists   prometheus.Gauge
	genres    prometheus.Gauge
	playlists prometheus.Gauge
	codecs    *prometheus.GaugeVec
}

// NewService creates a new metrics service with its own registry.
func NewService(library music.Library) *Service {
	s := &Service{
		library:  library,
		registry: prometheus.NewRegistry(),
		songs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_songs_total",
			Help: "Number of songs in the library.",
		}),
		albums: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_albums_total",
			Help: "Number of albums in the library.",
		}),
		artists: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_artists_total",
			Help: "Number of artists in the library.",
		}),
		genres: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_genres_total",
			Help: "Number of genres in the library.",
		}),
		playlists: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_playlists_total",
			Help: "Number of playlists in the library.",
		}),
		codecs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "melodex", Name: "library_songs_by_codec",
			Help: "Number of songs per codec.",
		}, []string{"codec"}),
	}

	s.registry.MustRegister(s.songs, s.albums, s.artists, s.genres, s.playlists, s.codecs)
	return s
}

// Registry returns the prometheus registry the gauges live in.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Refresh reloads every gauge from the library.
func (s *Service) Refresh(ctx context.Context) error {
	stats, err := s.library.Stats(ctx)
	if err != nil {
		slog.Error("Failed to load library stats", "error", err)
		return err
	}
	s.songs.Set(float64(stats.Songs))
	s.albums.Set(float64(stats.Albums))
	s.artists.Set(float64(stats.Artists))
	s.genres.Set(float64(stats.Genres))
	s.playlists.Set(float64(stats.Playlists))

	codecs, err := s.library.CodecDistribution(ctx)
	if err != nil {
		slog.Error("Failed to load codec distribution", "error", err)
		return err
	}
	s.codecs.Reset()
	for codec, count := range codecs {
		s.codecs.WithLabelValues(codec).Set(float64(count))
	}

	slog.Debug("Refreshed library metrics", "songs", stats.Songs, "albums", stats.Albums)
	return nil
}

// Stats returns the raw library counts for the JSON endpoint.
func (s *Service) Stats(ctx context.Context) (music.Stats, map[string]int, error) {
	stats, err := s.library.Stats(ctx)
	if err != nil {
		return music.Stats{}, nil, err
	}
	codecs, err := s.library.CodecDistribution(ctx)
	if err != nil {
		return music.Stats{}, nil, err
	}
	return stats, codecs, nil
}
