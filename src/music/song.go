package music

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Song represents a single entry in the library. It may point at a local
// audio file (Path) or a remote stream (URL), never neither.
type Song struct {
	ID        string
	Title     string
	Path      string
	URL       string
	Duration  int // seconds
	Bitrate   int
	Codec     string
	Container string
	CoverHigh string
	CoverLow  string
	Hash      string // content hash, used for duplicate detection
	Provider  string // which source produced this song ("local", extension id, ...)
	DateAdded time.Time

	// Resolved associations. On Store only the names matter; ids are
	// assigned by the entity resolver. On reads these are fully shaped.
	Artists []Artist
	Album   *Album
	Genres  []Genre
}

// Validate validates the song fields before any storage work happens.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("song title cannot be empty")
	}
	if len(s.Title) > 500 {
		return fmt.Errorf("song title cannot exceed 500 characters, got %d", len(s.Title))
	}
	if strings.TrimSpace(s.Path) == "" && strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("song must have a path or a stream URL: title -> %s", s.Title)
	}
	if len(s.Path) > 1000 {
		return fmt.Errorf("song path cannot exceed 1000 characters, got %d", len(s.Path))
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", s.Duration)
	}
	if s.Bitrate < 0 {
		return fmt.Errorf("bitrate cannot be negative, got %d", s.Bitrate)
	}
	for i := range s.Artists {
		if strings.TrimSpace(s.Artists[i].Name) == "" {
			return fmt.Errorf("song artist at index %d has an empty name", i)
		}
	}
	if s.Album != nil && len(s.Album.Name) > 500 {
		return fmt.Errorf("album name cannot exceed 500 characters, got %d", len(s.Album.Name))
	}
	return nil
}

// GenerateSongID creates a fresh UUID for a song.
func GenerateSongID() string {
	return uuid.New().String()
}

// GenerateSongIDFromHash creates a deterministic UUID from a content hash,
// so re-importing the same bytes yields the same identifier.
func GenerateSongIDFromHash(hash string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(hash)).String()
}
