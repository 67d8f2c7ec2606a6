package music

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Playlist is a user-created container. Unlike the shared entities it is
// never deduplicated: two playlists may carry the same name.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Cover       string
	SongCount   int // derived cache, recomputed by UpdateSongCountPlaylist
}

// Validate validates the playlist fields.
func (p *Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name cannot be empty")
	}
	if len(p.Name) > 200 {
		return fmt.Errorf("playlist name cannot exceed 200 characters, got %d: name -> %s", len(p.Name), p.Name)
	}
	if len(p.Description) > 1000 {
		return fmt.Errorf("playlist description cannot exceed 1000 characters, got %d", len(p.Description))
	}
	return nil
}

// GeneratePlaylistID creates a UUID for a playlist.
func GeneratePlaylistID() string {
	return uuid.New().String()
}
