package infra

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"melodex/src/music"
)

// M3UParser translates between playlists and the M3U text format.
type M3UParser struct {
	library music.Library
}

// NewM3UParser creates a new M3U parser.
func NewM3UParser(library music.Library) *M3UParser {
	return &M3UParser{library: library}
}

// ParseM3U parses M3U content and extracts song paths.
func (p *M3UParser) ParseM3U(content string) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(content))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		path := strings.Trim(line, "\"'")
		if path != "" {
			paths = append(paths, path)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error parsing M3U content: %w", err)
	}

	return paths, nil
}

// GenerateM3U generates M3U content from songs.
func (p *M3UParser) GenerateM3U(songs []*music.Song) (string, error) {
	var builder strings.Builder

	builder.WriteString("#EXTM3U\n\n")

	for _, song := range songs {
		duration := song.Duration
		if duration <= 0 {
			duration = -1 // Unknown duration
		}

		title := song.Title
		if len(song.Artists) > 0 {
			artistNames := make([]string, len(song.Artists))
			for i, artist := range song.Artists {
				artistNames[i] = artist.Name
			}
			title = strings.Join(artistNames, ", ") + " - " + title
		}

		builder.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", duration, title))
		builder.WriteString(song.Path)
		builder.WriteString("\n\n")
	}

	return builder.String(), nil
}

// ImportM3U creates a playlist out of M3U content, matching entries to
// library songs by path. Entries with no matching song are skipped.
func (p *M3UParser) ImportM3U(ctx context.Context, name, description, content string) (*music.Playlist, error) {
	paths, err := p.ParseM3U(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse M3U: %w", err)
	}

	playlist := &music.Playlist{Name: name, Description: description}
	if err := p.library.CreatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	addedCount := 0
	for _, path := range paths {
		songs, err := p.library.GetSongsByOptions(ctx, music.QueryOptions{
			Song:    &music.SongFilter{Path: path},
			Combine: music.CombineAll,
		})
		if err != nil {
			slog.Warn("Error finding song by path", "path", path, "error", err)
			continue
		}

		var match *music.Song
		for _, song := range songs {
			if song.Path == path {
				match = song
				break
			}
		}
		if match == nil {
			slog.Debug("No song for M3U entry, skipping", "path", path)
			continue
		}

		if err := p.library.AddToPlaylist(ctx, playlist.ID, match.ID); err != nil {
			slog.Warn("Error adding song to playlist", "songID", match.ID, "playlistID", playlist.ID, "error", err)
			continue
		}
		addedCount++
	}

	slog.Info("M3U import completed", "playlist", name, "totalPaths", len(paths), "addedSongs", addedCount)
	playlist.SongCount = addedCount
	return playlist, nil
}
