package tag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"melodex/src/music"
)

// Reader extracts song metadata from local audio files using dhowden/tag.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// parseArtists splits a tag artist string on common delimiters.
func parseArtists(artistString string) []music.Artist {
	if strings.TrimSpace(artistString) == "" {
		return nil
	}

	delimiters := []string{";", "/", ",", " feat. ", " ft. ", " & "}

	for _, delim := range delimiters {
		if strings.Contains(artistString, delim) {
			names := strings.Split(artistString, delim)
			artists := make([]music.Artist, 0, len(names))
			for _, name := range names {
				name = strings.TrimSpace(name)
				if name != "" {
					artists = append(artists, music.Artist{Name: name})
				}
			}
			if len(artists) > 0 {
				return artists
			}
		}
	}

	return []music.Artist{{Name: strings.TrimSpace(artistString)}}
}

// ReadFile reads tags from an audio file and builds a Song out of them.
// The second return value is the embedded cover picture, if any.
func (r *Reader) ReadFile(ctx context.Context, filePath string) (*music.Song, []byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash, err := hashContent(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tags: %w", err)
	}

	albumArtist := tags.AlbumArtist()
	if albumArtist == "" {
		albumArtist = tags.Artist()
	}

	song := &music.Song{
		Title:     tags.Title(),
		Path:      filePath,
		Hash:      hash,
		Provider:  "local",
		Container: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		Codec:     codecFromFileType(tags.FileType()),
		Artists:   parseArtists(tags.Artist()),
	}

	if song.Title == "" {
		base := filepath.Base(filePath)
		song.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if album := strings.TrimSpace(tags.Album()); album != "" {
		song.Album = &music.Album{
			Name:        album,
			AlbumArtist: strings.TrimSpace(albumArtist),
			Year:        tags.Year(),
		}
	}
	if genre := strings.TrimSpace(tags.Genre()); genre != "" {
		song.Genres = []music.Genre{{Name: genre}}
	}

	var picture []byte
	if pic := tags.Picture(); pic != nil {
		picture = pic.Data
	}

	return song, picture, nil
}

func hashContent(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func codecFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return "mp3"
	case tag.FLAC:
		return "flac"
	case tag.OGG:
		return "ogg"
	case tag.M4A, tag.M4B, tag.M4P:
		return "aac"
	case tag.ALAC:
		return "alac"
	case tag.DSF:
		return "dsf"
	default:
		return ""
	}
}
