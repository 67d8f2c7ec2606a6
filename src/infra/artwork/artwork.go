package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	"melodex/src/features/config"

	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	lowResWidth = 320
	jpegQuality = 90
)

// Service writes cover images into the covers directory. Each ingested
// image produces two files: the high-resolution original re-encoded as
// jpeg, and a low-resolution thumbnail for list views.
type Service struct {
	config *config.Manager
}

// NewService creates a new artwork service.
func NewService(cfg *config.Manager) *Service {
	return &Service{config: cfg}
}

// Write decodes data, stores <id>-high.jpg and <id>-low.jpg under the
// covers directory, and returns both paths.
func (s *Service) Write(id string, data []byte) (high string, low string, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode cover image: %w", err)
	}
	slog.Debug("Decoded cover image", "id", id, "format", format)

	dir := s.config.Get().CoversPath
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create covers directory: %w", err)
	}

	high = filepath.Join(dir, id+"-high.jpg")
	if err := writeJpeg(high, img); err != nil {
		return "", "", err
	}

	thumb := resize.Resize(lowResWidth, 0, img, resize.Lanczos3)
	low = filepath.Join(dir, id+"-low.jpg")
	if err := writeJpeg(low, thumb); err != nil {
		// Don't leave a half-ingested pair behind.
		os.Remove(high)
		return "", "", err
	}

	return high, low, nil
}

func writeJpeg(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cover file %s: %w", path, err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode cover file %s: %w", path, err)
	}
	return nil
}
