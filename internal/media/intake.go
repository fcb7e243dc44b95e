// Package media stores inbound attachments: resolve the media id to its
// download URL, fetch the bytes, and persist them under a name derived from
// the id and the declared content type.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subcast/internal/model"
)

type Config interface {
	MediaDirectory() string
}

type Provider interface {
	ResolveMedia(ctx context.Context, mediaID string) (string, error)
	FetchMedia(ctx context.Context, url string) ([]byte, string, error)
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"video/mp4":       ".mp4",
	"audio/mpeg":      ".mp3",
	"application/pdf": ".pdf",
}

// Extension maps a declared content type to a filename extension. Unknown
// types map to "" and the asset is stored without an extension.
func Extension(contentType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return extensions[mediaType]
}

type service struct {
	provider Provider
	dir      string
}

func New(config Config, provider Provider) *service {
	return &service{provider: provider, dir: config.MediaDirectory()}
}

// Save stores the attachment and returns the filename it was stored under.
// Re-fetching the same media id overwrites the same file.
func (s *service) Save(ctx context.Context, mediaID string) (string, error) {
	url, err := s.provider.ResolveMedia(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrorMediaResolution, err)
	}

	data, contentType, err := s.provider.FetchMedia(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrorMediaFetch, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}

	filename := mediaID + Extension(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}
	return filename, nil
}
