// Package media persists uploaded evidence files. Callers get back a
// relative path and the coarse media kind; everything else about the
// upload is opaque to them.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

var ErrUnsupportedMedia = errors.New("unsupported media type")

// extensions maps the accepted mime types to an on-disk extension and
// the kind the feed renderer distinguishes.
var extensions = map[string]struct {
	ext  string
	kind string
}{
	"image/jpeg": {".jpg", models.MediaImage},
	"image/png":  {".png", models.MediaImage},
	"video/mp4":  {".mp4", models.MediaVideo},
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the upload under a fresh uuid name and returns its path
// and kind. Unknown mime types are rejected before anything touches
// disk.
func (s *Store) Save(data []byte, mimeType string) (path, kind string, err error) {
	meta, ok := extensions[mimeType]
	if !ok {
		return "", "", ErrUnsupportedMedia
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + meta.ext
	path = filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write media: %w", err)
	}
	return path, meta.kind, nil
}
