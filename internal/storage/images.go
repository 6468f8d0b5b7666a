package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/witthaya/shopapi/pkg/logging"
)

// ImageStore keeps uploaded images under a content root, named
// <epoch-millis>_<original-name> so names never collide across uploads.
type ImageStore struct {
	Root string
}

func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}
	return &ImageStore{Root: root}, nil
}

func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	dst, err := os.Create(filepath.Join(s.Root, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image best-effort: a failure is logged and
// never propagated, so cleanup cannot block the primary response.
func (s *ImageStore) Remove(ctx context.Context, filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.Root, filename)); err != nil && !os.IsNotExist(err) {
		logging.FromContext(ctx).Warn("image_cleanup_failed", "file", filename, "error", err)
	}
}

func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.Root, filename)
}
