// Package storage persists uploaded post images on local disk. Files are
// stored under a single directory with generated names and served statically
// at /images.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "feedhub/internal/errors"
)

// extByType maps the accepted image content types to file extensions.
// Everything else is rejected.
var extByType = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

// ImageStore saves and removes post images.
type ImageStore struct {
	dir string
}

// NewImageStore creates the store, making the directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the uploaded file under a generated name and returns its public
// URL path ("images/<name>"). Non-image uploads fail validation.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	ext, ok := extByType[contentType]
	if !ok {
		return "", apperrors.Validation("validation failed",
			apperrors.FieldError{Field: "image", Message: "only png, jpg and jpeg images are accepted"})
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path.Join("images", name), nil
}

// Remove deletes the file behind an image URL previously returned by Save.
// Unknown or already-removed files are not an error.
func (s *ImageStore) Remove(imageURL string) error {
	name := path.Base(imageURL)
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

// Dir returns the directory images are stored in, for static serving.
func (s *ImageStore) Dir() string {
	return s.dir
}
