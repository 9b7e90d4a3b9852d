// Package storage provides profile photo storage. It defines the Store
// interface and a local-disk implementation with content-type and size
// validation.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// AllowedImageTypes maps accepted upload MIME types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store interface {
	Save(contentType string, content io.Reader) (string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}

type DiskStore struct {
	dir     string
	maxSize int64
}

func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Save writes the upload under a generated name and returns that name.
func (s *DiskStore) Save(contentType string, content io.Reader) (string, error) {
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return "", ErrInvalidContentType
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(content, s.maxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return name, nil
}

func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	// Uploads are flat; reject anything that escapes the directory.
	if filepath.Base(name) != name {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, name))
}

func (s *DiskStore) Remove(name string) error {
	if filepath.Base(name) != name {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(s.dir, name))
}
