// Package storage persists uploaded binary assets on disk, keyed by
// generated filename. Callers only ever see the generated name; the record
// that references it is stored elsewhere.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrUnsupportedMedia is returned when an upload's declared content type is
// not allowed for its field.
var ErrUnsupportedMedia = errors.New("unsupported media type")

const (
	coverDir   = "cover"
	libraryDir = "library"
)

var coverTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Store writes uploads beneath a base directory, covers under cover/ and
// book documents under library/.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	for _, sub := range []string{coverDir, libraryDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveCover stores a cover image and returns its generated filename.
// Only PNG and JPEG are accepted.
func (s *Store) SaveCover(fh *multipart.FileHeader) (string, error) {
	if !coverTypes[fh.Header.Get("Content-Type")] {
		return "", fmt.Errorf("cover must be PNG or JPEG: %w", ErrUnsupportedMedia)
	}
	return s.save(fh, coverDir)
}

// SaveDocument stores a book document and returns its generated filename.
// Only PDF is accepted.
func (s *Store) SaveDocument(fh *multipart.FileHeader) (string, error) {
	if fh.Header.Get("Content-Type") != "application/pdf" {
		return "", fmt.Errorf("book file must be PDF: %w", ErrUnsupportedMedia)
	}
	return s.save(fh, libraryDir)
}

func (s *Store) save(fh *multipart.FileHeader, sub string) (string, error) {
	filename := uuid.New().String() + "-" + filepath.Base(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, sub, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}
	return filename, nil
}
