// Package uploads owns the on-disk image files and their /uploads URL space.
package uploads

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// SaveUpload writes an uploaded file and returns its server-relative path.
// Filenames are namespaced per user so a cleanup never crosses owners.
func (s *Store) SaveUpload(userID, kind, origName string, r io.Reader) (string, error) {
	ext := filepath.Ext(origName)
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%s_%s_%s%s", userID, kind, uuid.New().String(), ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}

// SavePNG stores a derived image and returns its server-relative path.
func (s *Store) SavePNG(img image.Image, userID, prefix string) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.png", userID, prefix, uuid.New().String())

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "/uploads/" + name, nil
}

// AbsPath maps a server-relative /uploads path back to the file on disk.
func (s *Store) AbsPath(relPath string) string {
	return filepath.Join(s.dir, filepath.Base(relPath))
}

// Remove deletes the file behind a relative path. A missing file is not an
// error; the record it backed is already gone.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(s.AbsPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL rewrites a server-relative path to an absolute URL. Already-absolute
// values pass through untouched.
func URL(baseURL, relPath string) string {
	if relPath == "" || strings.HasPrefix(relPath, "http") {
		return relPath
	}
	return baseURL + relPath
}
